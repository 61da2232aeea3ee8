package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/shoplist/internal/domain"
)

func TestParseID(t *testing.T) {
	id, err := parseID("0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b")
	require.NoError(t, err)
	assert.True(t, id.Valid)
	assert.Equal(t, "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b", pgtypeToUUIDString(id))

	_, err = parseID("not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestPgtypeToUUIDString_Invalid(t *testing.T) {
	assert.Empty(t, pgtypeToUUIDString(pgtype.UUID{}))
}

func TestTimeConversions(t *testing.T) {
	local := time.Date(2026, 3, 3, 21, 0, 0, 0, time.FixedZone("IST", 2*3600))

	ts := timeToPgtype(local)
	require.True(t, ts.Valid)
	assert.Equal(t, time.UTC, ts.Time.Location())

	assert.False(t, timeToPgtype(time.Time{}).Valid)
	assert.True(t, pgtypeToTime(pgtype.Timestamptz{}).IsZero())
	assert.True(t, local.Equal(pgtypeToTime(ts)))

	assert.Nil(t, pgtypeToTimePtr(pgtype.Timestamptz{}))
	ptr := pgtypeToTimePtr(ts)
	require.NotNil(t, ptr)
	assert.Equal(t, time.UTC, ptr.Location())

	assert.False(t, timePtrToPgtype(nil).Valid)
	assert.True(t, timePtrToPgtype(&local).Valid)
}

func TestItemsOrEmpty(t *testing.T) {
	assert.Equal(t, []byte("[]"), itemsOrEmpty(nil))
	assert.Equal(t, []byte(`[{"id":"a"}]`), itemsOrEmpty([]byte(`[{"id":"a"}]`)))
}
