package env

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type localSection struct {
	Backend string `env:"ENVTEST_LOCAL_BACKEND"`
	Path    string `env:"ENVTEST_LOCAL_PATH"`
}

func (c *localSection) Validate() error {
	if c.Backend == "broken" {
		return errors.New("broken backend")
	}
	return nil
}

type testConfig struct {
	Local    localSection
	Port     int           `env:"ENVTEST_PORT"`
	Queue    uint16        `env:"ENVTEST_QUEUE"`
	Enabled  bool          `env:"ENVTEST_ENABLED"`
	Timeout  time.Duration `env:"ENVTEST_TIMEOUT"`
	Origins  []string      `env:"ENVTEST_ORIGINS"`
	Started  time.Time
	Untagged string
	hidden   string `env:"ENVTEST_HIDDEN"`
}

type requiredConfig struct {
	UserID string `env:"ENVTEST_USER_ID,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("ENVTEST_LOCAL_BACKEND", "sqlite")
	t.Setenv("ENVTEST_LOCAL_PATH", "/tmp/shoplist.db")
	t.Setenv("ENVTEST_PORT", "9090")
	t.Setenv("ENVTEST_QUEUE", "512")
	t.Setenv("ENVTEST_ENABLED", "true")
	t.Setenv("ENVTEST_TIMEOUT", "1m30s")
	t.Setenv("ENVTEST_ORIGINS", "a.example, ,b.example")
	t.Setenv("ENVTEST_HIDDEN", "ignored")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "sqlite", cfg.Local.Backend)
	assert.Equal(t, "/tmp/shoplist.db", cfg.Local.Path)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, uint16(512), cfg.Queue)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.Origins)
	assert.True(t, cfg.Started.IsZero())
	assert.Empty(t, cfg.hidden)
}

func TestLoad_UnsetFieldsKeepZeroValues(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Empty(t, cfg.Local.Backend)
	assert.Zero(t, cfg.Port)
	assert.Zero(t, cfg.Timeout)
	assert.Nil(t, cfg.Origins)
}

func TestLoad_EmptyStringRespected(t *testing.T) {
	t.Setenv("ENVTEST_LOCAL_PATH", "")

	var cfg testConfig
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "", cfg.Local.Path)
}

func TestLoad_InvalidValue(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"int", "ENVTEST_PORT", "not-a-number"},
		{"bool", "ENVTEST_ENABLED", "maybe"},
		{"duration", "ENVTEST_TIMEOUT", "5 parsecs"},
		{"uint overflow", "ENVTEST_QUEUE", "70000"},
		{"negative uint", "ENVTEST_QUEUE", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			var cfg testConfig
			err := Load(&cfg)
			require.Error(t, err)

			var invalid ErrInvalidValue
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.envVar, invalid.EnvVar)
			assert.Equal(t, tt.value, invalid.Value)
		})
	}
}

func TestLoad_IntOverflowUnwrapsToRangeError(t *testing.T) {
	type small struct {
		N int8 `env:"ENVTEST_SMALL"`
	}
	t.Setenv("ENVTEST_SMALL", "300")

	var cfg small
	err := Load(&cfg)
	assert.ErrorIs(t, err, strconv.ErrRange)
}

func TestLoad_Required(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	var missing ErrMissingValue
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ENVTEST_USER_ID", missing.EnvVar)
	assert.Contains(t, err.Error(), "ENVTEST_USER_ID is required")

	t.Setenv("ENVTEST_USER_ID", "user-1")
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "user-1", cfg.UserID)
}

func TestLoad_NestedValidatorRuns(t *testing.T) {
	t.Setenv("ENVTEST_LOCAL_BACKEND", "broken")

	var cfg testConfig
	err := Load(&cfg)
	assert.EqualError(t, err, "broken backend")
}

func TestLoad_RejectsNonStructPointer(t *testing.T) {
	var cfg testConfig
	err := Load(cfg)

	var notPtr ErrNotStructPointer
	require.ErrorAs(t, err, &notPtr)
	assert.Equal(t, "env.testConfig", notPtr.Type)

	n := 3
	assert.Error(t, Load(&n))
}

func TestLoad_UnsupportedType(t *testing.T) {
	type bad struct {
		Ratio float64 `env:"ENVTEST_RATIO"`
	}
	t.Setenv("ENVTEST_RATIO", "0.5")

	var cfg bad
	err := Load(&cfg)

	var unsupported ErrUnsupportedType
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "float64", unsupported.Kind)
}
