// Package localcache holds the device-local durable collections: the
// shopping history log, the saved-list cache and the active list.
//
// Local storage is the availability guarantee of the application, so every
// operation here reports storage failures to its caller. Stored values that
// cannot be decoded are treated as absent.
package localcache

import "context"

// Storage keys. Values are JSON documents.
const (
	KeyHistory    = "shoplist.history"
	KeySavedLists = "shoplist.saved_lists"
	KeyCurrent    = "shoplist.current"
	KeySettings   = "shoplist.settings"

	KeyHistoryDeleted    = "shoplist.history.deleted"
	KeySavedListsDeleted = "shoplist.saved_lists.deleted"
)

// KV is the local key/value store the collections persist to.
// Get on a missing key returns found=false and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
