// Package gcs implements the remote store on Google Cloud Storage with one
// JSON object per row.
package gcs

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/rezkam/shoplist/internal/remote"
)

const (
	savedListsDir = "saved_lists"
	historyDir    = "history"
)

// Store implements remote.Store on a GCS bucket.
// Objects live at <prefix>/<user>/saved_lists/<id>.json and
// <prefix>/<user>/history/<id>.json.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ remote.Store = (*Store)(nil)

// NewStore creates a new GCS store.
// Without options the client authenticates with Application Default Credentials.
func NewStore(ctx context.Context, bucketName, prefix string, opts ...option.ClientOption) (*Store, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Store{
		client: client,
		bucket: bucketName,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) dirName(userID, kind string) string {
	return path.Join(s.prefix, url.PathEscape(userID), kind) + "/"
}

func (s *Store) objectName(userID, kind, id string) string {
	return s.dirName(userID, kind) + url.PathEscape(id) + ".json"
}

// ListSavedLists returns the user's saved lists, newest first.
func (s *Store) ListSavedLists(ctx context.Context, userID string) ([]remote.SavedListRow, error) {
	rows, err := listObjects[remote.SavedListRow](ctx, s, s.dirName(userID, savedListsDir))
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rows, func(a, b remote.SavedListRow) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(b.ID, a.ID))
	})
	return rows, nil
}

// UpsertSavedList writes the saved list object, replacing any previous version.
func (s *Store) UpsertSavedList(ctx context.Context, row remote.SavedListRow) error {
	if row.ID == "" {
		return fmt.Errorf("saved list id is required")
	}
	obj := s.client.Bucket(s.bucket).Object(s.objectName(row.UserID, savedListsDir, row.ID))
	return writeJSON(ctx, obj, row)
}

// DeleteSavedList removes one of the user's saved lists. Unknown ids succeed.
func (s *Store) DeleteSavedList(ctx context.Context, userID, id string) error {
	return s.deleteObject(ctx, s.objectName(userID, savedListsDir, id))
}

// ListHistory returns the user's history, most recently completed first.
func (s *Store) ListHistory(ctx context.Context, userID string) ([]remote.HistoryRow, error) {
	rows, err := listObjects[remote.HistoryRow](ctx, s, s.dirName(userID, historyDir))
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rows, func(a, b remote.HistoryRow) int {
		return cmp.Or(b.CompletedAt.Compare(a.CompletedAt), strings.Compare(b.ID, a.ID))
	})
	return rows, nil
}

// InsertHistory writes a history object. An existing object with the same
// id is kept, so a replayed mirror write does not fail.
func (s *Store) InsertHistory(ctx context.Context, row remote.HistoryRow) error {
	if row.ID == "" {
		return fmt.Errorf("history id is required")
	}
	obj := s.client.Bucket(s.bucket).
		Object(s.objectName(row.UserID, historyDir, row.ID)).
		If(storage.Conditions{DoesNotExist: true})

	err := writeJSON(ctx, obj, row)
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == http.StatusPreconditionFailed {
		return nil
	}
	return err
}

// DeleteHistory removes one of the user's history records. Unknown ids succeed.
func (s *Store) DeleteHistory(ctx context.Context, userID, id string) error {
	return s.deleteObject(ctx, s.objectName(userID, historyDir, id))
}

// ClearHistory removes every history object of the user.
func (s *Store) ClearHistory(ctx context.Context, userID string) error {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: s.dirName(userID, historyDir)})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list history objects: %w", err)
		}
		if err := s.deleteObject(ctx, attrs.Name); err != nil {
			return err
		}
	}
}

func (s *Store) deleteObject(ctx context.Context, name string) error {
	err := s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", name, err)
	}
	return nil
}

func writeJSON(ctx context.Context, obj *storage.ObjectHandle, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal object: %w", err)
	}

	w := obj.NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// listObjects decodes every JSON object under prefix.
// Objects that vanish or fail to decode between listing and reading are skipped.
func listObjects[T any](ctx context.Context, s *Store, prefix string) ([]T, error) {
	bucket := s.client.Bucket(s.bucket)
	it := bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	var out []T
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if !strings.HasSuffix(attrs.Name, ".json") {
			continue
		}

		r, err := bucket.Object(attrs.Name).NewReader(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read object %s: %w", attrs.Name, err)
		}

		var v T
		decodeErr := json.NewDecoder(r).Decode(&v)
		r.Close()
		if decodeErr != nil {
			continue
		}
		out = append(out, v)
	}

	if out == nil {
		out = []T{}
	}
	return out, nil
}
