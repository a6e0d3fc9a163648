package overlay

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackzampolin/restyle/internal/defra"
)

// Collection is the DefraDB collection holding overlay documents.
const Collection = "CatalogOverlay"

// DefraStore keeps the overlay as a CatalogOverlay document in DefraDB.
type DefraStore struct {
	client *defra.Client
	key    string
	now    func() time.Time
}

// NewDefraStore creates a DefraDB-backed overlay. The CatalogOverlay
// collection must already be registered (see schema.Initialize).
func NewDefraStore(client *defra.Client) *DefraStore {
	return &DefraStore{client: client, key: CatalogKey, now: time.Now}
}

func (d *DefraStore) ReadBlob(ctx context.Context) (string, bool, error) {
	resp, err := defra.NewQuery(Collection).
		Filter("key", d.key).
		Fields("_docID", "blob").
		Limit(1).
		Execute(ctx, d.client)
	if err != nil {
		return "", false, fmt.Errorf("failed to query overlay: %w", err)
	}
	if errMsg := resp.Error(); errMsg != "" {
		return "", false, fmt.Errorf("graphql error: %s", errMsg)
	}

	docs := resp.Docs(Collection)
	if len(docs) == 0 {
		return "", false, nil
	}
	blob, ok := docs[0]["blob"].(string)
	if !ok {
		return "", false, fmt.Errorf("overlay document has no blob field")
	}
	return blob, true, nil
}

func (d *DefraStore) WriteBlob(ctx context.Context, blob string) error {
	ts := d.now().UTC().Format(time.RFC3339Nano)
	filter := map[string]any{"key": map[string]any{"_eq": d.key}}
	create := map[string]any{"key": d.key, "blob": blob, "updated_at": ts}
	update := map[string]any{"blob": blob, "updated_at": ts}

	if _, err := d.client.Upsert(ctx, Collection, filter, create, update); err != nil {
		return fmt.Errorf("failed to write overlay: %w", err)
	}
	return nil
}

// QuarantineBlob stores a corrupt overlay as a separate document.
func (d *DefraStore) QuarantineBlob(ctx context.Context, blob string) error {
	now := d.now().UTC()
	_, err := d.client.Create(ctx, Collection, map[string]any{
		"key":        d.key + ".corrupt." + strconv.FormatInt(now.Unix(), 10),
		"blob":       blob,
		"updated_at": now.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to quarantine overlay: %w", err)
	}
	return nil
}
