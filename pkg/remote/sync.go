package remote

import (
	"errors"
	"fmt"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/merge"
	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// ErrPartialSync marks a sync whose merge succeeded but whose upload failed.
var ErrPartialSync = errors.New("sync partially completed")

// Result describes a sync run.
type Result struct {
	Records     []record.Record
	LocalCount  int
	RemoteCount int
	Uploaded    bool
}

// Sync downloads the user's remote records, merges them with local and
// uploads the merged set. key selects the merge identity; nil uses
// merge.NameTimestampKey.
//
// On download failure Records is local unchanged. On upload failure Records
// is the merged set and the error wraps ErrPartialSync.
func Sync(c *Client, user string, local []record.Record, key merge.KeyFunc) (Result, error) {
	result := Result{Records: local, LocalCount: len(local)}

	if !c.Enabled() {
		return result, ErrSyncDisabled
	}
	if key == nil {
		key = merge.NameTimestampKey
	}

	remote, err := c.Download(user)
	if err != nil {
		return result, fmt.Errorf("failed to download remote records: %w", err)
	}
	result.RemoteCount = len(remote)

	result.Records = merge.MergeBy(local, remote, key)

	if err := c.Upload(user, result.Records); err != nil {
		return result, fmt.Errorf("%w: %w", ErrPartialSync, err)
	}
	result.Uploaded = true

	return result, nil
}
