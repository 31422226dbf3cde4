// Package cache provides the response cache for tutor generation
// operations. Entries are keyed by operation plus a digest of the full
// backend configuration and rendered prompt, so a mode or model switch
// never serves a stale response.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Cache is a bounded string cache. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Len() int
}

// Key derives the cache key for one generation call. The digest covers
// mode, model and the rendered prompt; the operation name stays in the
// clear so entries can be inspected per operation.
func Key(operation, mode, model, prompt string) string {
	sum := sha256.Sum256([]byte(mode + ":" + model + ":" + prompt))
	return fmt.Sprintf("%s:%s", operation, hex.EncodeToString(sum[:]))
}
