package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"docqa-chat-be/pkg/pdf"

	"github.com/patrickmn/go-cache"
)

// ExtractionCache memoizes parsed PDFs by content hash so a re-upload of
// the same bytes skips the full parse. Entries carry the text and counts of
// the original parse; callers re-stamp filename and upload time themselves.
type ExtractionCache struct {
	cache *cache.Cache
}

func NewExtractionCache() *ExtractionCache {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ExtractionCache{
		cache: c,
	}
}

// ContentKey derives the cache key from raw upload bytes.
func ContentKey(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (r *ExtractionCache) Save(key string, extraction *pdf.Extraction) {
	r.cache.Set(key, extraction, cache.DefaultExpiration)
}

func (r *ExtractionCache) Get(key string) (*pdf.Extraction, bool) {
	if x, found := r.cache.Get(key); found {
		return x.(*pdf.Extraction), true
	}
	return nil, false
}
