package assets

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Asset is a locally addressable reference to generated video bytes held in
// memory. The caller owns the reference: it stays resolvable until Revoke is
// called or the TTL expires.
type Asset struct {
	ID        string
	Data      []byte
	MIMEType  string
	Prompt    string
	CreatedAt time.Time
}

// Registry hands out revocable references to generated videos. The TTL is a
// backstop against callers that drop references without revoking them.
type Registry struct {
	store *cache.Cache
}

// NewRegistry creates a registry whose entries expire after ttl.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Registry{store: cache.New(ttl, 10*time.Minute)}
}

// Put registers video bytes under a fresh reference. CreatedAt is stamped
// here, at fetch completion.
func (r *Registry) Put(data []byte, mimeType, prompt string) *Asset {
	asset := &Asset{
		ID:        uuid.NewString(),
		Data:      data,
		MIMEType:  mimeType,
		Prompt:    prompt,
		CreatedAt: time.Now().UTC(),
	}
	r.store.Set(asset.ID, asset, cache.DefaultExpiration)
	return asset
}

// Get resolves a reference. The second return value is false once the
// reference was revoked or expired.
func (r *Registry) Get(id string) (*Asset, bool) {
	v, ok := r.store.Get(id)
	if !ok {
		return nil, false
	}
	asset, ok := v.(*Asset)
	return asset, ok
}

// Revoke releases a reference and the bytes behind it.
func (r *Registry) Revoke(id string) {
	r.store.Delete(id)
}
