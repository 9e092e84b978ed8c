package authgate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/MrEthical07/authgate/internal/stores"
)

// identityCache wraps the Redis record store with credential hashing and the
// Identity mapping. The raw credential never reaches Redis; keys are SHA-256
// digests of the token.
type identityCache struct {
	store *stores.IdentityCacheStore
}

func newIdentityCache(store *stores.IdentityCacheStore) *identityCache {
	if store == nil {
		return nil
	}
	return &identityCache{store: store}
}

func credentialDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// get returns the cached identity for token. Any cache failure reads as a
// miss; the caller falls through to a live resolution.
func (c *identityCache) get(ctx context.Context, token string) (*Identity, bool) {
	if c == nil {
		return nil, false
	}

	record, found, err := c.store.Get(ctx, credentialDigest(token))
	if err != nil || !found {
		return nil, false
	}

	return &Identity{
		ID:        record.UserID,
		Email:     record.Email,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		AvatarURL: record.AvatarURL,
	}, true
}

// save stores a resolved identity. Best-effort: a failed write is ignored.
func (c *identityCache) save(ctx context.Context, token string, ident *Identity) {
	if c == nil || ident == nil {
		return
	}

	_ = c.store.Save(ctx, credentialDigest(token), &stores.IdentityRecord{
		UserID:    ident.ID,
		Email:     ident.Email,
		FirstName: ident.FirstName,
		LastName:  ident.LastName,
		AvatarURL: ident.AvatarURL,
	})
}

// invalidate drops the cached identity for token. Logout and forced expiry
// must call this so a dead credential can never resolve from cache.
func (c *identityCache) invalidate(ctx context.Context, token string) {
	if c == nil {
		return
	}
	_ = c.store.Delete(ctx, credentialDigest(token))
}
