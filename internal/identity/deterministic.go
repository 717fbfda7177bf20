// Package identity derives stable ids for catalog entities so rebuilding the
// site from the same content yields the same identifiers.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from key using go-hashid. Keys must be
// prefixed per entity type to avoid cross-type collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PageUUID identifies a page by its route.
func PageUUID(route string) uuid.UUID {
	return UUID("riguelni-docs:page:" + strings.ToLower(strings.TrimSpace(route)))
}

// BuildUUID identifies a static build by the checksum of its manifest.
func BuildUUID(checksum string) uuid.UUID {
	return UUID("riguelni-docs:build:" + strings.TrimSpace(checksum))
}
