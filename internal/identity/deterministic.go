package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
// Keys are prefixed per record type so different tables never collide.
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

func LocaleUUID(code string) uuid.UUID {
	return UUID("l10n:locale:" + strings.ToLower(strings.TrimSpace(code)))
}

func ProjectUUID(slug string) uuid.UUID {
	return UUID("l10n:project:" + strings.ToLower(strings.TrimSpace(slug)))
}

func ResourceUUID(projectID uuid.UUID, path string) uuid.UUID {
	return UUID("l10n:resource:" + projectID.String() + ":" + strings.TrimSpace(path))
}

// EntityUUID keys on the raw stored key, which may contain null bytes for
// xliff resources.
func EntityUUID(resourceID uuid.UUID, key string) uuid.UUID {
	return UUID("l10n:entity:" + resourceID.String() + ":" + key)
}

func UserUUID(email string) uuid.UUID {
	return UUID("l10n:user:" + strings.ToLower(strings.TrimSpace(email)))
}
