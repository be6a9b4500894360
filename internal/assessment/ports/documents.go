package ports

import (
	"time"

	"htb-gateway/internal/documents"
)

// DocumentCatalog supplies the checklist attached to an eligible result.
type DocumentCatalog interface {
	Required(profile documents.Profile, issuedAt time.Time) []documents.Requirement
}
