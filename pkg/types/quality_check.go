package types

import (
	"time"

	"github.com/google/uuid"
)

// QualityCheck records the inspection result attached to a batch. Stored as
// jsonb via the gorm json serializer.
type QualityCheck struct {
	Passed    bool       `json:"passed"`
	CheckedBy *uuid.UUID `json:"checked_by,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}
