package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any paginated query can request.
	MaxLimit = 100
)

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes a page of results for response envelopes.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Normalize enforces the configured defaults and maximum limit.
func Normalize(params Params) Params {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	return params
}

// Offset returns the row offset for the normalized params.
func Offset(params Params) int {
	normalized := Normalize(params)
	return (normalized.Page - 1) * normalized.Limit
}

// NewMeta builds page metadata from the normalized params and total row count.
func NewMeta(params Params, total int64) Meta {
	normalized := Normalize(params)
	totalPages := int(total / int64(normalized.Limit))
	if total%int64(normalized.Limit) != 0 {
		totalPages++
	}
	return Meta{
		Page:       normalized.Page,
		Limit:      normalized.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
