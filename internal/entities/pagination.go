package entities

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// PageParams are the limit/offset parameters shared by list endpoints.
type PageParams struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Normalize clamps the parameters to sane bounds.
func (p PageParams) Normalize() PageParams {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
