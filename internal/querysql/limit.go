package querysql

// Default limit policy values.
const (
	DefaultLimit      = 20
	DefaultMaxLimit   = 500
	DefaultBlockLimit = 10
)

// LimitPolicy decides how many rows a search may return.
type LimitPolicy struct {
	Default      int // actor searches when no limit is given
	Max          int // hard ceiling for every search
	BlockDefault int // location searches when no limit is given
}

// DefaultLimitPolicy returns the stock policy: 20 per actor search,
// 10 per block lookup, never more than 500.
func DefaultLimitPolicy() LimitPolicy {
	return LimitPolicy{
		Default:      DefaultLimit,
		Max:          DefaultMaxLimit,
		BlockDefault: DefaultBlockLimit,
	}
}

// Actor clamps a requested actor search limit.
func (p LimitPolicy) Actor(requested int) int {
	return p.clamp(requested, p.Default)
}

// Block clamps a requested location search limit.
func (p LimitPolicy) Block(requested int) int {
	return p.clamp(requested, p.BlockDefault)
}

func (p LimitPolicy) clamp(requested, fallback int) int {
	if requested <= 0 {
		requested = fallback
	}
	if requested <= 0 {
		requested = DefaultLimit
	}
	if p.Max > 0 && requested > p.Max {
		requested = p.Max
	}
	return requested
}
