package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows a list query can request when no other cap applies.
	MaxLimit = 1000
)

// NormalizeLimit enforces DefaultLimit and MaxLimit.
func NormalizeLimit(limit int) int {
	return Clamp(limit, DefaultLimit, MaxLimit)
}

// Clamp returns def for non-positive limits and caps the result at max.
// A non-positive max disables the cap.
func Clamp(limit, def, max int) int {
	if def <= 0 {
		def = DefaultLimit
	}
	if max > 0 && def > max {
		def = max
	}
	if limit <= 0 {
		return def
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}
