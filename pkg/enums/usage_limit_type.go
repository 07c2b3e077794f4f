package enums

import "fmt"

// UsageLimitType controls how a coupon's redemptions are bounded.
type UsageLimitType string

const (
	UsageLimitUnlimited UsageLimitType = "unlimited"
	UsageLimitTotal     UsageLimitType = "total"
)

var validUsageLimitTypes = []UsageLimitType{
	UsageLimitUnlimited,
	UsageLimitTotal,
}

// String implements fmt.Stringer.
func (u UsageLimitType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UsageLimitType.
func (u UsageLimitType) IsValid() bool {
	for _, candidate := range validUsageLimitTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUsageLimitType converts raw input into a UsageLimitType.
func ParseUsageLimitType(value string) (UsageLimitType, error) {
	for _, candidate := range validUsageLimitTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid usage limit type %q", value)
}
