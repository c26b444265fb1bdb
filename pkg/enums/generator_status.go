package enums

import "fmt"

// GeneratorStatus captures the lifecycle of a generator account.
type GeneratorStatus string

const (
	GeneratorStatusPending  GeneratorStatus = "pending"
	GeneratorStatusActive   GeneratorStatus = "active"
	GeneratorStatusDisabled GeneratorStatus = "disabled"
)

var validGeneratorStatuses = []GeneratorStatus{
	GeneratorStatusPending,
	GeneratorStatusActive,
	GeneratorStatusDisabled,
}

// String implements fmt.Stringer.
func (s GeneratorStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known GeneratorStatus.
func (s GeneratorStatus) IsValid() bool {
	for _, candidate := range validGeneratorStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanLogin reports whether an account in this status may authenticate.
func (s GeneratorStatus) CanLogin() bool {
	return s == GeneratorStatusPending || s == GeneratorStatusActive
}

// ParseGeneratorStatus converts raw input into a GeneratorStatus.
func ParseGeneratorStatus(value string) (GeneratorStatus, error) {
	for _, candidate := range validGeneratorStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid generator status %q", value)
}
