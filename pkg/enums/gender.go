package enums

// Gender is the self-declared gender of a generator. The empty value means unspecified.
type Gender string

const (
	GenderMale        Gender = "M"
	GenderFemale      Gender = "F"
	GenderOther       Gender = "O"
	GenderUnspecified Gender = ""
)

// String implements fmt.Stringer.
func (g Gender) String() string {
	return string(g)
}

// IsValid reports whether the value is one of the declared genders.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnspecified:
		return true
	}
	return false
}

// NormalizeGender maps anything outside {M, F, O} to unspecified.
func NormalizeGender(value string) Gender {
	switch g := Gender(value); g {
	case GenderMale, GenderFemale, GenderOther:
		return g
	}
	return GenderUnspecified
}
