package useragent

// Family identifies one of the three independent classification domains.
type Family uint8

const (
	FamilyDevice Family = iota
	FamilyOS
	FamilyUserAgent
)

// FamilyOther is the family name reported when no pattern of a family matched.
const FamilyOther = "Other"

// Families lists every family in evaluation order of Parse.
var Families = []Family{FamilyDevice, FamilyOS, FamilyUserAgent}

func (f Family) String() string {
	switch f {
	case FamilyDevice:
		return "device"
	case FamilyOS:
		return "os"
	case FamilyUserAgent:
		return "user_agent"
	default:
		return "unknown"
	}
}

// ParseFamily resolves a family from its String form.
func ParseFamily(s string) (Family, bool) {
	for _, f := range Families {
		if f.String() == s {
			return f, true
		}
	}
	return 0, false
}
