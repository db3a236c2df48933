package useragent

// Patterns is the full, ordered set of raw pattern records for all families.
// The field tags follow the layout of the uap-core regexes.yaml file.
type Patterns struct {
	UserAgent []UserAgentRecord `yaml:"user_agent_parsers" json:"user_agent_parsers"`
	OS        []OSRecord        `yaml:"os_parsers" json:"os_parsers"`
	Device    []DeviceRecord    `yaml:"device_parsers" json:"device_parsers"`
}

// UserAgentRecord describes one browser / client software pattern.
type UserAgentRecord struct {
	Regex             string `yaml:"regex" json:"regex"`
	FamilyReplacement string `yaml:"family_replacement,omitempty" json:"family_replacement,omitempty"`
	V1Replacement     string `yaml:"v1_replacement,omitempty" json:"v1_replacement,omitempty"`
	V2Replacement     string `yaml:"v2_replacement,omitempty" json:"v2_replacement,omitempty"`
	V3Replacement     string `yaml:"v3_replacement,omitempty" json:"v3_replacement,omitempty"`
}

// OSRecord describes one operating system pattern.
type OSRecord struct {
	Regex           string `yaml:"regex" json:"regex"`
	OSReplacement   string `yaml:"os_replacement,omitempty" json:"os_replacement,omitempty"`
	OSV1Replacement string `yaml:"os_v1_replacement,omitempty" json:"os_v1_replacement,omitempty"`
	OSV2Replacement string `yaml:"os_v2_replacement,omitempty" json:"os_v2_replacement,omitempty"`
	OSV3Replacement string `yaml:"os_v3_replacement,omitempty" json:"os_v3_replacement,omitempty"`
	OSV4Replacement string `yaml:"os_v4_replacement,omitempty" json:"os_v4_replacement,omitempty"`
}

// DeviceRecord describes one device pattern. RegexFlag "i" makes the
// pattern case-insensitive.
type DeviceRecord struct {
	Regex             string         `yaml:"regex" json:"regex"`
	RegexFlag         string         `yaml:"regex_flag,omitempty" json:"regex_flag,omitempty"`
	DeviceReplacement string         `yaml:"device_replacement,omitempty" json:"device_replacement,omitempty"`
	BrandReplacement  string         `yaml:"brand_replacement,omitempty" json:"brand_replacement,omitempty"`
	ModelReplacement  string         `yaml:"model_replacement,omitempty" json:"model_replacement,omitempty"`
	Overrides         []OverrideRule `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Override fields.
const (
	OverrideFamily = "family"
	OverrideBrand  = "brand"
	OverrideModel  = "model"
)

// Override sources.
const (
	// SourceValue evaluates the override against the field's extracted text.
	SourceValue = "value"
	// SourceInput evaluates the override against the original user agent.
	SourceInput = "input"
)

// OverrideRule refines one device field after the primary match. When Regex
// matches its source, Field is replaced by Replacement with the override's
// own capture groups substituted.
type OverrideRule struct {
	Field       string `yaml:"field" json:"field"`
	Source      string `yaml:"source,omitempty" json:"source,omitempty"`
	Regex       string `yaml:"regex" json:"regex"`
	Replacement string `yaml:"replacement" json:"replacement"`
}
