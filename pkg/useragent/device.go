package useragent

import (
	"strings"

	"github.com/dlclark/regexp2"
)

type deviceMatcher struct {
	re        *regexp2.Regexp
	expr      string
	family    string
	brand     string
	model     string
	overrides []override
	onError   MatchErrorHook
}

// override is a compiled OverrideRule.
type override struct {
	expr        string
	field       string
	source      string
	re          *regexp2.Regexp
	replacement string
}

func compileDevice(o *options, idx int, r DeviceRecord) (matcher[Device], error) {
	ignoreCase := strings.Contains(r.RegexFlag, "i")
	re, err := compileRegex(r.Regex, ignoreCase, o.matchTimeout)
	if err != nil {
		return nil, &CompileError{Family: FamilyDevice, Index: idx, Pattern: r.Regex, Err: err}
	}

	m := &deviceMatcher{
		re:      re,
		expr:    r.Regex,
		family:  r.DeviceReplacement,
		brand:   r.BrandReplacement,
		model:   r.ModelReplacement,
		onError: o.onMatchError,
	}

	if len(r.Overrides) > 0 {
		m.overrides = make([]override, 0, len(r.Overrides))
	}
	for _, rule := range r.Overrides {
		ov, err := compileOverride(o, rule, ignoreCase)
		if err != nil {
			return nil, &CompileError{Family: FamilyDevice, Index: idx, Pattern: rule.Regex, Err: err}
		}
		m.overrides = append(m.overrides, ov)
	}

	return m, nil
}

func compileOverride(o *options, rule OverrideRule, ignoreCase bool) (override, error) {
	switch rule.Field {
	case OverrideFamily, OverrideBrand, OverrideModel:
	default:
		return override{}, ErrUnknownOverride
	}

	source := rule.Source
	switch source {
	case "":
		source = SourceValue
	case SourceValue, SourceInput:
	default:
		return override{}, ErrUnknownOverrideIn
	}

	re, err := compileRegex(rule.Regex, ignoreCase, o.matchTimeout)
	if err != nil {
		return override{}, err
	}

	return override{
		expr:        rule.Regex,
		field:       rule.Field,
		source:      source,
		re:          re,
		replacement: rule.Replacement,
	}, nil
}

func (m *deviceMatcher) pattern() string { return m.expr }

func (m *deviceMatcher) tryParse(ua string) (Device, bool, error) {
	c, ok, err := find(m.re, ua)
	if !ok {
		return Device{}, false, err
	}

	d := Device{
		Family: resolve(m.family, c, 1),
		Brand:  resolve(m.brand, c, 0),
		Model:  resolve(m.model, c, 1),
	}
	if d.Family == "" {
		return Device{}, false, nil
	}

	for i := range m.overrides {
		m.overrides[i].apply(&d, ua, m.onError)
	}
	return d, true, nil
}

// apply refines d in place. An override that does not match, or whose
// evaluation fails, leaves d untouched; failures go to onError. The family is
// never cleared.
func (o *override) apply(d *Device, ua string, onError MatchErrorHook) {
	var target *string
	switch o.field {
	case OverrideFamily:
		target = &d.Family
	case OverrideBrand:
		target = &d.Brand
	default:
		target = &d.Model
	}

	subject := ua
	if o.source == SourceValue {
		subject = *target
	}

	c, ok, err := find(o.re, subject)
	if err != nil && onError != nil {
		onError(FamilyDevice, o.expr, err)
	}
	if !ok {
		return
	}

	v := replace(o.replacement, c)
	if v == "" && o.field == OverrideFamily {
		return
	}
	*target = v
}
