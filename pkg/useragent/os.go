package useragent

import (
	"github.com/dlclark/regexp2"
)

type osMatcher struct {
	re     *regexp2.Regexp
	expr   string
	family string
	v1     string
	v2     string
	v3     string
	v4     string
}

func compileOS(o *options, idx int, r OSRecord) (matcher[OS], error) {
	re, err := compileRegex(r.Regex, false, o.matchTimeout)
	if err != nil {
		return nil, &CompileError{Family: FamilyOS, Index: idx, Pattern: r.Regex, Err: err}
	}
	return &osMatcher{
		re:     re,
		expr:   r.Regex,
		family: r.OSReplacement,
		v1:     r.OSV1Replacement,
		v2:     r.OSV2Replacement,
		v3:     r.OSV3Replacement,
		v4:     r.OSV4Replacement,
	}, nil
}

func (m *osMatcher) pattern() string { return m.expr }

func (m *osMatcher) tryParse(ua string) (OS, bool, error) {
	c, ok, err := find(m.re, ua)
	if !ok {
		return OS{}, false, err
	}

	family := resolve(m.family, c, 1)
	if family == "" {
		return OS{}, false, nil
	}

	return OS{
		Family:     family,
		Major:      resolve(m.v1, c, 2),
		Minor:      resolve(m.v2, c, 3),
		Patch:      resolve(m.v3, c, 4),
		PatchMinor: resolve(m.v4, c, 5),
	}, true, nil
}
