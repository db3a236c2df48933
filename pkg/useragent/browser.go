package useragent

import (
	"github.com/dlclark/regexp2"
)

type browserMatcher struct {
	re     *regexp2.Regexp
	expr   string
	family string
	v1     string
	v2     string
	v3     string
}

func compileBrowser(o *options, idx int, r UserAgentRecord) (matcher[UserAgent], error) {
	re, err := compileRegex(r.Regex, false, o.matchTimeout)
	if err != nil {
		return nil, &CompileError{Family: FamilyUserAgent, Index: idx, Pattern: r.Regex, Err: err}
	}
	return &browserMatcher{
		re:     re,
		expr:   r.Regex,
		family: r.FamilyReplacement,
		v1:     r.V1Replacement,
		v2:     r.V2Replacement,
		v3:     r.V3Replacement,
	}, nil
}

func (m *browserMatcher) pattern() string { return m.expr }

func (m *browserMatcher) tryParse(ua string) (UserAgent, bool, error) {
	c, ok, err := find(m.re, ua)
	if !ok {
		return UserAgent{}, false, err
	}

	family := resolve(m.family, c, 1)
	if family == "" {
		return UserAgent{}, false, nil
	}

	return UserAgent{
		Family: family,
		Major:  resolve(m.v1, c, 2),
		Minor:  resolve(m.v2, c, 3),
		Patch:  resolve(m.v3, c, 4),
	}, true, nil
}
