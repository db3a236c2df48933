package useragent

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// compileRegex builds a regexp2 program. A zero timeout leaves the engine
// default (no limit) in place.
func compileRegex(expr string, ignoreCase bool, timeout time.Duration) (*regexp2.Regexp, error) {
	opts := regexp2.None
	if ignoreCase {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return re, nil
}

// captures gives total access to the groups of a match: any group that does
// not exist or did not participate reads as "".
type captures struct {
	m *regexp2.Match
}

func (c captures) group(n int) string {
	if c.m == nil {
		return ""
	}
	g := c.m.GroupByNumber(n)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

// find evaluates re against the whole input. A nil error with ok == false is
// a plain miss; an engine failure (timeout, panic) is returned as an error and
// callers treat it exactly like a miss.
func find(re *regexp2.Regexp, s string) (c captures, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, ok, err = captures{}, false, fmt.Errorf("regex engine panic: %v", r)
		}
	}()

	m, err := re.FindStringMatch(s)
	if err != nil {
		return captures{}, false, err
	}
	if m == nil {
		return captures{}, false, nil
	}
	return captures{m: m}, true, nil
}

// replace substitutes $1..$9 in template with the matching capture groups and
// trims the result. A template without placeholders is a literal constant.
func replace(template string, c captures) string {
	if !strings.Contains(template, "$") {
		return strings.TrimSpace(template)
	}

	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); i++ {
		ch := template[i]
		if ch == '$' && i+1 < len(template) && template[i+1] >= '1' && template[i+1] <= '9' {
			b.WriteString(c.group(int(template[i+1] - '0')))
			i++
			continue
		}
		b.WriteByte(ch)
	}
	return strings.TrimSpace(b.String())
}

// resolve computes one output field: the template when configured, otherwise
// the default capture group. Group 0 means the field has no default.
func resolve(template string, c captures, group int) string {
	if template != "" {
		return replace(template, c)
	}
	if group == 0 {
		return ""
	}
	return strings.TrimSpace(c.group(group))
}
