// Package useragent classifies HTTP User-Agent strings into device, operating
// system and browser information using an ordered list of pattern definitions
// in the uap-core regexes.yaml format.
//
// It identifies:
//   - Device – family, brand and model (e.g. "iPhone", "Apple", "iPhone")
//   - Operating system – family and up to four version components
//   - User agent – browser or client family and up to three version components
//
// Classification is entirely data driven: no vendor knowledge lives in the
// code. Each family owns an ordered list of matchers and the first matcher
// that produces a result wins, so more specific patterns must come first in
// the pattern file.
//
// # Architecture
//
// New compiles the raw records of each family into matchers (a regexp2
// program plus its output templates). The three families compile
// concurrently, and the records of a family are split into contiguous index
// ranges compiled in parallel and concatenated in order so that precedence is
// preserved.
//
//	┌──────────────┐  UA string  ┌───────────────────┐
//	│    Parse     │────────────▶│ device matchers   │──┐
//	└──────────────┘             └───────────────────┘  │
//	       │                     ┌───────────────────┐  │
//	       ├────────────────────▶│ os matchers       │──┼──► Client
//	       │                     └───────────────────┘  │
//	       │                     ┌───────────────────┐  │
//	       └────────────────────▶│ browser matchers  │──┘
//	                             └───────────────────┘
//
// A matcher fills every output field either from its template, where $1..$9
// are replaced by capture groups (missing or non-participating groups become
// empty), or from a default capture group. Results are trimmed and empty
// values are reported as absent (""). Device records may carry override rules
// that refine the brand, model or family after the primary match.
//
// # Usage
//
//	parser, err := useragent.NewFromFile("regexes.yaml",
//	    useragent.WithMatchTimeout(50*time.Millisecond),
//	)
//	if err != nil {
//	    // errors.Is(err, useragent.ErrOSPattern) etc. identify the family
//	}
//
//	client := parser.Parse(r.UserAgent())
//	log.Printf("client=%s", client)
//
// Callers that only need one facet should use ParseDevice, ParseOS or
// ParseUserAgent, which skip the other two families.
//
// # Error Handling
//
// Only construction fails. ErrReadPatterns and ErrDecodePatterns report
// loading problems; a *CompileError wraps ErrDevicePattern, ErrOSPattern or
// ErrUserAgentPattern together with the regex engine error. Matching never
// fails: a regex engine error (for example a match timeout) is treated as a
// miss and may be observed with WithMatchErrorHook. When no pattern matches,
// the family's default value is returned with Family set to FamilyOther.
package useragent
