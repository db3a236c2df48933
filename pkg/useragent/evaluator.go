package useragent

// matcher is one compiled pattern of a family.
type matcher[T any] interface {
	// tryParse returns the extracted fields and true on a match. A non-nil
	// error reports an engine failure; it never comes with a result.
	tryParse(ua string) (T, bool, error)
	pattern() string
}

// evaluator scans the matchers of one family in configured order and
// returns the first extraction.
type evaluator[T any] struct {
	family   Family
	matchers []matcher[T]
	fallback T
	onError  MatchErrorHook
}

func (e *evaluator[T]) evaluate(ua string) T {
	for _, m := range e.matchers {
		v, ok, err := m.tryParse(ua)
		if err != nil {
			if e.onError != nil {
				e.onError(e.family, m.pattern(), err)
			}
			continue
		}
		if ok {
			return v
		}
	}
	return e.fallback
}
