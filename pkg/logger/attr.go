package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups non-nil errors under "errors". All nil yields an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Family records a classification family name ("device", "os", "user_agent").
func Family(name string) slog.Attr {
	return slog.String("family", name)
}

// Pattern records the regular expression a message refers to.
func Pattern(expr string) slog.Attr {
	return slog.String("pattern", expr)
}

// Source records where pattern definitions were loaded from.
func Source(name string) slog.Attr {
	return slog.String("source", name)
}

func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// UserAgent records a raw User-Agent string.
func UserAgent(ua string) slog.Attr {
	return slog.String("user_agent", ua)
}
