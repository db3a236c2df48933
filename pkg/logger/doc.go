// Package logger builds the slog.Logger used across the uaparser service.
//
// New creates a JSON or text handler, attaches static attributes and wraps
// the handler so that ContextExtractor callbacks run on every record. The
// requestid and clientip packages provide such extractors, so a handler that
// logs with InfoContext gets request_id and client_ip attributes for free.
//
// The attribute helpers in attr.go keep key names consistent between
// components: Family, Pattern and Source for the classification engine,
// RequestID and UserAgent for the HTTP API, and Error/Errors, which return an
// empty Attr for nil errors so callers can log unconditionally:
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "uaparser"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "patterns reloaded", logger.Source(src.Name()), logger.Error(err))
package logger
