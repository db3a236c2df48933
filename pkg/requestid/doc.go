// Package requestid tags every API request with a correlation ID.
//
// Middleware keeps a client-supplied X-Request-ID when it is 1 to 128
// characters of letters, digits, '-' or '_' and otherwise generates a UUIDv7.
// The ID is returned in the response header and stored in the request
// context, where FromContext reads it and LoggerExtractor adds it to slog
// records logged through pkg/logger.
package requestid
