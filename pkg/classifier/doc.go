// Package classifier is the cached classification service behind the HTTP
// API and the CLI.
//
// A Service asks its ParserFunc for the active parser on every call, which
// lets a patternstore.Reloader swap pattern sets underneath it. Results are
// looked up in three layers:
//
//  1. an in-process LRU keyed by the raw User-Agent string;
//  2. an optional shared Store (pkg/redis) keyed by "client:", the parser
//     fingerprint and the SHA-256 of the string, holding JSON-encoded results;
//  3. the pattern engine itself.
//
// When the parser changes the LRU is purged, and results computed with the
// previous parser are not cached. Shared store entries of an old pattern set
// are never read again and expire by TTL.
//
// Single-facet calls (Device, OS, UserAgent) evaluate only their family and
// skip both caches.
package classifier
