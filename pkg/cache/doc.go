// Package cache provides the in-process LRU cache the classifier keeps in
// front of the pattern engine. Real traffic repeats a small set of
// User-Agent strings, so a bounded cache keyed by the raw header value
// absorbs most requests without running any regular expressions.
//
//	c := cache.NewLRU[string, useragent.Client](10_000)
//	if v, ok := c.Get(ua); ok {
//	    return v
//	}
//	c.Add(ua, parser.Parse(ua))
//
// Stats exposes hit, miss and eviction counters; OnEvict lets callers feed
// evictions into metrics.
package cache
