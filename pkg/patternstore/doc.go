// Package patternstore acquires regexes.yaml documents and keeps a compiled
// useragent.Parser current while the service runs.
//
// A Source yields the raw document. FileSource reads a local path, S3Source
// downloads an object with aws-sdk-go-v2 and BytesSource wraps an embedded
// copy. Load compiles a source once; Reloader publishes parsers through an
// atomic pointer and refreshes them on an interval:
//
//	src, err := patternstore.NewS3Source(ctx, cfg.S3)
//	if err != nil {
//	    return err
//	}
//	rl := patternstore.NewReloader(src,
//	    patternstore.WithInterval(5*time.Minute),
//	    patternstore.WithParserOptions(useragent.WithMatchTimeout(100*time.Millisecond)),
//	)
//	if err := rl.Start(ctx); err != nil {
//	    return err
//	}
//	client := rl.Parser().Parse(ua)
//
// A reload that cannot fetch or compile the document keeps the previous
// parser, so readers never see a partial pattern set. Unchanged documents,
// detected by SHA-256 digest or an S3 ETag match, are not recompiled.
package patternstore
