// Package async runs functions in goroutines and collects their results
// through generic futures.
//
// The pattern compiler uses it to build the device, OS and user agent
// matcher lists concurrently and to split a large family into contiguous
// ranges compiled in parallel:
//
//	futures := make([]*async.Future[[]int], len(ranges))
//	for i, r := range ranges {
//	    futures[i] = async.Async(ctx, r, compileRange)
//	}
//	parts, err := async.WaitAll(futures...)
//
// WaitAll waits for every future, even after a failure, so no goroutine
// outlives the call, and reports the error of the lowest failing position.
package async
