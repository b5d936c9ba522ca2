// Package async runs functions in goroutines and exposes their results as
// generic futures.
//
// Async starts a function and returns a *Future; Await, AwaitWithTimeout and
// IsComplete read it. WaitAll stops at the first error, WaitAny returns the
// first future to finish, and WaitAllSettled collects every outcome without
// letting one failure hide the others:
//
//	futures := []*async.Future[any]{
//	    async.Async(ctx, userID, fetchReservations),
//	    async.Async(ctx, userID, fetchNotifications),
//	}
//	for _, s := range async.WaitAllSettled(futures...) {
//	    if !s.Fulfilled() {
//	        log.Warn("refresh failed", "index", s.Index, "error", s.Err)
//	    }
//	}
//
// Panics inside the function are recovered and reported as errors wrapping
// ErrPanic.
package async
