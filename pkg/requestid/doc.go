// Package requestid correlates one user action across the booking client,
// the reservation backend and the logs of both.
//
// Middleware reuses a well formed X-Request-ID header or generates a UUID,
// stores it in the request context and echoes it in the response. On the
// client side Ensure gives a context an ID before an outgoing call and the
// reservation API client forwards it in the same header.
//
//	router.Use(requestid.Middleware)
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
