// Package handlers contains HTTP health checks and reusable middleware.
//
// # Health Checks
//
// Named checks run in parallel, each with its own timeout. A failing
// optional check degrades the service but keeps it ready:
//
//	checker := handlers.NewCompositeHealthChecker("0.1.0")
//	checker.AddCheck("dataset", handlers.NewDatasetCheck(data))
//	checker.AddOptionalCheck("cache", handlers.NewCacheCheck(cache))
//
//	status := checker.Check(ctx)
//	if !status.Ready {
//		// the dataset is missing
//	}
//
// # Middleware
//
// Middleware have the signature func(http.Handler) http.Handler and compose
// with Chain:
//
//	h := handlers.ChainHandler(mux,
//		handlers.SecurityHeadersMiddleware,
//		handlers.CacheControlMiddleware(5*time.Minute, false),
//	)
package handlers
