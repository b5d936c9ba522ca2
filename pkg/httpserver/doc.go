// Package httpserver runs the sandbox HTTP backend with graceful shutdown
// and exposes a health probe handler.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	err := srv.Run(ctx, router)
package httpserver
