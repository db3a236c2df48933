// Package httpserver runs the uaparser HTTP API with context-driven graceful
// shutdown and provides liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Config is loaded with pkg/config from HTTP_ADDR, HTTP_READ_TIMEOUT,
// HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT and HTTP_SHUTDOWN_TIMEOUT.
//
// ReadinessHandler reports every Check by name, so a failing Redis ping and a
// missing pattern set can be told apart in the response.
package httpserver
