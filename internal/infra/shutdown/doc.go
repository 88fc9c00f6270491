// Package shutdown coordinates graceful process termination.
//
// A Handler collects named hooks, waits for SIGINT or SIGTERM (or for its
// context to end), then runs the hooks in reverse registration order
// under a shared deadline:
//
//	h := shutdown.NewHandler(30*time.Second, logger)
//	h.OnShutdown("store", func(context.Context) error { return store.Close() })
//	h.OnShutdown("http", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
