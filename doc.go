// Package sharedlog provides a process-wide structured logger built on rs/zerolog
// with hour-keyed file rotation via lumberjack.
//
// Key features
//   - Four ordered levels (error, warn, info, debug) with coloured console output
//   - Three sinks per logger: console, a combined log file and an error-only log file
//   - Files are keyed by hour (YYYY-MM-DD-HH), capped by size, gzip'd once rolled and
//     removed after the retention window
//   - Writes are asynchronous by default; Close flushes everything still queued
//   - Runtime reconfiguration: SetLogLevel, UpdateLogDirectories and WatchConfig
//   - Request correlation carried in context.Context rather than shared state
//   - Panic capture that persists a final record before the process dies
//
// Typical usage
//
//	log, err := sharedlog.New(sharedlog.Config{RootDir: wd})
//	if err != nil { panic(err) }
//	defer log.Close()
//	defer log.CapturePanic()
//
//	log.Info("processed", sharedlog.Fields{"user_id": id})
//	log.Error("query failed", sharedlog.Fields{"error": err})
//
//	mux.Handle("/", log.CorrelationMiddleware()(handler))
//	// inside the handler
//	log.Ctx(r.Context()).Warn("slow request")
package sharedlog
