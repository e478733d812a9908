// Package logger provides structured logging for the client using zerolog.
//
// Loggers are plain values handed to the client through its Config; there is
// no package-level logger. A nil logger in a Config is replaced by Nop().
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "queue")
//	log.WithComponent("executor").Debug("attempt", logger.Fields("attempt", 1))
package logger
