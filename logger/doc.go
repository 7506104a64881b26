// Package logger provides structured logging for the orchestration core,
// built on zerolog.
//
// Components accept an optional *Logger and fall back to NewDefault:
//
//	log := logger.NewDefault("flowkit").WithComponent("scheduler")
//	log.Info("level complete", logger.Fields("level", 2, "tasks", 5))
package logger
