// Package logger builds configured log/slog loggers for the NutriHealth
// client.
//
// Defaults are production-safe (JSON handler at INFO on stderr); the CLI
// switches to text/debug with WithDevelopment. All components take a
// *slog.Logger option and fall back to slog.Default(), so installing the
// factory output with SetAsDefault wires the whole process:
//
//	log := logger.New(logger.WithService("nutrikit"), logger.WithDevelopment())
//	logger.SetAsDefault(log)
package logger
