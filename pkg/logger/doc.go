// Package logger builds slog loggers for the booking client and its sandbox.
//
// New takes functional options for format, level, static attributes and
// context extractors; WithEnvironment applies per-stage defaults and
// FromConfig maps the env driven Config onto options:
//
//	opts, err := logger.FromConfig(cfg.Log)
//	if err != nil {
//	    return err
//	}
//	log := logger.New(append(opts, logger.WithContextExtractors(environment.LoggerExtractor()))...)
//	log.InfoContext(ctx, "reservation created", logger.ReservationID(id), logger.Step("payment"))
//
// Attribute helpers keep keys consistent across packages. Error and Errors
// return an empty attribute for nil errors, so they can be passed without a
// nil check.
package logger
