// Package environment carries the deployment stage (development, staging,
// production) through contexts, HTTP requests and log records.
//
//	env := environment.Parse(cfg.Env)
//	ctx = environment.WithContext(ctx, env)
//	log := logger.New(logger.WithContextExtractors(environment.LoggerExtractor()))
package environment
