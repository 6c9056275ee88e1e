// Package utils exposes reusable helpers consumed by the CLI entrypoint.
//
// ConfigurationLoader layers embedded YAML defaults, an optional configuration
// file and environment overrides through Viper. LoggerFactory builds zap
// loggers for the structured and console formats.
package utils
