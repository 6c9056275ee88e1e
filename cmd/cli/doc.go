// Package cli constructs the gitboot command-line interface. It wires the
// Cobra command table, the layered Viper configuration and the zap logger,
// and hands every command a repository service bound to the configured
// metadata directory name.
package cli
