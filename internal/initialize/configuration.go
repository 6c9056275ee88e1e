package initialize

import "strings"

const defaultTargetDirectoryConstant = "."

// CommandConfiguration captures persisted configuration for the init command.
type CommandConfiguration struct {
	Directory string `mapstructure:"directory"`
}

// DefaultCommandConfiguration returns baseline configuration values for the init command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Directory: defaultTargetDirectoryConstant}
}

// Sanitize trims configured values and restores the default directory when blank.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	if len(sanitized.Directory) == 0 {
		sanitized.Directory = defaultTargetDirectoryConstant
	}
	return sanitized
}
