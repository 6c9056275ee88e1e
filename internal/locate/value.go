package locate

import (
	"fmt"

	"github.com/spf13/cobra"

	pathutils "github.com/temirov/gitboot/internal/utils/path"
)

const (
	configCommandUseConstant              = "config <section.key>"
	configCommandShortDescriptionConstant = "Print a setting from the enclosing repository configuration"
	configCommandLongDescriptionConstant  = "config locates the repository enclosing --path (default: the current directory), validates it and prints the value stored under the requested key, e.g. core.bare or remote.origin.url."
	pathFlagNameConstant                  = "path"
	pathFlagUsageConstant                 = "Directory to start the repository search from"
	missingValueErrorTemplateConstant     = "configuration key %s is not set in %s"
	configurationKeyArgumentCountConstant = 1
)

// ConfigCommandBuilder assembles the config Cobra command.
type ConfigCommandBuilder struct {
	LoggerProvider  LoggerProvider
	ServiceProvider ServiceProvider
	HomeExpander    *pathutils.HomeExpander
}

// Build constructs the config command.
func (builder *ConfigCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           configCommandUseConstant,
		Short:         configCommandShortDescriptionConstant,
		Long:          configCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ExactArgs(configurationKeyArgumentCountConstant),
		RunE:          builder.runConfig,
	}
	command.Flags().String(pathFlagNameConstant, defaultStartPathConstant, pathFlagUsageConstant)
	return command, nil
}

func (builder *ConfigCommandBuilder) runConfig(command *cobra.Command, arguments []string) error {
	configurationKey, keyError := ParseConfigurationKey(arguments[0])
	if keyError != nil {
		return keyError
	}

	startPath, flagError := command.Flags().GetString(pathFlagNameConstant)
	if flagError != nil {
		return flagError
	}

	commandDependencies := dependencies{
		loggerProvider:  builder.LoggerProvider,
		serviceProvider: builder.ServiceProvider,
		homeExpander:    builder.HomeExpander,
	}
	locatedRepository, locateError := commandDependencies.locateRepository(startPath)
	if locateError != nil {
		return locateError
	}

	value, found := locatedRepository.ConfigurationValue(configurationKey.Section, configurationKey.Name)
	if !found {
		return fmt.Errorf(missingValueErrorTemplateConstant, arguments[0], locatedRepository.WorktreeRoot())
	}

	_, printError := fmt.Fprintln(command.OutOrStdout(), value)
	return printError
}
