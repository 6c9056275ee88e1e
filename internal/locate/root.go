package locate

import (
	"fmt"

	"github.com/spf13/cobra"

	pathutils "github.com/temirov/gitboot/internal/utils/path"
)

const (
	rootCommandUseConstant              = "root [path]"
	rootCommandShortDescriptionConstant = "Print the worktree root of the enclosing repository"
	rootCommandLongDescriptionConstant  = "root walks upward from the given path (default: the current directory) to the nearest directory holding a valid repository metadata directory and prints its absolute path."
)

// RootCommandBuilder assembles the root Cobra command.
type RootCommandBuilder struct {
	LoggerProvider  LoggerProvider
	ServiceProvider ServiceProvider
	HomeExpander    *pathutils.HomeExpander
}

// Build constructs the root command.
func (builder *RootCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           rootCommandUseConstant,
		Short:         rootCommandShortDescriptionConstant,
		Long:          rootCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(maximumPathArgumentCountConstant),
		RunE:          builder.runRoot,
	}
	return command, nil
}

func (builder *RootCommandBuilder) runRoot(command *cobra.Command, arguments []string) error {
	startPath := defaultStartPathConstant
	if len(arguments) > 0 {
		startPath = arguments[0]
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

	_, printError := fmt.Fprintln(command.OutOrStdout(), locatedRepository.WorktreeRoot())
	return printError
}
