package initialize

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitboot/internal/repository"
	pathutils "github.com/temirov/gitboot/internal/utils/path"
)

const (
	commandUseConstant                      = "init [directory]"
	commandShortDescriptionConstant         = "Initialize a new, empty repository"
	commandLongDescriptionConstant          = "init creates the repository metadata directory, its scaffold and default configuration inside the target directory. The target is created when missing and must otherwise be an empty directory."
	targetResolutionErrorTemplateConstant   = "unable to resolve target directory: %w"
	serviceCreationErrorTemplateConstant    = "unable to construct repository service: %w"
	initializationErrorTemplateConstant     = "repository initialization failed: %w"
	initializationStartedMessageConstant    = "initializing repository"
	logFieldTargetDirectoryConstant         = "target_directory"
	logFieldTargetFromConfigurationConstant = "from_configuration"
	maximumPositionalArgumentCountConstant  = 1
)

// RepositoryCreator scaffolds repositories on disk.
type RepositoryCreator interface {
	Create(worktreePath string) (*repository.Repository, error)
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ServiceProvider constructs a repository creator bound to the provided logger.
type ServiceProvider func(logger *zap.Logger) (RepositoryCreator, error)

// CommandBuilder assembles the init Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ServiceProvider       ServiceProvider
	ConfigurationProvider func() CommandConfiguration
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the init command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(maximumPositionalArgumentCountConstant),
		RunE:          builder.runInit,
	}
	return command, nil
}

func (builder *CommandBuilder) runInit(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()

	targetDirectory, fromConfiguration, targetError := builder.resolveTargetDirectory(arguments)
	if targetError != nil {
		return fmt.Errorf(targetResolutionErrorTemplateConstant, targetError)
	}

	creator, serviceError := builder.resolveService(logger)
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	logger.Debug(
		initializationStartedMessageConstant,
		zap.String(logFieldTargetDirectoryConstant, targetDirectory),
		zap.Bool(logFieldTargetFromConfigurationConstant, fromConfiguration),
	)

	if _, createError := creator.Create(targetDirectory); createError != nil {
		return fmt.Errorf(initializationErrorTemplateConstant, createError)
	}
	return nil
}

func (builder *CommandBuilder) resolveTargetDirectory(arguments []string) (string, bool, error) {
	targetDirectory := builder.resolveConfiguration().Directory
	fromConfiguration := true
	if len(arguments) > 0 {
		targetDirectory = arguments[0]
		fromConfiguration = false
	}

	homeExpander := builder.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander(nil)
	}
	expandedDirectory, expandError := homeExpander.Expand(targetDirectory)
	if expandError != nil {
		return "", fromConfiguration, expandError
	}
	return expandedDirectory, fromConfiguration, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveService(logger *zap.Logger) (RepositoryCreator, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(logger)
	}
	return repository.NewService(repository.ServiceDependencies{
		FileSystem: afero.NewOsFs(),
		Logger:     logger,
	})
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
