package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitboot/internal/initialize"
	"github.com/temirov/gitboot/internal/locate"
	"github.com/temirov/gitboot/internal/repository"
	"github.com/temirov/gitboot/internal/utils"
	flagutils "github.com/temirov/gitboot/internal/utils/flags"
	pathutils "github.com/temirov/gitboot/internal/utils/path"
)

const (
	applicationNameConstant                 = "gitboot"
	applicationShortDescriptionConstant     = "Bootstrap and discover git-style repositories"
	applicationLongDescriptionConstant      = "gitboot creates empty repository metadata directories and locates the repository enclosing a path."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	metadataDirectoryFlagNameConstant       = "metadata-dir"
	metadataDirectoryFlagUsageConstant      = "Override the repository metadata directory name."
	environmentPrefixConstant               = "GITBOOT"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	userConfigurationDirectoryConstant      = "~/.gitboot"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationMetadataDirectoryConstant  = "metadata_directory"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build command: %w"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common     ApplicationCommonConfiguration     `mapstructure:"common"`
	Repository ApplicationRepositoryConfiguration `mapstructure:"repository"`
	Tools      ApplicationToolsConfiguration      `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationRepositoryConfiguration stores settings of the repository service.
type ApplicationRepositoryConfiguration struct {
	MetadataDirectory string `mapstructure:"metadata_directory"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands.
type ApplicationToolsConfiguration struct {
	Init initialize.CommandConfiguration `mapstructure:"init"`
}

type commandBuilder interface {
	Build() (*cobra.Command, error)
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand                *cobra.Command
	configurationLoader        *utils.ConfigurationLoader
	homeExpander               *pathutils.HomeExpander
	fileSystem                 afero.Fs
	logger                     *zap.Logger
	configuration              ApplicationConfiguration
	configurationMetadata      utils.LoadedConfiguration
	configurationFilePath      string
	logLevelFlagValue          string
	logFormatFlagValue         string
	metadataDirectoryFlagValue string
	buildErrors                []error
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	homeExpander := pathutils.NewHomeExpander(nil)

	searchPaths := []string{userConfigurationDirectoryConstant}
	if userConfigurationDirectory, lookupError := os.UserConfigDir(); lookupError == nil {
		searchPaths = append([]string{filepath.Join(userConfigurationDirectory, applicationNameConstant)}, searchPaths...)
	}

	application := &Application{
		configurationLoader: utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
			Name:                  configurationNameConstant,
			Type:                  embeddedConfigurationType,
			EnvironmentPrefix:     environmentPrefixConstant,
			SearchPaths:           searchPaths,
			EmbeddedConfiguration: embeddedConfiguration,
		}, homeExpander),
		homeExpander:       homeExpander,
		fileSystem:         afero.NewOsFs(),
		logger:             zap.NewNop(),
		logLevelFlagValue:  string(utils.LogLevelError),
		logFormatFlagValue: string(utils.LogFormatStructured),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.Var(
		flagutils.NewChoiceValue(&application.logLevelFlagValue, utils.LogLevelChoices()),
		logLevelFlagNameConstant,
		flagutils.FormatChoiceUsage(string(utils.LogLevelError), utils.LogLevelChoices(), logLevelFlagUsageConstant),
	)
	persistentFlags.Var(
		flagutils.NewChoiceValue(&application.logFormatFlagValue, utils.LogFormatChoices()),
		logFormatFlagNameConstant,
		flagutils.FormatChoiceUsage(string(utils.LogFormatStructured), utils.LogFormatChoices(), logFormatFlagUsageConstant),
	)
	persistentFlags.StringVar(&application.metadataDirectoryFlagValue, metadataDirectoryFlagNameConstant, "", metadataDirectoryFlagUsageConstant)

	commandBuilders := []commandBuilder{
		&initialize.CommandBuilder{
			LoggerProvider: application.currentLogger,
			ServiceProvider: func(logger *zap.Logger) (initialize.RepositoryCreator, error) {
				return application.newRepositoryService(logger)
			},
			ConfigurationProvider: func() initialize.CommandConfiguration {
				return application.configuration.Tools.Init
			},
			HomeExpander: homeExpander,
		},
		&locate.RootCommandBuilder{
			LoggerProvider: application.currentLogger,
			ServiceProvider: func(logger *zap.Logger) (locate.RepositoryLocator, error) {
				return application.newRepositoryService(logger)
			},
			HomeExpander: homeExpander,
		},
		&locate.ConfigCommandBuilder{
			LoggerProvider: application.currentLogger,
			ServiceProvider: func(logger *zap.Logger) (locate.RepositoryLocator, error) {
				return application.newRepositoryService(logger)
			},
			HomeExpander: homeExpander,
		},
	}
	for _, builder := range commandBuilders {
		subcommand, buildError := builder.Build()
		if buildError != nil {
			application.buildErrors = append(application.buildErrors, fmt.Errorf(commandBuildErrorTemplateConstant, buildError))
			continue
		}
		cobraCommand.AddCommand(subcommand)
	}

	application.rootCommand = cobraCommand
	return application
}

// Run executes the command hierarchy with explicit arguments and output streams, then flushes the logger.
func (application *Application) Run(arguments []string, outputWriter io.Writer, errorWriter io.Writer) error {
	if len(application.buildErrors) > 0 {
		return errors.Join(application.buildErrors...)
	}

	application.rootCommand.SetArgs(arguments)
	application.rootCommand.SetOut(outputWriter)
	application.rootCommand.SetErr(errorWriter)

	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute runs the application against the process arguments and standard streams.
func (application *Application) Execute() error {
	return application.Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if flagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if flagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if flagChanged(command, metadataDirectoryFlagNameConstant) {
		application.configuration.Repository.MetadataDirectory = application.metadataDirectoryFlagValue
	}

	logger, loggerCreationError := utils.NewLoggerFactory(command.ErrOrStderr()).CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger.Named(applicationNameConstant)

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationMetadataDirectoryConstant, application.configuration.Repository.MetadataDirectory),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)
	return nil
}

func (application *Application) currentLogger() *zap.Logger {
	return application.logger
}

func (application *Application) newRepositoryService(logger *zap.Logger) (*repository.Service, error) {
	return repository.NewService(repository.ServiceDependencies{
		FileSystem:            application.fileSystem,
		Logger:                logger,
		MetadataDirectoryName: application.configuration.Repository.MetadataDirectory,
	})
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP), errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func flagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	return command.Flags().Changed(flagName)
}
