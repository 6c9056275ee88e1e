package locate

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/gitboot/internal/repository"
	pathutils "github.com/temirov/gitboot/internal/utils/path"
)

const (
	defaultStartPathConstant             = "."
	startPathResolutionTemplateConstant  = "unable to resolve start path: %w"
	serviceCreationErrorTemplateConstant = "unable to construct repository service: %w"
	locateErrorTemplateConstant          = "repository lookup failed: %w"
	repositoryLocatedMessageConstant     = "repository located"
	logFieldStartPathConstant            = "start_path"
	logFieldWorktreeConstant             = "worktree"
	maximumPathArgumentCountConstant     = 1
)

// RepositoryLocator finds the repository enclosing a path.
type RepositoryLocator interface {
	Find(startPath string, required bool) (*repository.Repository, bool, error)
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ServiceProvider constructs a repository locator bound to the provided logger.
type ServiceProvider func(logger *zap.Logger) (RepositoryLocator, error)

// dependencies bundles what every locate command needs.
type dependencies struct {
	loggerProvider  LoggerProvider
	serviceProvider ServiceProvider
	homeExpander    *pathutils.HomeExpander
}

func (commandDependencies dependencies) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if commandDependencies.loggerProvider != nil {
		logger = commandDependencies.loggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (commandDependencies dependencies) resolveService(logger *zap.Logger) (RepositoryLocator, error) {
	if commandDependencies.serviceProvider != nil {
		return commandDependencies.serviceProvider(logger)
	}
	return repository.NewService(repository.ServiceDependencies{
		FileSystem: afero.NewOsFs(),
		Logger:     logger,
	})
}

func (commandDependencies dependencies) expandStartPath(startPath string) (string, error) {
	if len(startPath) == 0 {
		startPath = defaultStartPathConstant
	}
	homeExpander := commandDependencies.homeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander(nil)
	}
	return homeExpander.Expand(startPath)
}

// locateRepository runs a required search from startPath.
func (commandDependencies dependencies) locateRepository(startPath string) (*repository.Repository, error) {
	logger := commandDependencies.resolveLogger()

	expandedStartPath, expandError := commandDependencies.expandStartPath(startPath)
	if expandError != nil {
		return nil, fmt.Errorf(startPathResolutionTemplateConstant, expandError)
	}

	locator, serviceError := commandDependencies.resolveService(logger)
	if serviceError != nil {
		return nil, fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	locatedRepository, _, findError := locator.Find(expandedStartPath, true)
	if findError != nil {
		return nil, fmt.Errorf(locateErrorTemplateConstant, findError)
	}

	logger.Debug(
		repositoryLocatedMessageConstant,
		zap.String(logFieldStartPathConstant, expandedStartPath),
		zap.String(logFieldWorktreeConstant, locatedRepository.WorktreeRoot()),
	)
	return locatedRepository, nil
}
