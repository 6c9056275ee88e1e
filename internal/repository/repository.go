package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// DefaultMetadataDirectoryName names the metadata directory inside a worktree.
	DefaultMetadataDirectoryName = ".git"
	// ConfigurationFileName is the metadata file holding the repository configuration.
	ConfigurationFileName = "config"

	absolutePathErrorTemplateConstant      = "unable to resolve absolute path for %s: %w"
	metadataInspectErrorTemplateConstant   = "unable to inspect metadata directory %s: %w"
	configurationReadErrorTemplateConstant = "unable to read repository configuration %s: %w"
	repositoryValidatedMessageConstant     = "repository validated"
	logFieldWorktreeConstant               = "worktree"
	logFieldMetadataDirectoryConstant      = "metadata_directory"
)

// Mode reports how a Repository was constructed.
type Mode string

// Construction modes.
const (
	// ModeValid marks a repository whose layout and configuration were checked or just written.
	ModeValid Mode = "valid"
	// ModeBlueprint marks a repository description for a layout that is about to be created.
	ModeBlueprint Mode = "blueprint"
)

// Repository is the in-memory view of a repository rooted at a worktree.
type Repository struct {
	worktreeRoot      string
	metadataDirectory string
	configuration     *Configuration
	mode              Mode
	fileSystem        afero.Fs
}

// WorktreeRoot returns the absolute path of the top-level working directory.
func (repository *Repository) WorktreeRoot() string {
	return repository.worktreeRoot
}

// MetadataDirectory returns the absolute path of the metadata directory.
func (repository *Repository) MetadataDirectory() string {
	return repository.metadataDirectory
}

// Configuration returns the parsed repository configuration.
func (repository *Repository) Configuration() *Configuration {
	return repository.configuration
}

// Mode returns the construction mode.
func (repository *Repository) Mode() Mode {
	return repository.mode
}

// ConfigurationValue looks up a configuration setting by section and key.
func (repository *Repository) ConfigurationValue(sectionName string, keyName string) (string, bool) {
	return repository.configuration.Value(sectionName, keyName)
}

// Open validates the repository rooted at worktreePath and returns its context.
func (service *Service) Open(worktreePath string) (*Repository, error) {
	repository, blueprintError := service.newBlueprint(worktreePath)
	if blueprintError != nil {
		return nil, blueprintError
	}

	metadataInfo, statError := service.fileSystem.Stat(repository.metadataDirectory)
	switch {
	case errors.Is(statError, fs.ErrNotExist), errors.Is(statError, syscall.ENOTDIR):
		return nil, Error{Kind: ErrorKindNotARepository, Path: repository.worktreeRoot}
	case statError != nil:
		return nil, fmt.Errorf(metadataInspectErrorTemplateConstant, repository.metadataDirectory, statError)
	case !metadataInfo.IsDir():
		return nil, Error{Kind: ErrorKindNotARepository, Path: repository.worktreeRoot}
	}

	configuration, configurationError := repository.loadConfiguration()
	if configurationError != nil {
		return nil, configurationError
	}

	if versionError := validateFormatVersion(configuration, repository.worktreeRoot); versionError != nil {
		return nil, versionError
	}

	repository.configuration = configuration
	repository.mode = ModeValid

	service.logger.Debug(
		repositoryValidatedMessageConstant,
		zap.String(logFieldWorktreeConstant, repository.worktreeRoot),
		zap.String(logFieldMetadataDirectoryConstant, repository.metadataDirectory),
	)

	return repository, nil
}

// newBlueprint computes repository paths without touching the filesystem beyond path resolution.
func (service *Service) newBlueprint(worktreePath string) (*Repository, error) {
	absoluteWorktree, absoluteError := filepath.Abs(worktreePath)
	if absoluteError != nil {
		return nil, fmt.Errorf(absolutePathErrorTemplateConstant, worktreePath, absoluteError)
	}
	return &Repository{
		worktreeRoot:      absoluteWorktree,
		metadataDirectory: filepath.Join(absoluteWorktree, service.metadataDirectoryName),
		mode:              ModeBlueprint,
		fileSystem:        service.fileSystem,
	}, nil
}

func (repository *Repository) loadConfiguration() (*Configuration, error) {
	configurationPath, parentExists, resolveError := repository.ResolveFile(false, ConfigurationFileName)
	if resolveError != nil {
		return nil, resolveError
	}
	if !parentExists {
		return nil, Error{Kind: ErrorKindMissingConfiguration, Path: repository.Path(ConfigurationFileName)}
	}

	configurationInfo, statError := repository.fileSystem.Stat(configurationPath)
	if errors.Is(statError, fs.ErrNotExist) || (statError == nil && configurationInfo.IsDir()) {
		return nil, Error{Kind: ErrorKindMissingConfiguration, Path: configurationPath}
	}
	if statError != nil {
		return nil, fmt.Errorf(configurationReadErrorTemplateConstant, configurationPath, statError)
	}

	configurationData, readError := afero.ReadFile(repository.fileSystem, configurationPath)
	if readError != nil {
		return nil, fmt.Errorf(configurationReadErrorTemplateConstant, configurationPath, readError)
	}

	return ParseConfiguration(configurationData)
}

func validateFormatVersion(configuration *Configuration, worktreeRoot string) error {
	rawVersion, versionPresent := configuration.Value(CoreSectionName, FormatVersionKey)
	if !versionPresent {
		return Error{Kind: ErrorKindUnsupportedFormatVersion, Path: worktreeRoot}
	}
	version, conversionError := strconv.Atoi(strings.TrimSpace(rawVersion))
	if conversionError != nil {
		return Error{Kind: ErrorKindUnsupportedFormatVersion, Path: worktreeRoot, Value: rawVersion}
	}
	if version != SupportedFormatVersion {
		return Error{Kind: ErrorKindUnsupportedFormatVersion, Path: worktreeRoot, Value: rawVersion}
	}
	return nil
}
