package repository

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	fileSystemMissingMessageConstant            = "repository file system not configured"
	invalidMetadataDirectoryNameMessageConstant = "metadata directory name must be a single path element"
	metadataDirectoryNameCurrentConstant        = "."
	metadataDirectoryNameParentConstant         = ".."
	metadataDirectoryNameSeparatorsConstant     = `/\`
	serviceConfiguredMessageConstant            = "repository service configured"
	logFieldMetadataDirectoryNameConstant       = "metadata_directory_name"
	logFieldFileSystemConstant                  = "file_system"
)

// ErrFileSystemNotConfigured indicates the file system dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrInvalidMetadataDirectoryName indicates the metadata directory name spans several path elements or names "." or "..".
var ErrInvalidMetadataDirectoryName = errors.New(invalidMetadataDirectoryNameMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	FileSystem afero.Fs
	Logger     *zap.Logger
	// MetadataDirectoryName overrides DefaultMetadataDirectoryName when set.
	MetadataDirectoryName string
}

// Service creates, validates and locates repositories on a file system.
// It keeps no mutable state and performs no locking.
type Service struct {
	fileSystem            afero.Fs
	logger                *zap.Logger
	metadataDirectoryName string
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	metadataDirectoryName := strings.TrimSpace(dependencies.MetadataDirectoryName)
	if len(metadataDirectoryName) == 0 {
		metadataDirectoryName = DefaultMetadataDirectoryName
	}
	if !isSinglePathElement(metadataDirectoryName) {
		return nil, ErrInvalidMetadataDirectoryName
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Debug(
		serviceConfiguredMessageConstant,
		zap.String(logFieldMetadataDirectoryNameConstant, metadataDirectoryName),
		zap.String(logFieldFileSystemConstant, dependencies.FileSystem.Name()),
	)

	return &Service{
		fileSystem:            dependencies.FileSystem,
		logger:                logger,
		metadataDirectoryName: metadataDirectoryName,
	}, nil
}

// MetadataDirectoryName returns the metadata directory name used by the service.
func (service *Service) MetadataDirectoryName() string {
	return service.metadataDirectoryName
}

func isSinglePathElement(name string) bool {
	if name == metadataDirectoryNameCurrentConstant || name == metadataDirectoryNameParentConstant {
		return false
	}
	if strings.ContainsAny(name, metadataDirectoryNameSeparatorsConstant) {
		return false
	}
	return filepath.Base(name) == name
}
