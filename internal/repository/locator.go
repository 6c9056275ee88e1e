package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	canonicalPathErrorTemplateConstant    = "unable to resolve %s: %w"
	candidateInspectErrorTemplateConstant = "unable to inspect %s: %w"
	searchCandidateMessageConstant        = "searching for repository"
	searchExhaustedMessageConstant        = "no repository above start path"
	logFieldStartPathConstant             = "start_path"
	logFieldCandidateConstant             = "candidate"
)

// Find returns the repository whose worktree is the nearest ancestor of startPath, startPath
// included. The walk goes strictly upward and stops at the first candidate holding a metadata
// directory; that candidate is validated and its validation errors are returned as-is.
//
// When the file system root is reached, Find fails with ErrRepositoryNotFound if required is set
// and otherwise returns false with a nil error.
func (service *Service) Find(startPath string, required bool) (*Repository, bool, error) {
	candidatePath, canonicalError := service.canonicalPath(startPath)
	if canonicalError != nil {
		return nil, false, canonicalError
	}

	maximumSteps := strings.Count(candidatePath, string(filepath.Separator)) + 1
	for step := 0; step <= maximumSteps; step++ {
		service.logger.Debug(searchCandidateMessageConstant, zap.String(logFieldCandidateConstant, candidatePath))

		metadataPresent, inspectError := service.hasMetadataDirectory(candidatePath)
		if inspectError != nil {
			return nil, false, inspectError
		}
		if metadataPresent {
			repository, openError := service.Open(candidatePath)
			if openError != nil {
				return nil, false, openError
			}
			return repository, true, nil
		}

		parentPath := filepath.Dir(candidatePath)
		if parentPath == candidatePath {
			break
		}
		candidatePath = parentPath
	}

	service.logger.Debug(searchExhaustedMessageConstant, zap.String(logFieldStartPathConstant, startPath))
	if required {
		return nil, false, Error{Kind: ErrorKindRepositoryNotFound, Path: startPath}
	}
	return nil, false, nil
}

func (service *Service) hasMetadataDirectory(candidatePath string) (bool, error) {
	metadataPath := filepath.Join(candidatePath, service.metadataDirectoryName)
	metadataInfo, statError := service.fileSystem.Stat(metadataPath)
	switch {
	case statError == nil:
		return metadataInfo.IsDir(), nil
	case errors.Is(statError, fs.ErrNotExist), errors.Is(statError, syscall.ENOTDIR):
		return false, nil
	default:
		return false, fmt.Errorf(candidateInspectErrorTemplateConstant, metadataPath, statError)
	}
}

// canonicalPath returns an absolute path. On the operating system file system symbolic links are
// resolved as well; when the path does not exist yet its longest existing prefix is resolved and
// the missing elements are appended unchanged.
func (service *Service) canonicalPath(path string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return "", fmt.Errorf(canonicalPathErrorTemplateConstant, path, absoluteError)
	}
	if _, operatingSystem := service.fileSystem.(*afero.OsFs); !operatingSystem {
		return absolutePath, nil
	}

	existingPath := absolutePath
	var missingElements []string
	for {
		resolvedPath, resolveError := filepath.EvalSymlinks(existingPath)
		if resolveError == nil {
			return filepath.Join(append([]string{resolvedPath}, missingElements...)...), nil
		}
		if !errors.Is(resolveError, fs.ErrNotExist) && !errors.Is(resolveError, syscall.ENOTDIR) {
			return "", fmt.Errorf(canonicalPathErrorTemplateConstant, path, resolveError)
		}
		parentPath := filepath.Dir(existingPath)
		if parentPath == existingPath {
			return absolutePath, nil
		}
		missingElements = append([]string{filepath.Base(existingPath)}, missingElements...)
		existingPath = parentPath
	}
}
