package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	directoryPermissionsConstant          fs.FileMode = 0o755
	filePermissionsConstant               fs.FileMode = 0o644
	directoryInspectErrorTemplateConstant             = "unable to inspect %s: %w"
	directoryCreateErrorTemplateConstant              = "unable to create directory %s: %w"
)

// Path joins the metadata directory with segments without touching the filesystem.
func (repository *Repository) Path(segments ...string) string {
	pathElements := make([]string, 0, len(segments)+1)
	pathElements = append(pathElements, repository.metadataDirectory)
	pathElements = append(pathElements, segments...)
	return filepath.Join(pathElements...)
}

// ResolveDirectory returns the metadata subdirectory named by segments.
//
// An existing directory is returned as-is. An existing non-directory, or a regular file anywhere
// along the path, fails with ErrorKindNotADirectory. A missing directory is created with its ancestors when
// createMissing is set; otherwise the boolean result is false and no error is returned.
func (repository *Repository) ResolveDirectory(createMissing bool, segments ...string) (string, bool, error) {
	directoryPath := repository.Path(segments...)

	directoryInfo, statError := repository.fileSystem.Stat(directoryPath)
	if statError == nil {
		if !directoryInfo.IsDir() {
			return "", false, Error{Kind: ErrorKindNotADirectory, Path: directoryPath}
		}
		return directoryPath, true, nil
	}
	if hasNonDirectoryAncestor(repository.fileSystem, directoryPath) {
		return "", false, Error{Kind: ErrorKindNotADirectory, Path: directoryPath}
	}
	if !errors.Is(statError, fs.ErrNotExist) {
		return "", false, fmt.Errorf(directoryInspectErrorTemplateConstant, directoryPath, statError)
	}

	if !createMissing {
		return "", false, nil
	}

	if mkdirError := repository.fileSystem.MkdirAll(directoryPath, directoryPermissionsConstant); mkdirError != nil {
		return "", false, fmt.Errorf(directoryCreateErrorTemplateConstant, directoryPath, mkdirError)
	}
	return directoryPath, true, nil
}

// ResolveFile returns the path of a metadata file after ensuring its parent directory exists.
// The boolean result is false when the parent is absent and createMissing is not set.
func (repository *Repository) ResolveFile(createMissing bool, segments ...string) (string, bool, error) {
	if len(segments) == 0 {
		return repository.metadataDirectory, true, nil
	}
	_, parentExists, parentError := repository.ResolveDirectory(createMissing, segments[:len(segments)-1]...)
	if parentError != nil {
		return "", false, parentError
	}
	if !parentExists {
		return "", false, nil
	}
	return repository.Path(segments...), true, nil
}

// hasNonDirectoryAncestor reports whether the nearest existing ancestor of path is not a directory.
func hasNonDirectoryAncestor(fileSystem afero.Fs, path string) bool {
	ancestorPath := filepath.Dir(path)
	for {
		ancestorInfo, statError := fileSystem.Stat(ancestorPath)
		if statError == nil {
			return !ancestorInfo.IsDir()
		}
		parentPath := filepath.Dir(ancestorPath)
		if parentPath == ancestorPath {
			return false
		}
		ancestorPath = parentPath
	}
}
