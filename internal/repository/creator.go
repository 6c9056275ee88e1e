package repository

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// DescriptionFileName holds the free-text repository description.
	DescriptionFileName = "description"
	// HeadFileName holds the symbolic reference to the current branch.
	HeadFileName = "HEAD"

	// DefaultDescription is written into the description file of new repositories.
	DefaultDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"
	// DefaultHead is written into the HEAD file of new repositories.
	DefaultHead = "ref: refs/heads/master\n"

	targetInspectErrorTemplateConstant = "unable to inspect target %s: %w"
	targetCreateErrorTemplateConstant  = "unable to create target %s: %w"
	targetListErrorTemplateConstant    = "unable to list target %s: %w"
	metadataWriteErrorTemplateConstant = "unable to write %s: %w"
	scaffoldIncompleteTemplateConstant = "unable to scaffold %s"
	repositoryCreatedMessageConstant   = "repository initialized"
	scaffoldDirectoryMessageConstant   = "metadata directory created"
	scaffoldFileMessageConstant        = "metadata file written"
	logFieldPathConstant               = "path"
	targetCreatedMessageConstant       = "target directory created"
	objectStorageDirectoryNameConstant = "object"
	branchesDirectoryNameConstant      = "branches"
	branchHeadsDirectoryNameConstant   = "heads"
	referencesDirectoryNameConstant    = "refs"
	referenceTagsDirectoryNameConstant = "tags"
)

// scaffoldDirectories lists metadata directories in creation order. The object store keeps its
// singular name and heads live under branches/ rather than refs/; both are part of the layout
// existing repositories were created with.
var scaffoldDirectories = [][]string{
	{branchesDirectoryNameConstant},
	{objectStorageDirectoryNameConstant},
	{referencesDirectoryNameConstant, referenceTagsDirectoryNameConstant},
	{branchesDirectoryNameConstant, branchHeadsDirectoryNameConstant},
}

// Create initializes a new repository rooted at worktreePath.
//
// The target must be absent or an empty directory. Nothing is rolled back when a later step
// fails, so a partially scaffolded target makes subsequent attempts fail with ErrTargetNotEmpty.
func (service *Service) Create(worktreePath string) (*Repository, error) {
	repository, blueprintError := service.newBlueprint(worktreePath)
	if blueprintError != nil {
		return nil, blueprintError
	}

	if targetError := service.prepareTarget(repository.worktreeRoot); targetError != nil {
		return nil, targetError
	}

	for _, directorySegments := range scaffoldDirectories {
		directoryPath, created, resolveError := repository.ResolveDirectory(true, directorySegments...)
		if resolveError != nil {
			return nil, resolveError
		}
		if !created {
			return nil, fmt.Errorf(scaffoldIncompleteTemplateConstant, repository.Path(directorySegments...))
		}
		service.logger.Debug(scaffoldDirectoryMessageConstant, zap.String(logFieldPathConstant, directoryPath))
	}

	configuration := DefaultConfiguration()
	configurationData, serializeError := configuration.Bytes()
	if serializeError != nil {
		return nil, serializeError
	}

	metadataFiles := []struct {
		name    string
		content []byte
	}{
		{name: DescriptionFileName, content: []byte(DefaultDescription)},
		{name: HeadFileName, content: []byte(DefaultHead)},
		{name: ConfigurationFileName, content: configurationData},
	}

	for _, metadataFile := range metadataFiles {
		if writeError := service.writeMetadataFile(repository, metadataFile.name, metadataFile.content); writeError != nil {
			return nil, writeError
		}
	}

	repository.configuration = configuration
	repository.mode = ModeValid

	service.logger.Info(
		repositoryCreatedMessageConstant,
		zap.String(logFieldWorktreeConstant, repository.worktreeRoot),
		zap.String(logFieldMetadataDirectoryConstant, repository.metadataDirectory),
	)

	return repository, nil
}

func (service *Service) prepareTarget(worktreeRoot string) error {
	targetInfo, statError := service.fileSystem.Stat(worktreeRoot)
	if statError != nil && hasNonDirectoryAncestor(service.fileSystem, worktreeRoot) {
		return Error{Kind: ErrorKindNotADirectory, Path: worktreeRoot}
	}
	if errors.Is(statError, fs.ErrNotExist) {
		if mkdirError := service.fileSystem.MkdirAll(worktreeRoot, directoryPermissionsConstant); mkdirError != nil {
			return fmt.Errorf(targetCreateErrorTemplateConstant, worktreeRoot, mkdirError)
		}
		service.logger.Debug(targetCreatedMessageConstant, zap.String(logFieldPathConstant, worktreeRoot))
		return nil
	}
	if statError != nil {
		return fmt.Errorf(targetInspectErrorTemplateConstant, worktreeRoot, statError)
	}
	if !targetInfo.IsDir() {
		return Error{Kind: ErrorKindNotADirectory, Path: worktreeRoot}
	}

	empty, listError := afero.IsEmpty(service.fileSystem, worktreeRoot)
	if listError != nil {
		return fmt.Errorf(targetListErrorTemplateConstant, worktreeRoot, listError)
	}
	if !empty {
		return Error{Kind: ErrorKindTargetNotEmpty, Path: worktreeRoot}
	}
	return nil
}

func (service *Service) writeMetadataFile(repository *Repository, fileName string, content []byte) error {
	filePath, parentExists, resolveError := repository.ResolveFile(true, fileName)
	if resolveError != nil {
		return resolveError
	}
	if !parentExists {
		return fmt.Errorf(scaffoldIncompleteTemplateConstant, repository.Path(fileName))
	}
	if writeError := afero.WriteFile(service.fileSystem, filePath, content, filePermissionsConstant); writeError != nil {
		return fmt.Errorf(metadataWriteErrorTemplateConstant, filePath, writeError)
	}
	service.logger.Debug(scaffoldFileMessageConstant, zap.String(logFieldPathConstant, filePath))
	return nil
}
