package repository_test

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitboot/internal/repository"
)

const (
	testDeepDirectorySegmentOne   = "alpha"
	testDeepDirectorySegmentTwo   = "beta"
	testDeepDirectorySegmentThree = "gamma"
	testSymbolicLinkName          = "shortcut"
	testWorktreeLinkName          = "alias"
	testWindowsOperatingSystem    = "windows"
	testOrphanDirectoryPath       = "/orphan/without/repository"
)

func TestFindReturnsNearestRepositoryRoot(testInstance *testing.T) {
	rootDirectory := canonicalTemporaryDirectory(testInstance)
	service := newOperatingSystemService(testInstance)

	createdRepository, createError := service.Create(rootDirectory)
	require.NoError(testInstance, createError)

	deepDirectory := filepath.Join(rootDirectory, testDeepDirectorySegmentOne, testDeepDirectorySegmentTwo, testDeepDirectorySegmentThree)
	require.NoError(testInstance, os.MkdirAll(deepDirectory, testDirectoryPermissions))

	testCases := []struct {
		name      string
		startPath string
	}{
		{name: "repository_root", startPath: rootDirectory},
		{name: "deep_subdirectory", startPath: deepDirectory},
		{name: "metadata_directory", startPath: createdRepository.MetadataDirectory()},
		{name: "missing_subdirectory", startPath: filepath.Join(deepDirectory, testNestedTargetSegment)},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			foundRepository, found, findError := service.Find(testCase.startPath, true)
			require.NoError(testInstance, findError)
			require.True(testInstance, found)
			require.Equal(testInstance, rootDirectory, foundRepository.WorktreeRoot())
			require.Equal(testInstance, createdRepository.MetadataDirectory(), foundRepository.MetadataDirectory())
			require.Equal(testInstance, repository.ModeValid, foundRepository.Mode())
		})
	}
}

func TestFindPrefersInnermostRepository(testInstance *testing.T) {
	rootDirectory := canonicalTemporaryDirectory(testInstance)
	service := newOperatingSystemService(testInstance)

	_, outerError := service.Create(rootDirectory)
	require.NoError(testInstance, outerError)

	innerDirectory := filepath.Join(rootDirectory, testDeepDirectorySegmentOne)
	_, innerError := service.Create(innerDirectory)
	require.NoError(testInstance, innerError)

	startDirectory := filepath.Join(innerDirectory, testDeepDirectorySegmentTwo)
	require.NoError(testInstance, os.MkdirAll(startDirectory, testDirectoryPermissions))

	foundRepository, found, findError := service.Find(startDirectory, true)
	require.NoError(testInstance, findError)
	require.True(testInstance, found)
	require.Equal(testInstance, innerDirectory, foundRepository.WorktreeRoot())
}

func TestFindReportsAbsence(testInstance *testing.T) {
	service, memoryFileSystem := newMemoryService(testInstance)
	require.NoError(testInstance, memoryFileSystem.MkdirAll(testOrphanDirectoryPath, testDirectoryPermissions))

	foundRepository, found, findError := service.Find(testOrphanDirectoryPath, false)
	require.NoError(testInstance, findError)
	require.False(testInstance, found)
	require.Nil(testInstance, foundRepository)

	_, requiredFound, requiredError := service.Find(testOrphanDirectoryPath, true)
	require.False(testInstance, requiredFound)
	require.ErrorIs(testInstance, requiredError, repository.ErrRepositoryNotFound)

	var repositoryError repository.Error
	require.ErrorAs(testInstance, requiredError, &repositoryError)
	require.Equal(testInstance, testOrphanDirectoryPath, repositoryError.Path)
}

func TestFindPropagatesValidationFailures(testInstance *testing.T) {
	service, memoryFileSystem := newMemoryService(testInstance)
	writeMetadataConfiguration(testInstance, memoryFileSystem, testMemoryRootPath, fmt.Sprintf(testConfigurationTemplate, testSupportedVersionValue))
	writeMetadataConfiguration(testInstance, memoryFileSystem, testMemoryRepositoryPath, fmt.Sprintf(testConfigurationTemplate, testUnsupportedVersionValue))
	require.NoError(testInstance, memoryFileSystem.MkdirAll(testMemoryNestedPath, testDirectoryPermissions))

	_, found, findError := service.Find(testMemoryNestedPath, false)
	require.False(testInstance, found)
	require.ErrorIs(testInstance, findError, repository.ErrUnsupportedFormatVersion)
}

func TestFindSkipsMetadataFiles(testInstance *testing.T) {
	service, memoryFileSystem := newMemoryService(testInstance)
	writeMetadataConfiguration(testInstance, memoryFileSystem, testMemoryRootPath, fmt.Sprintf(testConfigurationTemplate, testSupportedVersionValue))
	require.NoError(testInstance, memoryFileSystem.MkdirAll(testMemoryNestedPath, testDirectoryPermissions))

	linkedWorktreeMarker := filepath.Join(testMemoryRepositoryPath, testMetadataDirectoryName)
	markerFile, markerError := memoryFileSystem.Create(linkedWorktreeMarker)
	require.NoError(testInstance, markerError)
	require.NoError(testInstance, markerFile.Close())

	foundRepository, found, findError := service.Find(testMemoryNestedPath, true)
	require.NoError(testInstance, findError)
	require.True(testInstance, found)
	require.Equal(testInstance, testMemoryRootPath, foundRepository.WorktreeRoot())
}

func TestFindResolvesSymbolicLinks(testInstance *testing.T) {
	if runtime.GOOS == testWindowsOperatingSystem {
		testInstance.Skip("symbolic links require elevated privileges on windows")
	}

	repositoryDirectory := filepath.Join(canonicalTemporaryDirectory(testInstance), testRepositoryDirectoryName)
	service := newOperatingSystemService(testInstance)
	_, createError := service.Create(repositoryDirectory)
	require.NoError(testInstance, createError)

	nestedDirectory := filepath.Join(repositoryDirectory, testDeepDirectorySegmentOne)
	require.NoError(testInstance, os.MkdirAll(nestedDirectory, testDirectoryPermissions))

	linkDirectory := canonicalTemporaryDirectory(testInstance)
	nestedLinkPath := filepath.Join(linkDirectory, testSymbolicLinkName)
	require.NoError(testInstance, os.Symlink(nestedDirectory, nestedLinkPath))
	worktreeLinkPath := filepath.Join(linkDirectory, testWorktreeLinkName)
	require.NoError(testInstance, os.Symlink(repositoryDirectory, worktreeLinkPath))

	testCases := []struct {
		name      string
		startPath string
	}{
		{name: "linked_subdirectory", startPath: nestedLinkPath},
		{name: "linked_worktree", startPath: worktreeLinkPath},
		{name: "missing_leaf_under_linked_subdirectory", startPath: filepath.Join(nestedLinkPath, testNestedTargetSegment)},
		{name: "missing_leaves_under_linked_worktree", startPath: filepath.Join(worktreeLinkPath, testNestedTargetSegment, testDeepDirectorySegmentTwo)},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			foundRepository, found, findError := service.Find(testCase.startPath, true)
			require.NoError(testInstance, findError)
			require.True(testInstance, found)
			require.Equal(testInstance, repositoryDirectory, foundRepository.WorktreeRoot())
		})
	}
}
