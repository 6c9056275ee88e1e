package repository_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitboot/internal/repository"
)

const (
	testMixedCaseConfiguration    = "[core]\nRepositoryFormatVersion = 0\nFileMode = true\n[user]\nname = Example Author\n"
	testMalformedConfiguration    = "[core\nrepositoryformatversion = 0\n"
	testUserSectionName           = "user"
	testUserNameKey               = "name"
	testUserNameValue             = "Example Author"
	testMissingSectionName        = "extensions"
	testValuelessKeyConfiguration = "[core]\n\trepositoryformatversion = 0\n\tbare\n\tlogAllRefUpdates\n"
)

func TestDefaultConfigurationContainsCoreSchema(testInstance *testing.T) {
	configuration := repository.DefaultConfiguration()

	require.Equal(testInstance, []string{repository.CoreSectionName}, configuration.Sections())
	require.Equal(testInstance,
		[]string{repository.FormatVersionKey, repository.FileModeKey, repository.BareKey},
		configuration.Keys(repository.CoreSectionName),
	)

	expectedValues := map[string]string{
		repository.FormatVersionKey: "0",
		repository.FileModeKey:      "false",
		repository.BareKey:          "false",
	}
	for keyName, expectedValue := range expectedValues {
		actualValue, found := configuration.Value(repository.CoreSectionName, keyName)
		require.True(testInstance, found, keyName)
		require.Equal(testInstance, expectedValue, actualValue, keyName)
	}

	_, missingFound := configuration.Value(testMissingSectionName, repository.FormatVersionKey)
	require.False(testInstance, missingFound)
}

func TestDefaultConfigurationSerializesAsIni(testInstance *testing.T) {
	serialized, serializeError := repository.DefaultConfiguration().Bytes()
	require.NoError(testInstance, serializeError)

	serializedText := string(serialized)
	require.True(testInstance, strings.HasPrefix(serializedText, "[core]\n"), serializedText)
	require.Equal(testInstance, 1, strings.Count(serializedText, "["))

	reparsed, parseError := repository.ParseConfiguration(serialized)
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, repository.DefaultConfiguration().Sections(), reparsed.Sections())
	require.Equal(testInstance, repository.DefaultConfiguration().Keys(repository.CoreSectionName), reparsed.Keys(repository.CoreSectionName))
}

func TestParseConfigurationTreatsKeysCaseInsensitively(testInstance *testing.T) {
	configuration, parseError := repository.ParseConfiguration([]byte(testMixedCaseConfiguration))
	require.NoError(testInstance, parseError)

	formatVersion, formatVersionFound := configuration.Value(repository.CoreSectionName, repository.FormatVersionKey)
	require.True(testInstance, formatVersionFound)
	require.Equal(testInstance, "0", formatVersion)

	fileMode, fileModeFound := configuration.Value(repository.CoreSectionName, "FILEMODE")
	require.True(testInstance, fileModeFound)
	require.Equal(testInstance, "true", fileMode)

	userName, userNameFound := configuration.Value(testUserSectionName, testUserNameKey)
	require.True(testInstance, userNameFound)
	require.Equal(testInstance, testUserNameValue, userName)
}

func TestParseConfigurationAcceptsValuelessKeys(testInstance *testing.T) {
	configuration, parseError := repository.ParseConfiguration([]byte(testValuelessKeyConfiguration))
	require.NoError(testInstance, parseError)

	for _, keyName := range []string{repository.BareKey, "logallrefupdates"} {
		keyValue, keyFound := configuration.Value(repository.CoreSectionName, keyName)
		require.True(testInstance, keyFound, keyName)
		require.Equal(testInstance, "true", keyValue, keyName)
	}

	serialized, serializeError := configuration.Bytes()
	require.NoError(testInstance, serializeError)
	reparsed, reparseError := repository.ParseConfiguration(serialized)
	require.NoError(testInstance, reparseError)
	require.Equal(testInstance, configuration.Keys(repository.CoreSectionName), reparsed.Keys(repository.CoreSectionName))
}

func TestParseConfigurationRejectsMalformedInput(testInstance *testing.T) {
	_, parseError := repository.ParseConfiguration([]byte(testMalformedConfiguration))
	require.Error(testInstance, parseError)
}

func TestNilConfigurationLookupsAreEmpty(testInstance *testing.T) {
	var configuration *repository.Configuration

	_, found := configuration.Value(repository.CoreSectionName, repository.BareKey)
	require.False(testInstance, found)
	require.Nil(testInstance, configuration.Sections())
	require.Nil(testInstance, configuration.Keys(repository.CoreSectionName))
}
