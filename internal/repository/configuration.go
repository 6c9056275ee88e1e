package repository

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-ini/ini"
)

const (
	// CoreSectionName is the configuration section holding repository-wide settings.
	CoreSectionName = "core"
	// FormatVersionKey declares the on-disk metadata schema version.
	FormatVersionKey = "repositoryformatversion"
	// FileModeKey toggles tracking of file permission changes in the worktree.
	FileModeKey = "filemode"
	// BareKey reports whether the repository lacks a worktree.
	BareKey = "bare"

	// SupportedFormatVersion is the only metadata schema version this package understands.
	SupportedFormatVersion = 0

	defaultFormatVersionValueConstant = "0"
	defaultFileModeValueConstant      = "false"
	defaultBareValueConstant          = "false"

	configurationParseErrorTemplateConstant     = "failed to parse repository configuration: %w"
	configurationSerializeErrorTemplateConstant = "failed to serialize repository configuration: %w"
)

var configurationLoadOptions = ini.LoadOptions{
	InsensitiveKeys:  true,
	AllowBooleanKeys: true,
}

// configurationEntry is a single section/key/value triple.
type configurationEntry struct {
	section string
	key     string
	value   string
}

var defaultConfigurationEntries = []configurationEntry{
	{section: CoreSectionName, key: FormatVersionKey, value: defaultFormatVersionValueConstant},
	{section: CoreSectionName, key: FileModeKey, value: defaultFileModeValueConstant},
	{section: CoreSectionName, key: BareKey, value: defaultBareValueConstant},
}

// Configuration is an ordered section -> key -> value view of a repository config file.
type Configuration struct {
	file *ini.File
}

// DefaultConfiguration returns the configuration written into every new repository.
func DefaultConfiguration() *Configuration {
	return newConfiguration(defaultConfigurationEntries)
}

// ParseConfiguration decodes INI-style repository configuration data.
func ParseConfiguration(data []byte) (*Configuration, error) {
	file, loadError := ini.LoadSources(configurationLoadOptions, data)
	if loadError != nil {
		return nil, fmt.Errorf(configurationParseErrorTemplateConstant, loadError)
	}
	return &Configuration{file: file}, nil
}

func newConfiguration(entries []configurationEntry) *Configuration {
	file := ini.Empty(configurationLoadOptions)
	for _, entry := range entries {
		file.Section(entry.section).Key(entry.key).SetValue(entry.value)
	}
	return &Configuration{file: file}
}

// Value looks up a single setting. Key names are case-insensitive.
func (configuration *Configuration) Value(sectionName string, keyName string) (string, bool) {
	if configuration == nil || configuration.file == nil {
		return "", false
	}
	section, sectionError := configuration.file.GetSection(sectionName)
	if sectionError != nil {
		return "", false
	}
	if !section.HasKey(keyName) {
		return "", false
	}
	return section.Key(keyName).String(), true
}

// Sections lists section names in file order, omitting an empty implicit default section.
func (configuration *Configuration) Sections() []string {
	if configuration == nil || configuration.file == nil {
		return nil
	}
	var sectionNames []string
	for _, section := range configuration.file.Sections() {
		if section.Name() == ini.DefaultSection && len(section.Keys()) == 0 {
			continue
		}
		sectionNames = append(sectionNames, section.Name())
	}
	return sectionNames
}

// Keys lists key names of a section in file order.
func (configuration *Configuration) Keys(sectionName string) []string {
	if configuration == nil || configuration.file == nil {
		return nil
	}
	section, sectionError := configuration.file.GetSection(sectionName)
	if sectionError != nil {
		return nil
	}
	return section.KeyStrings()
}

// WriteTo serializes the configuration in INI form.
func (configuration *Configuration) WriteTo(writer io.Writer) (int64, error) {
	if configuration == nil || configuration.file == nil {
		return 0, nil
	}
	bytesWritten, writeError := configuration.file.WriteTo(writer)
	if writeError != nil {
		return bytesWritten, fmt.Errorf(configurationSerializeErrorTemplateConstant, writeError)
	}
	return bytesWritten, nil
}

// Bytes returns the serialized configuration.
func (configuration *Configuration) Bytes() ([]byte, error) {
	var buffer bytes.Buffer
	if _, writeError := configuration.WriteTo(&buffer); writeError != nil {
		return nil, writeError
	}
	return buffer.Bytes(), nil
}
