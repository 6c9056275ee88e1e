package utils

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	pathutils "github.com/temirov/gitboot/internal/utils/path"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
	configurationPathExpandErrorTemplateConstant    = "failed to resolve configuration path: %w"
)

// ConfigurationLoaderOptions describes where configuration comes from.
type ConfigurationLoaderOptions struct {
	// Name is the configuration file base name searched for in SearchPaths.
	Name string
	// Type is the viper format identifier of configuration files and embedded defaults.
	Type string
	// EnvironmentPrefix scopes environment overrides, e.g. PREFIX_COMMON_LOG_LEVEL.
	EnvironmentPrefix string
	// SearchPaths are consulted in order when no explicit file is given. A leading ~ is expanded.
	SearchPaths []string
	// EmbeddedConfiguration holds the built-in defaults merged before any file.
	EmbeddedConfiguration []byte
}

// ConfigurationLoader wraps Viper to layer embedded defaults, an optional file and environment overrides.
type ConfigurationLoader struct {
	options      ConfigurationLoaderOptions
	homeExpander *pathutils.HomeExpander
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader for the provided options.
func NewConfigurationLoader(options ConfigurationLoaderOptions, homeExpander *pathutils.HomeExpander) *ConfigurationLoader {
	copiedOptions := options
	copiedOptions.SearchPaths = append([]string(nil), options.SearchPaths...)
	copiedOptions.EmbeddedConfiguration = append([]byte(nil), options.EmbeddedConfiguration...)
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander(nil)
	}
	return &ConfigurationLoader{options: copiedOptions, homeExpander: homeExpander}
}

// LoadConfiguration decodes the layered configuration into targetConfiguration.
// An explicit configurationFilePath must exist; search paths are optional.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.options.Name)
	viperInstance.SetConfigType(loader.options.Type)

	if len(loader.options.EmbeddedConfiguration) > 0 {
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.options.EmbeddedConfiguration)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
		}
	}

	for _, searchPath := range loader.options.SearchPaths {
		expandedSearchPath, expandError := loader.homeExpander.Expand(searchPath)
		if expandError != nil {
			continue
		}
		viperInstance.AddConfigPath(expandedSearchPath)
	}

	viperInstance.SetEnvPrefix(loader.options.EnvironmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant))
	viperInstance.AutomaticEnv()

	if len(configurationFilePath) > 0 {
		expandedFilePath, expandError := loader.homeExpander.Expand(configurationFilePath)
		if expandError != nil {
			return LoadedConfiguration{}, fmt.Errorf(configurationPathExpandErrorTemplateConstant, expandError)
		}
		viperInstance.SetConfigFile(expandedFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	unmarshalError := viperInstance.Unmarshal(targetConfiguration, viper.DecodeHook(mapstructure.DecodeHookFuncType(trimStringHook)))
	if unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

// trimStringHook trims surrounding whitespace from string settings.
func trimStringHook(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
	if sourceType.Kind() != reflect.String || targetType.Kind() != reflect.String {
		return data, nil
	}
	return strings.TrimSpace(reflect.ValueOf(data).String()), nil
}
