package locate

import (
	"fmt"
	"strings"
)

const (
	keySeparatorConstant            = "."
	subsectionTemplateConstant      = "%s \"%s\""
	invalidKeyErrorTemplateConstant = "invalid configuration key %q: expected section.key or section.subsection.key"
)

// ConfigurationKey addresses one setting of a repository configuration file.
type ConfigurationKey struct {
	Section string
	Name    string
}

// ParseConfigurationKey splits dotted notation such as core.bare or remote.origin.url.
// Section and key names are case-insensitive and lower-cased; a subsection keeps its case.
func ParseConfigurationKey(rawKey string) (ConfigurationKey, error) {
	trimmedKey := strings.TrimSpace(rawKey)
	firstSeparator := strings.Index(trimmedKey, keySeparatorConstant)
	lastSeparator := strings.LastIndex(trimmedKey, keySeparatorConstant)
	if firstSeparator <= 0 || lastSeparator == len(trimmedKey)-1 {
		return ConfigurationKey{}, fmt.Errorf(invalidKeyErrorTemplateConstant, rawKey)
	}

	sectionName := strings.ToLower(trimmedKey[:firstSeparator])
	keyName := strings.ToLower(trimmedKey[lastSeparator+1:])
	if firstSeparator == lastSeparator {
		return ConfigurationKey{Section: sectionName, Name: keyName}, nil
	}

	subsectionName := trimmedKey[firstSeparator+1 : lastSeparator]
	return ConfigurationKey{Section: fmt.Sprintf(subsectionTemplateConstant, sectionName, subsectionName), Name: keyName}, nil
}
