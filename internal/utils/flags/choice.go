package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix    = "<"
	choicePlaceholderSuffix    = ">"
	choiceSeparatorLiteral     = "|"
	choiceUsageTemplate        = "%s %s"
	invalidChoiceErrorTemplate = "must be one of %s"
	choiceValueTypeName        = "choice"
)

// ChoiceValue is a pflag.Value restricted to a fixed, case-insensitive set of options.
type ChoiceValue struct {
	target  *string
	choices []string
}

var _ pflag.Value = (*ChoiceValue)(nil)

// NewChoiceValue binds target to a flag accepting only the listed choices.
func NewChoiceValue(target *string, choices []string) *ChoiceValue {
	return &ChoiceValue{target: target, choices: append([]string(nil), choices...)}
}

// String returns the currently stored value.
func (value *ChoiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

// Set stores the canonical spelling of candidate or rejects it.
func (value *ChoiceValue) Set(candidate string) error {
	normalizedCandidate := strings.ToLower(strings.TrimSpace(candidate))
	for _, choice := range value.choices {
		if strings.ToLower(choice) == normalizedCandidate {
			*value.target = choice
			return nil
		}
	}
	return fmt.Errorf(invalidChoiceErrorTemplate, FormatChoicePlaceholder("", value.choices))
}

// Type names the value kind in generated help.
func (value *ChoiceValue) Type() string {
	return choiceValueTypeName
}

// FormatChoicePlaceholder renders <a|B|c>, capitalizing the default choice.
func FormatChoicePlaceholder(defaultChoice string, choices []string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	rendered := make([]string, 0, len(choices))
	for _, choice := range choices {
		if len(normalizedDefault) > 0 && strings.ToLower(choice) == normalizedDefault {
			rendered = append(rendered, strings.ToUpper(choice))
			continue
		}
		rendered = append(rendered, choice)
	}
	return choicePlaceholderPrefix + strings.Join(rendered, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

// FormatChoiceUsage prefixes description with the choice placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := FormatChoicePlaceholder(defaultChoice, choices)
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return placeholder
	}
	return fmt.Sprintf(choiceUsageTemplate, placeholder, trimmedDescription)
}
