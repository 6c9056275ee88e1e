package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "structured",
			choices:        []string{"structured", "console"},
			description:    "Log encoding.",
			expectedOutput: "<STRUCTURED|console> Log encoding.",
		},
		{
			name:           "DefaultLastChoice",
			defaultChoice:  "error",
			choices:        []string{"debug", "info", "warn", "error"},
			description:    "Minimum log level.",
			expectedOutput: "<debug|info|warn|ERROR> Minimum log level.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "alpha",
			choices:        []string{"alpha", "beta"},
			expectedOutput: "<ALPHA|beta>",
		},
		{
			name:           "NoDefault",
			choices:        []string{"alpha", "beta"},
			description:    "  Pick one.  ",
			expectedOutput: "<alpha|beta> Pick one.",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestChoiceValueAcceptsKnownChoices(t *testing.T) {
	selected := "info"
	flagSet := pflag.NewFlagSet("choices", pflag.ContinueOnError)
	flagSet.Var(NewChoiceValue(&selected, []string{"debug", "info"}), "level", "")

	require.NoError(t, flagSet.Parse([]string{"--level", " DEBUG "}))
	require.Equal(t, "debug", selected)
	require.Equal(t, "choice", flagSet.Lookup("level").Value.Type())
}

func TestChoiceValueRejectsUnknownChoices(t *testing.T) {
	selected := "info"
	value := NewChoiceValue(&selected, []string{"debug", "info"})

	setError := value.Set("verbose")
	require.EqualError(t, setError, "must be one of <debug|info>")
	require.Equal(t, "info", value.String())
}
