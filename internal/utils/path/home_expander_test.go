package pathutils_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/gitboot/internal/utils/path"
)

const (
	testHomeDirectoryConstant   = "/home/tester"
	testSubtestTemplateConstant = "%d_%s"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		candidatePath string
		expectedPath  string
	}{
		{name: "bare_tilde", candidatePath: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", candidatePath: "~/projects/demo", expectedPath: filepath.Join(testHomeDirectoryConstant, "projects", "demo")},
		{name: "other_user", candidatePath: "~someone/projects", expectedPath: "~someone/projects"},
		{name: "relative", candidatePath: "projects/demo", expectedPath: "projects/demo"},
		{name: "empty", candidatePath: "", expectedPath: ""},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpander(func() (string, error) { return testHomeDirectoryConstant, nil })

			expandedPath, expandError := expander.Expand(testCase.candidatePath)
			require.NoError(testInstance, expandError)
			require.Equal(testInstance, testCase.expectedPath, expandedPath)
		})
	}
}

func TestHomeExpanderLooksUpHomeOnce(testInstance *testing.T) {
	lookupCount := 0
	expander := pathutils.NewHomeExpander(func() (string, error) {
		lookupCount++
		return testHomeDirectoryConstant, nil
	})

	for iteration := 0; iteration < 3; iteration++ {
		_, expandError := expander.Expand("~/repository")
		require.NoError(testInstance, expandError)
	}
	_, relativeError := expander.Expand("repository")
	require.NoError(testInstance, relativeError)

	require.Equal(testInstance, 1, lookupCount)
}

func TestHomeExpanderReportsLookupFailure(testInstance *testing.T) {
	lookupError := errors.New("home directory unavailable")
	expander := pathutils.NewHomeExpander(func() (string, error) { return "", lookupError })

	_, expandError := expander.Expand("~/repository")
	require.ErrorIs(testInstance, expandError, lookupError)

	untouchedPath, untouchedError := expander.Expand("/srv/repository")
	require.NoError(testInstance, untouchedError)
	require.Equal(testInstance, "/srv/repository", untouchedPath)
}
