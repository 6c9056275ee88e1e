package pathutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant                 = "~"
	forwardSlashConstant                = "/"
	homeDirectoryLookupTemplateConstant = "unable to expand %s: %w"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites "~" and "~/..." to paths under the user's home directory.
// Other forms, including "~user", are returned unchanged.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	lookupOnce            sync.Once
	homeDirectory         string
	lookupError           error
}

// NewHomeExpander constructs a HomeExpander. A nil provider falls back to os.UserHomeDir.
func NewHomeExpander(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves a leading home shortcut. The home directory is looked up once, on first use.
func (expander *HomeExpander) Expand(candidatePath string) (string, error) {
	if !referencesHomeDirectory(candidatePath) {
		return candidatePath, nil
	}

	expander.lookupOnce.Do(func() {
		expander.homeDirectory, expander.lookupError = expander.homeDirectoryProvider()
	})
	if expander.lookupError != nil {
		return "", fmt.Errorf(homeDirectoryLookupTemplateConstant, candidatePath, expander.lookupError)
	}

	return filepath.Join(expander.homeDirectory, candidatePath[len(tildeSymbolConstant):]), nil
}

func referencesHomeDirectory(candidatePath string) bool {
	if candidatePath == tildeSymbolConstant {
		return true
	}
	remainder, hasTilde := strings.CutPrefix(candidatePath, tildeSymbolConstant)
	if !hasTilde {
		return false
	}
	return strings.HasPrefix(remainder, forwardSlashConstant) || strings.HasPrefix(remainder, string(filepath.Separator))
}
