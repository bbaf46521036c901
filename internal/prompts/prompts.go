// Package prompts provides the system prompt for azurechat, with optional
// file-based overrides.
package prompts

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultSystemPrompt is used when no override is configured or found.
const DefaultSystemPrompt = "You are a helpful assistant."

// SystemPrompt returns the system prompt to use. An explicit non-empty
// override wins; otherwise the first SYSTEM.md found in the standard
// locations is used, falling back to DefaultSystemPrompt.
//
// Search order:
//  1. .azurechat/SYSTEM.md (repo)
//  2. SYSTEM.md (repo root)
//  3. ~/.azurechat/SYSTEM.md (global)
func SystemPrompt(override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	if s, ok := fromFiles(); ok {
		return s
	}
	return DefaultSystemPrompt
}

func fromFiles() (string, bool) {
	paths := []string{
		filepath.Join(".azurechat", "SYSTEM.md"),
		"SYSTEM.md",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".azurechat", "SYSTEM.md"))
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		s := strings.TrimSpace(string(data))
		if s != "" {
			return s, true
		}
	}
	return "", false
}
