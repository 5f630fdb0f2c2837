// Package secrets resolves API credentials from the config file or from
// secret files mounted next to it.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source is one file-or-value credential reference from the config. File
// wins over Value when both are set, so a mounted secret always overrides an
// inline one.
type Source struct {
	// Name labels the secret in error messages.
	Name string
	// Value is the inline credential from the config file.
	Value string
	// File is a path to a file holding the credential.
	File string
}

// Load resolves the source to a trimmed, non-empty secret. An unreadable or
// empty file and a fully unset source are both errors; blank padding around
// the credential never is.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}
	return secret, nil
}
