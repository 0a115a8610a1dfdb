// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain files.
// Each file holds one secret: the filename is the key and the trimmed
// contents are the value.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Dir is the default secrets directory, relative to the working directory.
const Dir = ".secrets/"

// Key names the pipeline resolves against the loaded map. Each corresponds
// to one file under the secrets directory.
const (
	KeyAnthropicAPI       = "anthropic-api-key"
	KeyPatentsViewAPI     = "patentsview-api-key"
	KeySemanticScholarAPI = "semantic-scholar-api-key"
	KeyOpenAlexEmail      = "openalex-email"
)

// Keys lists every key name the pipeline knows about, in resolution order.
var Keys = []string{
	KeyAnthropicAPI,
	KeyPatentsViewAPI,
	KeySemanticScholarAPI,
	KeyOpenAlexEmail,
}

// Load reads every regular file in dir into a key-to-value map. A missing
// directory is not an error; Load returns an empty map. Dotfiles,
// subdirectories and blank files are skipped. An unreadable file produces
// a warning on w and is skipped, so one bad key file never blocks the rest.
func Load(dir string, w io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	loaded := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			loaded[name] = value
		}
	}

	return loaded, nil
}
