// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "loads every pipeline key and trims values",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, KeyAnthropicAPI, "sk-ant-test\n")
				writeSecret(t, dir, KeyPatentsViewAPI, "  pv-test  ")
				writeSecret(t, dir, KeySemanticScholarAPI, "ss-test")
				writeSecret(t, dir, KeyOpenAlexEmail, "scout@example.com\n")
				return dir
			},
			want: map[string]string{
				KeyAnthropicAPI:       "sk-ant-test",
				KeyPatentsViewAPI:     "pv-test",
				KeySemanticScholarAPI: "ss-test",
				KeyOpenAlexEmail:      "scout@example.com",
			},
		},
		{
			name: "missing directory yields empty map",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "no-secrets-here")
			},
			want: map[string]string{},
		},
		{
			name: "blank files are skipped",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, KeyOpenAlexEmail, "scout@example.com")
				writeSecret(t, dir, KeyAnthropicAPI, "")
				writeSecret(t, dir, KeyPatentsViewAPI, " \n\t ")
				return dir
			},
			want: map[string]string{
				KeyOpenAlexEmail: "scout@example.com",
			},
		},
		{
			name: "dotfiles and subdirectories are skipped",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, ".gitignore", "*")
				writeSecret(t, dir, ".backup-key", "stale")
				writeSecret(t, dir, KeySemanticScholarAPI, "ss-test")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))
				return dir
			},
			want: map[string]string{
				KeySemanticScholarAPI: "ss-test",
			},
		},
		{
			name: "keys outside the known set load too",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeSecret(t, dir, "future-api-key", "fk-test")
				return dir
			},
			want: map[string]string{
				"future-api-key": "fk-test",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, io.Discard)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadWarnsOnUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, KeyOpenAlexEmail, "scout@example.com")

	badPath := filepath.Join(dir, KeyAnthropicAPI)
	require.NoError(t, os.WriteFile(badPath, []byte("sk-ant-test"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var warnings bytes.Buffer
	got, err := Load(dir, &warnings)
	require.NoError(t, err)

	assert.Equal(t, "scout@example.com", got[KeyOpenAlexEmail])
	assert.NotContains(t, got, KeyAnthropicAPI)
	assert.Contains(t, warnings.String(), KeyAnthropicAPI)
	assert.Contains(t, warnings.String(), "could not read secret")
}

func TestLoadUnreadableDirectoryIsError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(dir, 0o000))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	_, err := Load(dir, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading secrets directory")
}

func writeSecret(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
