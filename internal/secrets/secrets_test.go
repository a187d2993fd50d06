// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingDirectory(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestLoad_ReadsTrimmedValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemini-api-key"), []byte("AIzaTest123\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "privacy-salt"), []byte("  pepper  "), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("   \n"), 0o600))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "AIzaTest123", s["gemini-api-key"])
	assert.Equal(t, "pepper", s["privacy-salt"])
	_, ok := s["empty"]
	assert.False(t, ok, "blank secrets should be skipped")
}

func TestLoad_SkipsDotfilesAndDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smtp-password"), []byte("hunter2"), 0o600))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"smtp-password": "hunter2"}, s)
}
