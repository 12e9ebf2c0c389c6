package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CPTOOL_TEST_PORT=9191\nCPTOOL_TEST_KEEP=fromfile\n"), 0o644))

	t.Setenv("ENV_PATH", "")
	t.Setenv("CPTOOL_TEST_PORT", "")
	require.NoError(t, os.Unsetenv("CPTOOL_TEST_PORT"))
	t.Setenv("CPTOOL_TEST_KEEP", "fromenv")

	require.NoError(t, LoadDotEnv("local", path))
	assert.Equal(t, "9191", os.Getenv("CPTOOL_TEST_PORT"))
	assert.Equal(t, "fromenv", os.Getenv("CPTOOL_TEST_KEEP"))
}

func TestLoadDotEnv_EnvPathOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("CPTOOL_TEST_OVERRIDE=yes\n"), 0o644))

	t.Setenv("ENV_PATH", path)
	t.Setenv("CPTOOL_TEST_OVERRIDE", "")
	require.NoError(t, os.Unsetenv("CPTOOL_TEST_OVERRIDE"))

	require.NoError(t, LoadDotEnv("", filepath.Join(dir, "missing.env")))
	assert.Equal(t, "yes", os.Getenv("CPTOOL_TEST_OVERRIDE"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	missing := filepath.Join(t.TempDir(), "missing.env")

	assert.Error(t, LoadDotEnv("local", missing))
	assert.Error(t, LoadDotEnv("", missing))
	assert.NoError(t, LoadDotEnv("production", missing))
}
