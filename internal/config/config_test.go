package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("YANOTE_TEST_KEY", "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "YANOTE_TEST_KEY", "default"))

	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "YANOTE_TEST_KEY", "default"))

	// Default when nothing else is set.
	assert.Equal(t, "default", getConfigValue("", "YANOTE_TEST_MISSING", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := `# comment line
LOG_LEVEL_ENVFILE=debug

QUOTED_VALUE="hello world"
`
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("LOG_LEVEL_ENVFILE")
		os.Unsetenv("QUOTED_VALUE")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL_ENVFILE"))
	assert.Equal(t, "hello world", os.Getenv("QUOTED_VALUE"))
}

func TestLoadEnvFile_DoesNotOverrideExistingEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("ALREADY_SET=from-file\n"), 0o600))

	t.Setenv("ALREADY_SET", "from-process")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-process", os.Getenv("ALREADY_SET"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("not a key value pair\n"), 0o600))

	assert.Error(t, loadEnvFile(envPath))
}

func TestValidate(t *testing.T) {
	valid := Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/yanote"},
		Auth: AuthConfig{
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 720 * time.Hour,
		},
	}
	assert.NoError(t, valid.Validate())

	badEnv := valid
	badEnv.App.Environment = "testing"
	assert.Error(t, badEnv.Validate())

	badLevel := valid
	badLevel.Logger.Level = "verbose"
	assert.Error(t, badLevel.Validate())

	noData := valid
	noData.Data.BasePath = ""
	assert.Error(t, noData.Validate())
}

func TestExpandPath(t *testing.T) {
	// Empty path falls back to the default.
	got, err := expandPath("", "/srv/yanote")
	require.NoError(t, err)
	assert.Equal(t, "/srv/yanote", got)

	// Relative paths become absolute.
	got, err = expandPath("data", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	// Tilde expands to the home directory.
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err = expandPath("~/notes", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), got)
}
