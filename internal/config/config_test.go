package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stalk/internal/querysql"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Empty(t, cfg.DisabledActions())
	assert.Equal(t, querysql.DefaultLimitPolicy(), cfg.LimitPolicy())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabase, cfg.Database)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
database: /var/lib/stalk/data.db
logging:
  CHAT: true
  CHUNK_MOVE: false
  session: false
query:
  default_limit: 15
  max_limit: 200
  block_limit: 5
  time_format: "2006-01-02 15:04:05"
  timezone: UTC
queue:
  max_depth: 1000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/stalk/data.db", cfg.Database)
	assert.Equal(t, []string{"CHUNK_MOVE", "SESSION"}, cfg.DisabledActions())
	assert.Equal(t, querysql.LimitPolicy{Default: 15, Max: 200, BlockDefault: 5}, cfg.LimitPolicy())
	assert.Equal(t, 1000, cfg.Queue.MaxDepth)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
	assert.Equal(t, "2006-01-02 15:04:05", cfg.Formatter().Layout)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "logging:\n  ATTACK: false\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, querysql.DefaultLimit, cfg.Query.DefaultLimit)
	assert.Equal(t, []string{"ATTACK"}, cfg.DisabledActions())
}

func TestLoad_UnknownKeysAccepted(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
logging:
  TELEPORT: false
  NOT_A_REAL_ACTION: true
extra_section:
  anything: goes
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"TELEPORT"}, cfg.DisabledActions())
}

func TestLoad_CommentOnlyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# nothing here\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := map[string]string{
		"non-bool logging value": "logging:\n  CHAT: \"off\"\n",
		"negative limit":         "query:\n  default_limit: -1\n",
		"string limit":           "query:\n  max_limit: lots\n",
		"empty database":         "database: \"\"\n",
		"negative queue depth":   "queue:\n  max_depth: -5\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			require.Error(t, err)
			var cfgErr *ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "logging: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestLoad_CrossFieldValidation(t *testing.T) {
	_, err := Load(writeConfig(t, "query:\n  default_limit: 600\n  max_limit: 500\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds max_limit")

	_, err = Load(writeConfig(t, "query:\n  timezone: Mars/Olympus\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STALK_DATABASE", "/tmp/override.db")
	t.Setenv("STALK_MAX_LIMIT", "300")
	t.Setenv("STALK_QUEUE_MAX_DEPTH", "64")

	cfg, err := Load(writeConfig(t, "database: file.db\nquery:\n  max_limit: 100\n"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override.db", cfg.Database)
	assert.Equal(t, 300, cfg.Query.MaxLimit)
	assert.Equal(t, 64, cfg.Queue.MaxDepth)
	assert.Equal(t, querysql.DefaultLimit, cfg.Query.DefaultLimit, "unset env vars leave values alone")
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("STALK_DEFAULT_LIMIT", "twenty")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte("logging:\n  chat: false\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"CHAT"}, cfg.DisabledActions())

	_, err = Parse([]byte("logging:\n  chat: 3\n"))
	assert.Error(t, err)
}
