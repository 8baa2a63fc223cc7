package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.ServerAddress)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 10*time.Hour, cfg.JWTExpiry())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_driver: dynamodb
dynamodb_table: from-file
frontend_url: "https://a.example, https://b.example"
enrich_timeout: 5s
yt_key: file-key
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("YT_KEY", "env-key")
	t.Setenv("PORT", "8081")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, StoreDynamoDB, cfg.StoreDriver)
	assert.Equal(t, "from-file", cfg.DynamoDBTable)
	assert.Equal(t, "env-key", cfg.YouTubeAPIKey)
	assert.Equal(t, 5*time.Second, cfg.EnrichTimeout)
	assert.Equal(t, ":8081", cfg.ServerAddress)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Environment = "production"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "s"
	assert.NoError(t, cfg.Validate())

	cfg.StoreDriver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.JWTAlgorithm = "RS256"
	assert.Error(t, cfg.Validate())
}
