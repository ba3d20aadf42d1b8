package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kirsle/configdir"
)

// appName names the per-user config directory
const appName = "tetris"

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("TETRIS_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("TETRIS_TOKEN"),
		TokenFile: getEnvOrDefault("TETRIS_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := ensureParent(c.TokenFile); err != nil {
		return err
	}

	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

// DataPath returns a file path inside the per-user config directory
func DataPath(name string) string {
	return filepath.Join(configdir.LocalConfig(appName), name)
}

// ensureParent creates the directory a file will be written to
func ensureParent(path string) error {
	return configdir.MakePath(filepath.Dir(path))
}

func defaultTokenFile() string {
	return DataPath("token")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
