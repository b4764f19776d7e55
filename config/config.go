package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ChatConfig struct {
	// Backend is one of "hosted", "ollama", "worker".
	Backend             string `toml:"backend"`
	DefaultSystemPrompt string `toml:"default_system_prompt,omitempty"`
	// MaxAttachmentChars caps the extracted document text; 0 means no cap.
	MaxAttachmentChars int `toml:"max_attachment_chars"`
}

type HostedConfig struct {
	URL string `toml:"url"`
}

type OllamaConfig struct {
	Host         string `toml:"host"`
	DefaultModel string `toml:"default_model"`
}

type WorkerConfig struct {
	// Engine runs generation for the worker: "ollama", "openai" or "anthropic".
	Engine  string `toml:"engine"`
	ModelID string `toml:"model_id"`
	BaseURL string `toml:"base_url,omitempty"`
}

type StoreConfig struct {
	// Mode is "remote" (the hosted API) or "local" (SQLite in the data dir).
	Mode string `toml:"mode"`
	URL  string `toml:"url"`
}

type ServerConfig struct {
	Listen        string  `toml:"listen"`
	Upstream      string  `toml:"upstream"`
	UpstreamModel string  `toml:"upstream_model"`
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
	LogFile       string  `toml:"log_file,omitempty"`
	LogLevel      string  `toml:"log_level"`
}

type UserConfig struct {
	Chat   ChatConfig   `toml:"chat"`
	Hosted HostedConfig `toml:"hosted"`
	Ollama OllamaConfig `toml:"ollama"`
	Worker WorkerConfig `toml:"worker"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// Config is the resolved configuration: files, then environment.
type Config struct {
	DataDirectory string
	UserConfig

	OpenAIAPIKey    string
	AnthropicAPIKey string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) OllamaURL() string {
	return c.Ollama.Host
}

func (c *Config) Model() string {
	return c.Ollama.DefaultModel
}

// DatabasePath is the SQLite file used by the server and by local store mode.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir(), "paperhub.db")
}

// ServerLogFile defaults to <data_dir>/server.log.
func (c *Config) ServerLogFile() string {
	if c.Server.LogFile != "" {
		return ExpandPath(c.Server.LogFile)
	}
	return filepath.Join(c.DataDir(), "server.log")
}

// APIKey returns the key for a cloud engine ("openai", "anthropic").
func (c *Config) APIKey(engine string) string {
	switch engine {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

func (c *Config) applyEnvOverrides() {
	if backend := os.Getenv("PAPERHUB_BACKEND"); backend != "" {
		c.Chat.Backend = backend
	}
	if host := os.Getenv("PAPERHUB_OLLAMA_HOST"); host != "" {
		c.Ollama.Host = host
	} else if host := os.Getenv("OLLAMA_BASE_URL"); host != "" {
		c.Ollama.Host = host
	}
	if model := os.Getenv("PAPERHUB_MODEL"); model != "" {
		c.Ollama.DefaultModel = model
	}
	if url := os.Getenv("PAPERHUB_HOSTED_URL"); url != "" {
		c.Hosted.URL = url
	}
	if url := os.Getenv("PAPERHUB_STORE_URL"); url != "" {
		c.Store.URL = url
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.OpenAIAPIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.AnthropicAPIKey = key
	}
	if rate := os.Getenv("PAPERHUB_RATE_PER_SECOND"); rate != "" {
		if v, err := strconv.ParseFloat(rate, 64); err == nil {
			c.Server.RatePerSecond = v
		}
	}
}

func CheckDebug() bool {
	debug := os.Getenv("PAPERHUB_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens <dataDir>/debug.log when PAPERHUB_DEBUG is set or
// force is true.
func InitDebugLog(dataDir string, force bool) {
	if !force && !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: may contain prompts and document text
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (PAPERHUB_DEBUG=%s) ===", os.Getenv("PAPERHUB_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// LoadDotEnv loads ./.env into the environment if present. Variables that
// are already set win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		DataDirectory: DefaultSystemConfig().DataDirectory,
		UserConfig:    *DefaultUserConfig(),
	}

	if dataDir := os.Getenv("PAPERHUB_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	} else {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.UserConfig = *userCfg
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Chat.Backend {
	case "hosted", "ollama", "worker":
	default:
		return fmt.Errorf("invalid chat backend %q: want hosted, ollama or worker", c.Chat.Backend)
	}
	if c.Chat.MaxAttachmentChars < 0 {
		return fmt.Errorf("invalid max_attachment_chars %d: must be 0 or more", c.Chat.MaxAttachmentChars)
	}
	switch c.Worker.Engine {
	case "ollama", "openai", "anthropic":
	default:
		return fmt.Errorf("invalid worker engine %q: want ollama, openai or anthropic", c.Worker.Engine)
	}
	switch c.Server.Upstream {
	case "ollama", "openai", "anthropic":
	default:
		return fmt.Errorf("invalid server upstream %q: want ollama, openai or anthropic", c.Server.Upstream)
	}
	switch c.Store.Mode {
	case "remote", "local":
	default:
		return fmt.Errorf("invalid store mode %q: want remote or local", c.Store.Mode)
	}
	return nil
}
