package config

const (
	DefaultHostedURL     = "http://localhost:8080/api/chat"
	DefaultOllamaHost    = "http://localhost:11434"
	DefaultOllamaModel   = "qwen3:4b-instruct-2507-q4_K_M"
	DefaultWorkerModelID = "Qwen2.5-3B-Instruct-q4f16_1-MLC"
	DefaultStoreURL      = "http://localhost:8080"
	DefaultListenAddr    = ":8080"

	DefaultMaxAttachmentChars = 200_000
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/paperhub",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Chat: ChatConfig{
			Backend:            "hosted",
			MaxAttachmentChars: DefaultMaxAttachmentChars,
		},
		Hosted: HostedConfig{
			URL: DefaultHostedURL,
		},
		Ollama: OllamaConfig{
			Host:         DefaultOllamaHost,
			DefaultModel: DefaultOllamaModel,
		},
		Worker: WorkerConfig{
			Engine:  "ollama",
			ModelID: DefaultWorkerModelID,
		},
		Store: StoreConfig{
			Mode: "remote",
			URL:  DefaultStoreURL,
		},
		Server: ServerConfig{
			Listen:        DefaultListenAddr,
			Upstream:      "ollama",
			UpstreamModel: DefaultOllamaModel,
			RatePerSecond: 5,
			Burst:         10,
			LogLevel:      "INFO",
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# PaperHub System Configuration
# Location: ~/.config/paperhub/settings.toml
# This file uses TOML format: https://toml.io

# Directory where config.toml, prefs and the local database are stored
data_directory = "~/.local/share/paperhub"
`
}

func GenerateUserConfigTemplate() string {
	return `# PaperHub User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[chat]
# Where chat turns go: "hosted" (PaperHub server), "ollama" (local daemon)
# or "worker" (in-process model worker)
backend = "hosted"

# Base system prompt when no document is attached (optional)
default_system_prompt = ""

# Attached documents are cut to this many characters before they reach the
# model (0 = no limit)
max_attachment_chars = 200000

[hosted]
url = "http://localhost:8080/api/chat"

[ollama]
host = "http://localhost:11434"
default_model = "qwen3:4b-instruct-2507-q4_K_M"

[worker]
# Engine the worker drives: "ollama", "openai" or "anthropic"
# API keys come from OPENAI_API_KEY / ANTHROPIC_API_KEY
engine = "ollama"
model_id = "Qwen2.5-3B-Instruct-q4f16_1-MLC"

[store]
# "remote" uses the PaperHub server API, "local" a SQLite file in the data directory
mode = "remote"
url = "http://localhost:8080"

[server]
listen = ":8080"
# Model backend for /api/chat: "ollama", "openai" or "anthropic"
upstream = "ollama"
upstream_model = "qwen3:4b-instruct-2507-q4_K_M"
# Per-client limit on comment and like writes
rate_per_second = 5.0
burst = 10
log_level = "INFO"
`
}
