package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"VideoScanner/internal/domain"
)

const (
	configPathEnv         = "VIDEO_SCANNER_CONFIG"
	youtubeAPIKeyEnv      = "YOUTUBE_API_KEY"
	channelIDsEnv         = "YOUTUBE_CHANNEL_IDS"
	telegramTokenEnv      = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv     = "TELEGRAM_CHAT_ID"
	geminiAPIKeyEnv       = "GEMINI_API_KEY"
	proxyURLEnv           = "PROXY_URL"
	proxyUsernameEnv      = "PROXY_USERNAME"
	proxyPasswordEnv      = "PROXY_PASSWORD"
	transcriptStrategyEnv = "TRANSCRIPT_STRATEGY"
	portEnv               = "PORT"
	logLevelEnv           = "LOG_LEVEL"

	// runtimeMarkerEnv is set by Cloud Run / Cloud Functions. Its presence
	// switches the scanner into restricted mode.
	runtimeMarkerEnv = "K_SERVICE"
)

// Config holds high-level settings required across the application.
type Config struct {
	YouTube       YouTubeConfig      `yaml:"youtube"`
	Gemini        GeminiConfig       `yaml:"gemini"`
	Notifications NotificationConfig `yaml:"notifications"`
	Transcript    TranscriptConfig   `yaml:"transcript"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Server        ServerConfig       `yaml:"server"`
	Logging       LoggingConfig      `yaml:"logging"`

	// DeploymentMode forces "local" or "restricted"; empty means autodetect.
	DeploymentMode string `yaml:"deploymentMode"`

	mode domain.DeploymentMode
}

// YouTubeConfig holds Data API credentials and the watched channel list.
type YouTubeConfig struct {
	APIKey     string   `yaml:"apiKey"`
	ChannelIDs []string `yaml:"channelIds"`
}

// GeminiConfig defines how to contact the generative-language API.
type GeminiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// TranscriptConfig selects the transcript strategy and proxy credentials.
type TranscriptConfig struct {
	Strategy      string `yaml:"strategy"`
	ProxyURL      string `yaml:"proxyUrl"`
	ProxyUsername string `yaml:"proxyUsername"`
	ProxyPassword string `yaml:"proxyPassword"`
}

// PipelineConfig tunes the orchestration run.
type PipelineConfig struct {
	FreshnessWindow time.Duration `yaml:"freshnessWindow"`
}

// ServerConfig describes the HTTP trigger surface.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Mode reports the deployment mode detected at load time.
func (c Config) Mode() domain.DeploymentMode {
	if c.mode == "" {
		return domain.ModeLocal
	}
	return c.mode
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.mode = resolveMode(cfg.DeploymentMode)

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(youtubeAPIKeyEnv); v != "" {
		c.YouTube.APIKey = v
	}

	if v := os.Getenv(channelIDsEnv); v != "" {
		c.YouTube.ChannelIDs = SplitChannelIDs(v)
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}

	if v := os.Getenv(transcriptStrategyEnv); v != "" {
		c.Transcript.Strategy = v
	}

	if v := os.Getenv(proxyURLEnv); v != "" {
		c.Transcript.ProxyURL = v
	}
	if v := os.Getenv(proxyUsernameEnv); v != "" {
		c.Transcript.ProxyUsername = v
	}
	if v := os.Getenv(proxyPasswordEnv); v != "" {
		c.Transcript.ProxyPassword = v
	}

	if v := os.Getenv(portEnv); v != "" {
		c.Server.Port = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

// SplitChannelIDs parses the comma-separated channel list. Blank entries are
// dropped so a trailing comma or doubled separator cannot produce a phantom
// channel downstream.
func SplitChannelIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// resolveMode honors an explicit config value and otherwise autodetects
// from the managed-runtime marker.
func resolveMode(forced string) domain.DeploymentMode {
	switch strings.ToLower(strings.TrimSpace(forced)) {
	case string(domain.ModeLocal):
		return domain.ModeLocal
	case string(domain.ModeRestricted):
		return domain.ModeRestricted
	}
	if _, ok := os.LookupEnv(runtimeMarkerEnv); ok {
		return domain.ModeRestricted
	}
	return domain.ModeLocal
}

func mergeConfig(base, override Config) Config {
	if override.YouTube.APIKey != "" {
		base.YouTube.APIKey = override.YouTube.APIKey
	}
	if len(override.YouTube.ChannelIDs) > 0 {
		base.YouTube.ChannelIDs = override.YouTube.ChannelIDs
	}

	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Transcript.Strategy != "" {
		base.Transcript.Strategy = override.Transcript.Strategy
	}
	if override.Transcript.ProxyURL != "" {
		base.Transcript.ProxyURL = override.Transcript.ProxyURL
	}
	if override.Transcript.ProxyUsername != "" {
		base.Transcript.ProxyUsername = override.Transcript.ProxyUsername
	}
	if override.Transcript.ProxyPassword != "" {
		base.Transcript.ProxyPassword = override.Transcript.ProxyPassword
	}

	if override.Pipeline.FreshnessWindow > 0 {
		base.Pipeline.FreshnessWindow = override.Pipeline.FreshnessWindow
	}

	if override.Server.Port != "" {
		base.Server.Port = override.Server.Port
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.DeploymentMode != "" {
		base.DeploymentMode = override.DeploymentMode
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Gemini: GeminiConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta/openai",
			Model:    "gemini-2.0-flash-lite",
		},
		Transcript: TranscriptConfig{
			ProxyURL: "http://p.webshare.io:80",
		},
		Pipeline: PipelineConfig{FreshnessWindow: 6 * time.Hour},
		Server:   ServerConfig{Port: "8080"},
		Logging:  LoggingConfig{Level: "info"},
	}
}
