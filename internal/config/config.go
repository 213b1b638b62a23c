package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Auth struct {
		JWTSecret   string `yaml:"jwt_secret"`
		TokenTTLHrs int64  `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	LLM struct {
		Enabled bool   `yaml:"enabled"`
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
	} `yaml:"llm"`
	Notifier struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		ReviewerChatID   int64  `yaml:"reviewer_chat_id"`
	} `yaml:"notifier"`
	Agents struct {
		MoodAlertFloor float64 `yaml:"mood_alert_floor"` // rolling average below this raises a crisis check
	} `yaml:"agents"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if config.Auth.TokenTTLHrs == 0 {
		config.Auth.TokenTTLHrs = 24
	}
	if config.Agents.MoodAlertFloor == 0 {
		config.Agents.MoodAlertFloor = 3.0
	}

	return config, nil
}
