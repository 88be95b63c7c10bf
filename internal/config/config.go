package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings holds the settings-panel toggles.
type Settings struct {
	DarkTheme        bool `toml:"dark_theme"`
	SoundAlerts      bool `toml:"sound_alerts"`
	MessagePreviews  bool `toml:"message_previews"`
	CallAlerts       bool `toml:"call_alerts"`
	ShowOnlineStatus bool `toml:"show_online_status"`
	ReadReceipts     bool `toml:"read_receipts"`
	Autostart        bool `toml:"autostart"`
	KeepHistory      bool `toml:"keep_history"`
}

// Config represents the global ~/.beseda/config.toml.
type Config struct {
	ServerURL      string   `toml:"server_url"`
	UserID         int64    `toml:"user_id"`
	DefaultProfile string   `toml:"default_profile"`
	Settings       Settings `toml:"settings"`
}

// Default returns the config used when no file exists yet: local
// fixture server, user 1, and the toggle defaults of the settings
// panel.
func Default() *Config {
	return &Config{
		ServerURL: "http://127.0.0.1:8480",
		UserID:    1,
		Settings: Settings{
			SoundAlerts:      true,
			MessagePreviews:  true,
			CallAlerts:       true,
			ShowOnlineStatus: true,
			ReadReceipts:     true,
			KeepHistory:      true,
		},
	}
}

// Load reads config from the given path. Returns an error if the file
// is missing; callers fall back to Default.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
