package config

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.ServerURL = "http://backend.internal:9000"
	cfg.UserID = 7
	cfg.DefaultProfile = "work"
	cfg.Settings.DarkTheme = true
	cfg.Settings.MessagePreviews = false

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.ServerURL != cfg.ServerURL {
		t.Errorf("server_url = %q, want %q", got.ServerURL, cfg.ServerURL)
	}
	if got.UserID != 7 {
		t.Errorf("user_id = %d, want 7", got.UserID)
	}
	if got.DefaultProfile != "work" {
		t.Errorf("default_profile = %q, want work", got.DefaultProfile)
	}
	if !got.Settings.DarkTheme {
		t.Error("dark_theme not preserved")
	}
	if got.Settings.MessagePreviews {
		t.Error("message_previews = true, want false")
	}
	if !got.Settings.SoundAlerts {
		t.Error("sound_alerts default not preserved")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultToggles(t *testing.T) {
	cfg := Default()
	if cfg.Settings.DarkTheme {
		t.Error("dark_theme should default off")
	}
	if !cfg.Settings.MessagePreviews || !cfg.Settings.CallAlerts {
		t.Error("notification toggles should default on")
	}
	if cfg.UserID != 1 {
		t.Errorf("user_id = %d, want 1", cfg.UserID)
	}
}
