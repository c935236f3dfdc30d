package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config remembers the little state worth keeping between sessions.
type Config struct {
	BPM         float64 `json:"bpm"`
	LastProject string  `json:"lastProject"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "groovebox", "config.json")
}

func loadConfig() Config {
	var c Config
	path := configPath()
	if path == "" {
		return c
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	json.Unmarshal(data, &c)
	return c
}

func saveConfig(c Config) {
	path := configPath()
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(path, data, 0644)
}
