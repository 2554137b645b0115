package main

import (
	"bufio"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configFile     = ".uchiwarc"
	defaultBaseURL = "https://uchiwa.example/"
)

type Config struct {
	SaveDirectory string
	ExportName    string
	DataDirectory string
	FontDirectory string
	FontTimeout   time.Duration
	BaseURL       string
	Confirmations bool
}

func defaultConfig(homeDir string) *Config {
	dataDir := ""
	if homeDir != "" {
		dataDir = filepath.Join(homeDir, ".local", "share", "uchiwa")
	}
	return &Config{
		DataDirectory: dataDir,
		FontTimeout:   3 * time.Second,
		BaseURL:       defaultBaseURL,
		Confirmations: true,
	}
}

// loadConfig reads path, or ~/.uchiwarc when path is empty. A missing or
// unreadable file yields the defaults.
func loadConfig(path string) *Config {
	homeDir, _ := os.UserHomeDir()
	if path == "" {
		if homeDir == "" {
			return defaultConfig("")
		}
		path = filepath.Join(homeDir, configFile)
	}
	file, err := os.Open(path)
	if err != nil {
		return defaultConfig(homeDir)
	}
	defer file.Close()
	return parseConfig(file, homeDir)
}

func parseConfig(r io.Reader, homeDir string) *Config {
	config := defaultConfig(homeDir)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "exportname", "export_name":
			config.ExportName = filepath.Base(value)
		case "datadirectory", "data_directory", "datadir":
			config.DataDirectory = expandPath(value, homeDir)
		case "fontdirectory", "font_directory", "fontdir":
			config.FontDirectory = expandPath(value, homeDir)
		case "fonttimeout", "font_timeout":
			d, err := time.ParseDuration(value)
			if err != nil || d <= 0 {
				log.Printf("config: bad fonttimeout %q, keeping %v", value, config.FontTimeout)
				continue
			}
			config.FontTimeout = d
		case "baseurl", "base_url":
			config.BaseURL = value
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		}
	}

	return config
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}
