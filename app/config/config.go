package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"CourtPrint/app/security"
)

// AppConfig holds all agent configuration
type AppConfig struct {
	Establishment EstablishmentConfig `json:"establishment"`
	Server        ServerConfig        `json:"server"`
	Printing      PrintingConfig      `json:"printing"`
	FirstRun      bool                `json:"first_run"`
}

// EstablishmentConfig identifies the venue this agent prints for
type EstablishmentConfig struct {
	Name             string `json:"name"`
	EstablishmentURL string `json:"establishment_url"`
	ReviewURL        string `json:"review_url"`
}

// ServerConfig holds the job-intake server settings
type ServerConfig struct {
	WSPort int `json:"ws_port"`
	// AgentKey authenticates platform clients; stored encrypted on disk
	AgentKey string `json:"agent_key"`
}

// PrintingConfig holds printing defaults applied when a printer has no
// explicit configuration of its own
type PrintingConfig struct {
	PaperWidth     int `json:"paper_width"` // mm
	QRModuleSize   int `json:"qr_module_size"`
	TimeoutSeconds int `json:"timeout_seconds"`
}

// DefaultConfig returns the configuration written on first run
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{WSPort: 8093},
		Printing: PrintingConfig{
			PaperWidth:     80,
			QRModuleSize:   4,
			TimeoutSeconds: 10,
		},
		FirstRun: true,
	}
}

// GetConfigDir returns the per-user directory holding agent state
func GetConfigDir() (string, error) {
	base := os.Getenv("APPDATA")
	if base == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		base = filepath.Join(homeDir, ".local", "share")
	}

	configDir := filepath.Join(base, "CourtPrint")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory: %w", err)
	}
	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig loads configuration from config.json and decrypts the
// agent key
func LoadConfig() (*AppConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	if cfg.Server.AgentKey != "" {
		decrypted, err := security.Decrypt(cfg.Server.AgentKey)
		if err != nil {
			return nil, fmt.Errorf("could not decrypt agent key: %w", err)
		}
		cfg.Server.AgentKey = decrypted
	}

	return &cfg, nil
}

// SaveConfig saves configuration to config.json, encrypting the agent
// key before it touches disk
func SaveConfig(cfg *AppConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	toSave := *cfg
	if toSave.Server.AgentKey != "" {
		encrypted, err := security.Encrypt(toSave.Server.AgentKey)
		if err != nil {
			return fmt.Errorf("could not encrypt agent key: %w", err)
		}
		toSave.Server.AgentKey = encrypted
	}

	data, err := json.MarshalIndent(&toSave, "", "  ")
	if err != nil {
		return fmt.Errorf("could not serialize config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("could not write config file: %w", err)
	}
	return nil
}

// LoadOrCreate loads the existing configuration or writes the defaults
// on first run
func LoadOrCreate() (*AppConfig, error) {
	cfg, err := LoadConfig()
	if err == nil {
		return cfg, nil
	}

	cfg = DefaultConfig()
	if saveErr := SaveConfig(cfg); saveErr != nil {
		return nil, saveErr
	}
	return cfg, nil
}
