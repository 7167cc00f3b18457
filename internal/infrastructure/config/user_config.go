package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// UserConfig represents user preferences stored in ~/.factory-planner/preferences.json
type UserConfig struct {
	// Preferred recipe id per product id, applied to every plan
	Selections map[string]string `json:"selections,omitempty"`
}

// UserConfigHandler manages loading and saving user preferences
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for the preferences file in the home directory
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".factory-planner", "preferences.json")), nil
}

// NewUserConfigHandlerAt creates a handler for an explicit preferences file
func NewUserConfigHandlerAt(configPath string) *UserConfigHandler {
	return &UserConfigHandler{configPath: configPath}
}

// Load reads the preferences from disk
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	// If file doesn't exist, return empty config
	if _, err := os.Stat(h.configPath); os.IsNotExist(err) {
		return &UserConfig{Selections: map[string]string{}}, nil
	}

	data, err := os.ReadFile(h.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	if config.Selections == nil {
		config.Selections = map[string]string{}
	}

	return &config, nil
}

// Save writes the preferences to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(h.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetSelection records the preferred recipe for a product
func (h *UserConfigHandler) SetSelection(productID, recipeID string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.Selections[productID] = recipeID
	return h.Save(config)
}

// ClearSelection forgets the preferred recipe for a product
func (h *UserConfigHandler) ClearSelection(productID string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	delete(config.Selections, productID)
	return h.Save(config)
}

// SortedProducts returns the product ids that have a preference, sorted
func (c *UserConfig) SortedProducts() []string {
	ids := make([]string, 0, len(c.Selections))
	for id := range c.Selections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetConfigPath returns the path to the preferences file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
