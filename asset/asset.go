package asset

import (
	"embed"
	"fmt"
)

//go:embed text/*
var assets embed.FS

// Manager manages the loading of embedded assets.
type Manager struct{}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{}
}

// GetText loads and returns embedded text asset by name.
func (am *Manager) GetText(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("text asset name is empty")
	}
	textBytes, err := assets.ReadFile("text/" + name)
	if err != nil {
		return "", fmt.Errorf("loading text asset %s: %w", name, err)
	}
	return string(textBytes), nil
}

// ListText returns the names of the embedded text assets.
func (am *Manager) ListText() ([]string, error) {
	entries, err := assets.ReadDir("text")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
