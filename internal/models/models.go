// Package models provides model and deployment listing for the configured endpoint.
package models

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/tnglemongrass/azurechat/internal/llm"
)

// Manager fetches and caches the list of available models or deployments.
type Manager struct {
	client *llm.Client

	mu     sync.Mutex
	cached []llm.ModelInfo
}

// NewManager creates a Manager backed by the given client's endpoint.
func NewManager(client *llm.Client) *Manager {
	return &Manager{client: client}
}

// List returns the available models, fetching from the API if not cached.
func (m *Manager) List() ([]llm.ModelInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil {
		return m.cached, nil
	}

	req, err := http.NewRequest(http.MethodGet, m.client.ModelsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	m.client.Authorize(req)

	resp, err := m.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []llm.ModelInfo `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}

	m.cached = result.Data
	return m.cached, nil
}

// Invalidate clears the cached model list.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = nil
}

// Has returns true if the given model ID is in the list of available models.
func (m *Manager) Has(modelID string) (bool, error) {
	list, err := m.List()
	if err != nil {
		return false, err
	}
	for _, model := range list {
		if model.ID == modelID {
			return true, nil
		}
	}
	return false, nil
}
