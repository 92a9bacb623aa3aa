package service

import (
	"sync"

	"healthmon/internal/anomaly"
)

// trainedModel pairs a fitted detector with the method it was built from.
type trainedModel struct {
	detector anomaly.Detector
	method   string
}

// modelRegistry holds per-user trained ensembles. Training replaces the
// entry wholesale; reads are concurrent.
type modelRegistry struct {
	mu     sync.RWMutex
	models map[string]trainedModel
}

func newModelRegistry() *modelRegistry {
	return &modelRegistry{models: make(map[string]trainedModel)}
}

func (r *modelRegistry) get(userID string) (trainedModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[userID]
	return m, ok
}

func (r *modelRegistry) put(userID string, m trainedModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[userID] = m
}
