package ingest_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/jlambert/stancewatch/pkg/lifecycle"
	"github.com/jlambert/stancewatch/pkg/storage"
)

// memStore is an in-memory storage.System for tests.
type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	writes int
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		blobs:  make(map[string][]byte),
		failOn: make(map[string]error),
	}
}

func (m *memStore) Start(*lifecycle.Coordinator) error { return nil }

func (m *memStore) Write(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[key]; ok {
		return err
	}
	m.blobs[key] = append([]byte(nil), data...)
	m.writes++
	return nil
}

func (m *memStore) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok, nil
}

func (m *memStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for key := range m.blobs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) Append(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failOn[key]; ok {
		return err
	}
	m.blobs[key] = append(m.blobs[key], data...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
