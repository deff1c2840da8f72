// Package llmtest provides a scriptable llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/internship-matcher/internal/llm"
)

// MockClient implements llm.Client for testing. Unset funcs return empty results.
type MockClient struct {
	GenerateContentFunc func(ctx context.Context, req llm.Request) (string, error)
	GenerateJSONFunc    func(ctx context.Context, req llm.Request) (string, error)

	mu       sync.Mutex
	requests []llm.Request
}

// GenerateContent records req and delegates to GenerateContentFunc.
func (m *MockClient) GenerateContent(ctx context.Context, req llm.Request) (string, error) {
	m.record(req)
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, req)
	}
	return "", nil
}

// GenerateJSON records req and delegates to GenerateJSONFunc.
func (m *MockClient) GenerateJSON(ctx context.Context, req llm.Request) (string, error) {
	m.record(req)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, req)
	}
	return "{}", nil
}

// GetModel returns a fixed model name.
func (m *MockClient) GetModel(_ llm.ModelTier) string {
	return "mock-model"
}

// Close does nothing.
func (m *MockClient) Close() error {
	return nil
}

// Requests returns a copy of every request received so far.
func (m *MockClient) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns the number of requests received.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockClient) record(req llm.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
}

// Returning builds a MockClient whose GenerateJSON always returns response.
func Returning(response string) *MockClient {
	return &MockClient{
		GenerateJSONFunc: func(_ context.Context, _ llm.Request) (string, error) {
			return response, nil
		},
	}
}

// Failing builds a MockClient whose GenerateJSON always returns err.
func Failing(err error) *MockClient {
	return &MockClient{
		GenerateJSONFunc: func(_ context.Context, _ llm.Request) (string, error) {
			return "", err
		},
	}
}
