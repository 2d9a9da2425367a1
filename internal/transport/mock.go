package transport

import (
	"context"
	"fmt"
	"sync"
)

type mockResult struct {
	response *Response
	err      error
}

// MockClient records every request and replays queued results in order.
type MockClient struct {
	mu       sync.Mutex
	queue    []mockResult
	requests []Request
}

// NewMockClient creates an empty mock client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// AddResponse queues a response
func (m *MockClient) AddResponse(resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockResult{response: &resp})
}

// AddJSONResponse queues a response with a JSON content type
func (m *MockClient) AddJSONResponse(statusCode int, body string) {
	m.AddResponse(Response{
		StatusCode: statusCode,
		Headers:    Headers{"Content-Type": "application/json"},
		Body:       body,
	})
}

// AddError queues an error
func (m *MockClient) AddError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockResult{err: err})
}

// Execute records req and returns the next queued result.
func (m *MockClient) Execute(ctx context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recorded := *req
	recorded.Headers = req.Headers.Clone()
	m.requests = append(m.requests, recorded)

	if len(m.queue) == 0 {
		return nil, fmt.Errorf("%w (request %d: %s %s)", ErrNoMoreResponses, len(m.requests), req.Method, req.URL)
	}

	next := m.queue[0]
	m.queue = m.queue[1:]
	if next.err != nil {
		return nil, next.err
	}

	resp := *next.response
	resp.Headers = next.response.Headers.Clone()
	return &resp, nil
}

// Requests returns a copy of the recorded requests
func (m *MockClient) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount returns the number of recorded requests
func (m *MockClient) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the most recent request, or nil if none was made
func (m *MockClient) LastRequest() *Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	req := m.requests[len(m.requests)-1]
	return &req
}

// Pending returns the number of queued results not yet consumed
func (m *MockClient) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Reset clears recorded requests and queued results
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = nil
	m.requests = nil
}
