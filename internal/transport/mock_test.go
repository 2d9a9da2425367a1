package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClientReplaysInOrder(t *testing.T) {
	mock := NewMockClient()
	mock.AddJSONResponse(200, `{"first":true}`)
	mock.AddResponse(Response{StatusCode: 404, Body: "missing"})

	ctx := context.Background()

	resp, err := Get(ctx, mock, "https://example.com/a", Headers{"Authorization": "Bearer x"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `{"first":true}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers.Get("content-type"))

	resp, err = Post(ctx, mock, "https://example.com/b", nil, `{"x":1}`)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	requests := mock.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, MethodGet, requests[0].Method)
	assert.Equal(t, "https://example.com/a", requests[0].URL)
	assert.Equal(t, "Bearer x", requests[0].Headers["Authorization"])
	assert.Equal(t, MethodPost, requests[1].Method)
	assert.Equal(t, `{"x":1}`, requests[1].Body)
	assert.Equal(t, 0, mock.Pending())
}

func TestMockClientExhausted(t *testing.T) {
	mock := NewMockClient()

	_, err := Delete(context.Background(), mock, "https://example.com/x", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMoreResponses))
	assert.Equal(t, 1, mock.RequestCount(), "requests are recorded even when nothing is queued")
}

func TestMockClientQueuedError(t *testing.T) {
	mock := NewMockClient()
	queued := &TransportError{Op: "dial", Err: errors.New("connection refused")}
	mock.AddError(queued)

	_, err := Put(context.Background(), mock, "https://example.com/x", nil, "{}")

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "dial", transportErr.Op)
}

func TestMockClientRecordsCopies(t *testing.T) {
	mock := NewMockClient()
	mock.AddJSONResponse(200, "{}")

	headers := Headers{"X-Test": "before"}
	_, err := Get(context.Background(), mock, "https://example.com", headers)
	require.NoError(t, err)

	headers["X-Test"] = "after"
	assert.Equal(t, "before", mock.LastRequest().Headers["X-Test"])
}

func TestMockClientReset(t *testing.T) {
	mock := NewMockClient()
	mock.AddJSONResponse(200, "{}")
	_, _ = Get(context.Background(), mock, "https://example.com", nil)
	mock.AddJSONResponse(200, "{}")

	mock.Reset()

	assert.Equal(t, 0, mock.RequestCount())
	assert.Equal(t, 0, mock.Pending())
	assert.Nil(t, mock.LastRequest())
}

func TestHeadersGet(t *testing.T) {
	headers := Headers{"Content-Type": "text/plain", "x-lower": "yes"}

	assert.Equal(t, "text/plain", headers.Get("Content-Type"))
	assert.Equal(t, "text/plain", headers.Get("content-type"))
	assert.Equal(t, "yes", headers.Get("X-Lower"))
	assert.Equal(t, "", headers.Get("Missing"))
	assert.Equal(t, "", Headers(nil).Get("Missing"))
}
