package shared

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContext(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))

	rc := &RequestContext{RequestID: "abc", ClientIP: "10.0.0.1", Start: time.Now()}
	ctx := WithRequestContext(context.Background(), rc)

	got, ok := GetRequestContext(ctx)
	require.True(t, ok)
	assert.Same(t, rc, got)
	assert.Equal(t, "abc", GetRequestID(ctx))
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{
			name:       "direct connection wins over headers",
			remoteAddr: "192.0.2.10:5555",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			expected:   "192.0.2.10",
		},
		{
			name:       "first forwarded entry",
			remoteAddr: "",
			headers:    map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"},
			expected:   "203.0.113.7",
		},
		{
			name:       "real ip header",
			remoteAddr: "",
			headers:    map[string]string{"X-Real-IP": "198.51.100.4"},
			expected:   "198.51.100.4",
		},
		{
			name:       "nothing known",
			remoteAddr: "",
			expected:   UnknownClient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/tasks", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, ClientIP(req))
		})
	}
}
