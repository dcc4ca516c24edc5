package dialect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/detect", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "wach rak mzyan", req["text"])

		json.NewEncoder(w).Encode(Detection{IsMatch: true, Confidence: 0.92})
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	detection, err := client.Detect(context.Background(), "wach rak mzyan")
	require.NoError(t, err)
	assert.True(t, detection.IsMatch)
	assert.InDelta(t, 0.92, detection.Confidence, 0.001)
}

func TestDetectServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	_, err := client.Detect(context.Background(), "wach")
	assert.Error(t, err)
}

func TestDetectUnconfigured(t *testing.T) {
	client := NewClient("", 0)
	_, err := client.Detect(context.Background(), "anything")
	assert.Error(t, err)
}
