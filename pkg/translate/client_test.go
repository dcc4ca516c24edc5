package translate

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

func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Please unplug the TV first.", req["text"])

		json.NewEncoder(w).Encode(map[string]string{"translated_text": "7eyyed l prise men TV 9bel kolchi."})
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	out, err := client.Translate(context.Background(), "Please unplug the TV first.")
	require.NoError(t, err)
	assert.Equal(t, "7eyyed l prise men TV 9bel kolchi.", out)
}

func TestTranslateEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"translated_text": ""})
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	_, err := client.Translate(context.Background(), "hello")
	assert.Error(t, err, "an empty translation is a failure, not a silent blank reply")
}

func TestTranslateUnconfigured(t *testing.T) {
	client := NewClient("", 0)
	_, err := client.Translate(context.Background(), "hello")
	assert.Error(t, err)
}
