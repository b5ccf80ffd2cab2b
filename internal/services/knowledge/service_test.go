package knowledge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/vestigo/internal/common"
)

func TestQuery_NotConfigured(t *testing.T) {
	service := NewService(&common.KnowledgeConfig{}, common.GetLogger())

	assert.False(t, service.Configured())

	_, err := service.Query(context.Background(), "topic", 5)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestQuery_ReturnsHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer kb-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"hits":[{"id":"1","title":"Positioning notes","content":"industrial automation positioning","score":0.92}]}`)
	}))
	defer server.Close()

	service := NewService(&common.KnowledgeConfig{
		APIKey:         "kb-key",
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
	}, common.GetLogger())

	response, err := service.Query(context.Background(), "automation", 5)
	require.NoError(t, err)
	require.Len(t, response.Hits, 1)
	assert.Equal(t, "Positioning notes", response.Hits[0].Title)
	assert.Equal(t, "automation", response.Topic)
}

func TestQuery_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	service := NewService(&common.KnowledgeConfig{
		APIKey:  "kb-key",
		BaseURL: server.URL,
	}, common.GetLogger())

	_, err := service.Query(context.Background(), "automation", 5)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
