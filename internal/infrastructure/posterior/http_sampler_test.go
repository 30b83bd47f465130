package posterior

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSamplerSample(t *testing.T) {
	t.Parallel()

	var got sampleRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sample", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"samples": [[4.1, 0.12, 0.0, 90], [4.2, 0.11, 0.01, 85.5]]}`))
	}))
	defer server.Close()

	s := NewHTTPSampler(server.URL, "secret", 2, server.Client())
	assert.Equal(t, HTTPSamplerName, s.Name())

	draws, err := s.Sample(context.Background(), profile())
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.Equal(t, 4.2, draws[1].AOverRs)
	assert.Equal(t, 0.11, draws[1].CosI)
	assert.Equal(t, 0.01, draws[1].E)
	assert.Equal(t, 85.5, draws[1].Omega)

	assert.Equal(t, "HAT-P-7 b", got.Name)
	assert.Equal(t, 2, got.Draws)
	assert.Equal(t, 4.15, got.AOverRs.Value)
	assert.Equal(t, 2.0, got.Inclination.ErrUpper)
}

func TestHTTPSamplerStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "fit diverged", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewHTTPSampler(server.URL, "", 10, nil).Sample(context.Background(), profile())
	require.ErrorContains(t, err, "500")
}
