package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oneconcern/geomon/pkg/errors"
	"github.com/oneconcern/geomon/pkg/rest/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRoundTrip(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		var args map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&args))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"echo":    args["ping"],
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, WithToken("secret-token"))
	require.NoError(t, err)

	var result struct {
		Echo string `json:"echo"`
	}
	err = client.PostJSON(context.Background(), "/versions/list", map[string]string{"ping": "pong"}, &result)
	require.NoError(t, err)
	assert.Equal(t, "pong", result.Echo)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "/versions/list", gotPath)
}

func TestClientTokenProvider(t *testing.T) {
	// the provider is consulted on every round trip, so rotated credentials
	// reach the wire without rebuilding the client
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	tokens := []string{"token-one", "token-two"}
	var calls int
	client, err := NewClient(server.URL, WithTokenProvider(func() string {
		token := tokens[calls%len(tokens)]
		calls++
		return token
	}))
	require.NoError(t, err)

	require.NoError(t, client.PostJSON(context.Background(), "/versions/list", nil, nil))
	require.NoError(t, client.PostJSON(context.Background(), "/versions/list", nil, nil))
	assert.Equal(t, []string{"Bearer token-one", "Bearer token-two"}, gotAuth)
}

func TestClientCustomHTTPClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	var rounds int
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		rounds++
		return http.DefaultTransport.RoundTrip(req)
	})}
	client, err := NewClient(server.URL, WithHTTPClient(hc))
	require.NoError(t, err)

	require.NoError(t, client.PostJSON(context.Background(), "/versions/list", nil, nil))
	assert.Equal(t, 1, rounds)
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestClientEmbeddedFailure(t *testing.T) {
	// failures embedded in a 200 answer must surface as *APIError
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]interface{}{"code": 423, "message": "version lock held"},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	err = client.PostJSON(context.Background(), "/versions/x/startEditing", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 423, apiErr.Code)
	assert.Equal(t, "version lock held", apiErr.Message)
}

func TestClientHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "route unknown", http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	err = client.PostJSON(context.Background(), "/nowhere", nil, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Equal(t, "route unknown", apiErr.Message)
}

func TestClientNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections from now on

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	err = client.PostJSON(context.Background(), "/versions", nil, nil)
	assert.True(t, errors.Is(err, status.ErrNetwork))
}

func TestClientURLValidation(t *testing.T) {
	_, err := NewClient("not-a-url")
	assert.Error(t, err)
	_, err = NewClient("http://host.example:8080/base")
	assert.NoError(t, err)
}
