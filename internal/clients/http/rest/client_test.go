package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_DoRoundTripsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/things/7", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("quantity"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"doubled": in["value"] * 2})
	}))
	defer server.Close()

	client, err := New("things", server.URL+"/", server.Client())
	require.NoError(t, err)

	var out struct {
		Doubled int `json:"doubled"`
	}
	err = client.Do(context.Background(), http.MethodPost, "/api/things/7", url.Values{"quantity": {"2"}}, map[string]int{"value": 21}, &out)
	require.NoError(t, err)
	require.Equal(t, 42, out.Doubled)
}

func TestClient_DoReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Insufficient stock"}`))
	}))
	defer server.Close()

	client, err := New("things", server.URL, nil)
	require.NoError(t, err)

	err = client.Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.Error(t, err)
	require.True(t, IsStatus(err, http.StatusBadRequest))
	require.False(t, IsStatus(err, http.StatusNotFound))
	require.Contains(t, err.Error(), "Insufficient stock")
}

func TestNew_RequiresAbsoluteURL(t *testing.T) {
	_, err := New("things", " ", nil)
	require.Error(t, err)

	_, err = New("things", "localhost", nil)
	require.Error(t, err)
}
