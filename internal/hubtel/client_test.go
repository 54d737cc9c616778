package hubtel

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestSendsBasicAuthAndJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("api-id:api-key"))
		assert.Equal(t, want, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "/"+InitiatePath, r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"Success","data":{"checkoutUrl":"https://pay/x"}}`))
	}))
	defer srv.Close()

	client := NewClient("api-id", "api-key", srv.URL, false)
	resp, err := client.Request(context.Background(), InitiatePath, http.MethodPost, InvoicePayload{TotalAmount: "50"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	parsed, ok := DecodeInitiate(resp.Body)
	require.True(t, ok)
	assert.Equal(t, StatusSuccess, parsed.Status)
	assert.Equal(t, "https://pay/x", parsed.Data.CheckoutURL)
}

func TestRequestNonJSONBodyIsTransportSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream unhappy</html>"))
	}))
	defer srv.Close()

	client := NewClient("api-id", "api-key", srv.URL, false)
	resp, err := client.Request(context.Background(), InitiatePath, http.MethodPost, nil)
	require.NoError(t, err, "a delivered response is transport success regardless of status")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	_, ok := DecodeInitiate(resp.Body)
	assert.False(t, ok)
}

func TestRequestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient("api-id", "api-key", srv.URL, false)
	resp, err := client.Request(context.Background(), InitiatePath, http.MethodPost, nil)
	require.Error(t, err)
	assert.Nil(t, resp)
}
