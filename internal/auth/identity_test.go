package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeGoTrue(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var creds credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		switch {
		case creds.Email == "farmer@example.com" && creds.Password == "pw":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "at-123",
				"token_type":   "bearer",
				"expires_in":   3600,
				"user":         map[string]string{"id": "u-1", "email": creds.Email},
			})
		case creds.Email == "empty@example.com":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"user": nil})
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
		}
	})

	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var creds credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Email == "taken@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-2","email":"` + creds.Email + `"}`))
	})

	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"msg":"invalid JWT"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1","email":"farmer@example.com"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSupabaseClient_SignIn(t *testing.T) {
	srv := newFakeGoTrue(t)
	client := NewSupabaseClient(SupabaseConfig{URL: srv.URL + "/", APIKey: "anon-key"})

	sess, err := client.SignIn(context.Background(), "farmer@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "at-123", sess.AccessToken)
	assert.Equal(t, "u-1", sess.User.ID)

	_, err = client.SignIn(context.Background(), "farmer@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_grant", apiErr.Code)
	assert.Equal(t, "Invalid login credentials", apiErr.Message)

	_, err = client.SignIn(context.Background(), "empty@example.com", "pw")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSupabaseClient_SignUp(t *testing.T) {
	srv := newFakeGoTrue(t)
	client := NewSupabaseClient(SupabaseConfig{URL: srv.URL, APIKey: "anon-key"})

	require.NoError(t, client.SignUp(context.Background(), "new@example.com", "pw"))

	err := client.SignUp(context.Background(), "taken@example.com", "pw")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "user_already_exists", apiErr.Code)
	assert.Equal(t, "User already registered", apiErr.Message)
}

func TestSupabaseClient_GetUser(t *testing.T) {
	srv := newFakeGoTrue(t)
	client := NewSupabaseClient(SupabaseConfig{URL: srv.URL, APIKey: "anon-key"})

	user, err := client.GetUser(context.Background(), "at-123")
	require.NoError(t, err)
	assert.Equal(t, "farmer@example.com", user.Email)

	_, err = client.GetUser(context.Background(), "stale")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestParseAPIError_PlainBody(t *testing.T) {
	apiErr := parseAPIError(http.StatusBadGateway, []byte("upstream down"))
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "502")
}
