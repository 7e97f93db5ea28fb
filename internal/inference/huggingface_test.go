package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"agrisense/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
	)
}

func newHF(t *testing.T, handler http.HandlerFunc) *HuggingFace {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHuggingFace(HuggingFaceConfig{
		BaseURL: srv.URL + "/models/",
		Model:   "google/flan-t5-large",
		Token:   "hf_test",
		Params:  Params{MaxNewTokens: 350, Temperature: 0.3},
		Timeout: 5 * time.Second,
	})
}

func TestHuggingFace_SendsFixedParameters(t *testing.T) {
	var got hfRequest
	hf := newHF(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/google/flan-t5-large", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`[{"generated_text":"{\"sowing_season\":\"June\"}"}]`))
	})

	text, err := hf.Generate(context.Background(), "Crop: Tomato")
	require.NoError(t, err)
	assert.Equal(t, `{"sowing_season":"June"}`, text)
	assert.Equal(t, "Crop: Tomato", got.Inputs)
	assert.Equal(t, 350, got.Parameters.MaxNewTokens)
	assert.InDelta(t, 0.3, got.Parameters.Temperature, 1e-9)
	assert.False(t, got.Parameters.ReturnFullText)
}

func TestHuggingFace_ResponseShapes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{"list", http.StatusOK, `[{"generated_text":"hello"}]`, "hello", false},
		{"object", http.StatusOK, `{"generated_text":"hello"}`, "hello", false},
		{"error with 200", http.StatusOK, `{"error":"model is loading"}`, "", true},
		{"empty list", http.StatusOK, `[]`, "", true},
		{"empty body", http.StatusOK, ``, "", true},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid credentials"}`, "", true},
		{"plain 500", http.StatusInternalServerError, `oops`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hf := newHF(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			text, err := hf.Generate(context.Background(), "p")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestHuggingFace_ContextCancelled(t *testing.T) {
	hf := newHF(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"generated_text":"late"}]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := hf.Generate(ctx, "p")
	assert.Error(t, err)
}

func TestNew_SelectsProvider(t *testing.T) {
	cfg := &config.Config{
		InferenceProvider: ProviderHuggingFace,
		HFInferenceURL:    "https://example.test/models",
		AIModel:           "m",
		HFToken:           "t",
		MaxNewTokens:      350,
		Temperature:       0.3,
	}
	g, err := New(context.Background(), cfg)
	require.NoError(t, err)
	hf, ok := g.(*HuggingFace)
	require.True(t, ok)
	assert.Equal(t, "https://example.test/models/m", hf.endpoint)

	cfg.InferenceProvider = "openai"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)

	cfg.InferenceProvider = ProviderGemini
	_, err = New(context.Background(), cfg)
	assert.Error(t, err, "gemini without an API key")
}
