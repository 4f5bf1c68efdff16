package server

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songbot/handlers"
	"songbot/metrics"
	"songbot/songs"
)

type noSongs struct{}

func (noSongs) Resolve(_ context.Context, url string) songs.Result {
	return songs.Result{URL: url, Err: songs.ErrNoSupportedPlatforms}
}

func (noSongs) ResolveText(context.Context, string) []songs.Result { return nil }

type testServer struct {
	router *gin.Engine
	key    ed25519.PrivateKey
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	m := metrics.New()
	manager := handlers.NewManager("app", hex.EncodeToString(pub), noSongs{}, handlers.NewHints(0), m)
	return &testServer{
		router: NewRouter(Options{Interactions: manager, Metrics: m.Handler()}),
		key:    priv,
	}
}

func (s *testServer) post(t *testing.T, body string, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	timestamp := "1700000000"
	req := httptest.NewRequest(http.MethodPost, "/discord/interactions", bytes.NewBufferString(body))
	req.Header.Set("X-Signature-Timestamp", timestamp)
	if sign {
		sig := ed25519.Sign(s.key, []byte(timestamp+body))
		req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
	} else {
		req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(make([]byte, ed25519.SignatureSize)))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestInteractionsPing(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, `{"id":"1","type":1,"token":"t"}`, true)
	require.Equal(t, http.StatusOK, w.Code)

	var resp discordgo.InteractionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, discordgo.InteractionResponsePong, resp.Type)
}

func TestInteractionsImmediateCommand(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, `{"id":"1","type":2,"token":"t","data":{"id":"9","name":"ping","type":1}}`, true)
	require.Equal(t, http.StatusOK, w.Code)

	var resp discordgo.InteractionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	require.NotNil(t, resp.Data)
	assert.Contains(t, resp.Data.Content, "Pong!")
}

func TestInteractionsRejectsBadSignature(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, `{"id":"1","type":1,"token":"t"}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInteractionsRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)

	w := s.post(t, `{"type":`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaticRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path     string
		contains string
	}{
		{"/healthz", `"status":"ok"`},
		{"/privacy", "Privacy Policy"},
		{"/terms", "Terms of Service"},
		{"/metrics", "songbot_interactions_total"},
	}
	// the interactions counter only shows up once it has a label value
	s.post(t, `{"id":"1","type":2,"token":"t","data":{"id":"9","name":"ping","type":1}}`, true)

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestGatewayModeHasNoInteractionsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(Options{})

	req := httptest.NewRequest(http.MethodPost, "/discord/interactions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler()) }()

	cancel()
	assert.NoError(t, <-done)
}
