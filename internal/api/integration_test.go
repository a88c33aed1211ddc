package api

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendplus-backend/internal/gateway"
	"rendplus-backend/internal/notification"
)

// fakePushBackend stands in for both halves of the push platform: the OAuth
// token endpoint and the message send endpoint.
type fakePushBackend struct {
	mu        sync.Mutex
	exchanges int
	sends     [][]byte

	server *httptest.Server
}

func newFakePushBackend(t *testing.T) *fakePushBackend {
	t.Helper()
	b := &fakePushBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.exchanges++
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "test-bearer", "expires_in": 3600})
	})
	mux.HandleFunc("/v1/projects/test-project/messages:send", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-bearer" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.sends = append(b.sends, body)
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"name": "projects/test-project/messages/1"})
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakePushBackend) sentBodies() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.sends))
	for i, s := range b.sends {
		out[i] = string(s)
	}
	return out
}

func testServiceAccount(t *testing.T) *gateway.ServiceAccount {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	return &gateway.ServiceAccount{
		ProjectID:   "test-project",
		ClientEmail: "svc@test-project.iam.example.com",
		PrivateKey:  string(keyPEM),
	}
}

// TestQuoteSubmissionDeliversNotification walks the full pipeline: an admin
// registers a device over the API, a visitor submits a quote, and the fake
// push backend receives one message carrying the visitor's name.
func TestQuoteSubmissionDeliversNotification(t *testing.T) {
	backend := newFakePushBackend(t)

	exchanger, err := gateway.NewExchanger(
		testServiceAccount(t),
		backend.server.URL+"/token",
		"https://www.googleapis.com/auth/cloud-platform",
		time.Hour,
		backend.server.Client(),
	)
	require.NoError(t, err)

	s := newTestStore(t)
	sender := gateway.NewHTTPSender("test-project", backend.server.URL, 5*time.Second)
	dispatcher := notification.NewDispatcher(s, exchanger, sender)
	router := NewRouter(s, dispatcher, testConfig())

	w := doJSON(router, "PUT", "/api/notifications/device", gin.H{"token": "device-tok-1"}, asAdmin("admin-1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/api/quotes", gin.H{
		"user_name":           "Jane Doe",
		"user_email":          "jane@example.com",
		"service_type":        "3d-rendering",
		"project_description": "Exterior render of a two-story house.",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["notified"])
	assert.NotContains(t, resp, "warning")

	bodies := backend.sentBodies()
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], `"device-tok-1"`)
	assert.Contains(t, bodies[0], "New Quote Submission")
	assert.Contains(t, bodies[0], "Jane Doe has submitted a new quote.")
}

// TestQuoteWithoutDevicesSkipsGateway confirms an empty registry never costs
// a credential exchange.
func TestQuoteWithoutDevicesSkipsGateway(t *testing.T) {
	backend := newFakePushBackend(t)

	exchanger, err := gateway.NewExchanger(
		testServiceAccount(t),
		backend.server.URL+"/token",
		"https://www.googleapis.com/auth/cloud-platform",
		time.Hour,
		backend.server.Client(),
	)
	require.NoError(t, err)

	s := newTestStore(t)
	sender := gateway.NewHTTPSender("test-project", backend.server.URL, 5*time.Second)
	router := NewRouter(s, notification.NewDispatcher(s, exchanger, sender), testConfig())

	w := doJSON(router, "POST", "/api/quotes", gin.H{
		"user_name":           "Jane Doe",
		"user_email":          "jane@example.com",
		"service_type":        "3d-rendering",
		"project_description": "Exterior render.",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 0, resp["notified"])

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Zero(t, backend.exchanges)
	assert.Empty(t, backend.sends)
}
