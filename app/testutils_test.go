package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ogcamping/console/internal/blogservice"
	"github.com/ogcamping/console/internal/cartservice"
	"github.com/ogcamping/console/internal/chatservice"
	"github.com/ogcamping/console/internal/common"
	"github.com/ogcamping/console/internal/userservice"
	"github.com/sashabaranov/go-openai"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

// fakeBackend serves the blog REST contract from memory. Tokens starting
// with "expired" are refused.
type fakeBackend struct {
	mu    sync.Mutex
	blogs map[int64]blogservice.Blog
	order []int64
}

func newFakeBackend(t *testing.T, blogs ...blogservice.Blog) (*fakeBackend, *blogservice.Client) {
	t.Helper()

	fb := &fakeBackend{blogs: make(map[int64]blogservice.Blog)}
	for _, b := range blogs {
		fb.blogs[b.ID] = b
		fb.order = append(fb.order, b.ID)
	}

	srv := httptest.NewServer(fb.routes())
	t.Cleanup(srv.Close)

	return fb, blogservice.NewClient(srv.URL, 5*time.Second, common.NewCache(time.Minute, time.Minute))
}

func (fb *fakeBackend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /blogs/staff/all", fb.list)
	mux.HandleFunc("GET /blogs/admin", fb.list)
	mux.HandleFunc("GET /blogs/public", fb.list)
	mux.HandleFunc("GET /blogs/staff/{id}", fb.get)
	mux.HandleFunc("GET /blogs/admin/{id}", fb.get)
	mux.HandleFunc("GET /blogs/public/{id}", fb.get)
	mux.HandleFunc("PUT /blogs/staff/{id}/submit", fb.transition(blogservice.ActionSubmit))
	mux.HandleFunc("POST /blogs/admin/{id}/publish", fb.transition(blogservice.ActionPublish))
	mux.HandleFunc("POST /blogs/admin/{id}/unpublish", fb.transition(blogservice.ActionUnpublish))
	mux.HandleFunc("POST /blogs/admin/{id}/reject", fb.transition(blogservice.ActionReject))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.Header.Get("Authorization"), "Bearer expired") {
			http.Error(w, "token expired", http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (fb *fakeBackend) list(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	out := make([]blogservice.Blog, 0, len(fb.order))
	for _, id := range fb.order {
		out = append(out, fb.blogs[id])
	}
	fb.mu.Unlock()

	json.NewEncoder(w).Encode(out)
}

func (fb *fakeBackend) lookup(w http.ResponseWriter, r *http.Request) (blogservice.Blog, bool) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	b, ok := fb.blogs[id]
	if !ok {
		http.Error(w, "Blog not found", http.StatusNotFound)
	}
	return b, ok
}

func (fb *fakeBackend) get(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if b, ok := fb.lookup(w, r); ok {
		json.NewEncoder(w).Encode(b)
	}
}

func (fb *fakeBackend) transition(action blogservice.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()

		b, ok := fb.lookup(w, r)
		if !ok {
			return
		}

		to, err := blogservice.Transition(b.Status, action)
		if err != nil {
			http.Error(w, "Invalid blog status", http.StatusBadRequest)
			return
		}

		b.Status = to
		b.RejectedReason = ""
		if action == blogservice.ActionReject {
			b.RejectedReason = r.URL.Query().Get("feedback")
		}
		fb.blogs[b.ID] = b

		json.NewEncoder(w).Encode(b)
	}
}

func (fb *fakeBackend) status(id int64) blogservice.Status {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.blogs[id].Status
}

type stubCompleter struct {
	answer string
}

func (s stubCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: s.answer}},
		},
	}, nil
}

func testConfig() *Config {
	return &Config{
		Environment:    "testing",
		Version:        "1.0.0",
		TrustedOrigins: []string{"http://localhost:3000"},
		ActionTimeout:  5 * time.Second,
		ReconnectDelay: time.Second,
		OpenAIModel:    openai.GPT4oMini,
	}
}

// newLocalApplication wires every service that runs without Postgres or a broker.
func newLocalApplication(t *testing.T, blogs ...blogservice.Blog) (*application, *fakeBackend) {
	logger := common.NewTestLogger()
	fb, client := newFakeBackend(t, blogs...)
	store := common.NewTestLocalStore(t, time.Hour)
	cfg := testConfig()

	app := &application{
		config: cfg,
		logger: logger,
		hub:    blogservice.NewHub(client, blogservice.HubConfig{ActionTimeout: cfg.ActionTimeout}, logger),
		public: blogservice.NewPublicReader(client, blogservice.NewRenderer("http://localhost:8080/images/")),
		carts:  cartservice.NewCartService(store),
		chat:   chatservice.NewChatService(stubCompleter{answer: "Bring a warm sleeping bag."}, store, cfg.OpenAIModel, time.Second),
		store:  store,
	}
	t.Cleanup(app.hub.CloseAll)

	return app, fb
}

// newTestApplication adds console sessions stored in a Postgres container.
func newTestApplication(t *testing.T, blogs ...blogservice.Blog) (*application, *fakeBackend, *sql.DB) {
	db := common.TestDB("file://../migrations", t)

	app, fb := newLocalApplication(t, blogs...)
	app.sessions = userservice.NewSessionService(db, common.NewCache(time.Minute, time.Minute))

	return app, fb, db
}

func (ts *testServer) do(t *testing.T, method, path string, token *string, payload any, headers map[string]string) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil, nil)
}

func (ts *testServer) post(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, token, payload, nil)
}

func (ts *testServer) put(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, token, payload, nil)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, token, nil, nil)
}

func strptr(s string) *string {
	return &s
}
