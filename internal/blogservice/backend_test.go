package blogservice

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/ogcamping/console/internal/common"
)

// fakeBackend serves the blog REST contract from memory.
type fakeBackend struct {
	mu     sync.Mutex
	blogs  map[int64]Blog
	nextID int64
	calls  []string
	// fail answers the given "METHOD path" with a status code.
	fail map[string]int
	// hold blocks every request until the channel is closed.
	hold chan struct{}
}

func newFakeBackend(t *testing.T) (*fakeBackend, *Client) {
	t.Helper()

	fb := &fakeBackend{
		blogs:  make(map[int64]Blog),
		nextID: 1,
		fail:   make(map[string]int),
	}

	srv := httptest.NewServer(fb.routes())
	t.Cleanup(srv.Close)

	return fb, NewClient(srv.URL, 5*time.Second, common.NewCache(time.Minute, time.Minute))
}

func (fb *fakeBackend) add(b Blog) Blog {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if b.ID == 0 {
		b.ID = fb.nextID
	}
	if b.ID >= fb.nextID {
		fb.nextID = b.ID + 1
	}
	if b.Type == "" {
		b.Type = TypeUser
	}
	fb.blogs[b.ID] = b
	return b
}

func (fb *fakeBackend) blog(id int64) Blog {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.blogs[id]
}

func (fb *fakeBackend) callCount() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.calls)
}

func (fb *fakeBackend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /blogs/staff/all", fb.list(nil))
	mux.HandleFunc("GET /blogs/admin", fb.list(nil))
	mux.HandleFunc("GET /blogs/public", fb.list(func(b Blog) bool { return b.Status == StatusPublished }))
	mux.HandleFunc("GET /blogs/staff/{id}", fb.get)
	mux.HandleFunc("GET /blogs/admin/{id}", fb.get)
	mux.HandleFunc("GET /blogs/public/{id}", fb.get)
	mux.HandleFunc("POST /blogs/staff/create", fb.create)
	mux.HandleFunc("PUT /blogs/staff/{id}", fb.update)
	mux.HandleFunc("DELETE /blogs/staff/{id}", fb.delete)
	mux.HandleFunc("PUT /blogs/staff/{id}/submit", fb.transition(ActionSubmit))
	mux.HandleFunc("POST /blogs/admin/{id}/publish", fb.transition(ActionPublish))
	mux.HandleFunc("POST /blogs/admin/{id}/unpublish", fb.transition(ActionUnpublish))
	mux.HandleFunc("POST /blogs/admin/{id}/reject", fb.transition(ActionReject))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.calls = append(fb.calls, r.Method+" "+r.URL.Path)
		code, failing := fb.fail[r.Method+" "+r.URL.Path]
		hold := fb.hold
		fb.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		if r.Header.Get("Authorization") == "Bearer expired" {
			http.Error(w, "token expired", http.StatusUnauthorized)
			return
		}

		if failing {
			http.Error(w, "Blog is not in a valid state", code)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func writeBlogJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (fb *fakeBackend) list(keep func(Blog) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		out := []Blog{}
		for id := int64(1); id < fb.nextID; id++ {
			b, ok := fb.blogs[id]
			if ok && (keep == nil || keep(b)) {
				out = append(out, b)
			}
		}
		fb.mu.Unlock()

		writeBlogJSON(w, http.StatusOK, out)
	}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func (fb *fakeBackend) get(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	b, ok := fb.blogs[pathID(r)]
	fb.mu.Unlock()

	if !ok {
		http.Error(w, "Blog not found", http.StatusNotFound)
		return
	}
	writeBlogJSON(w, http.StatusOK, b)
}

func (fb *fakeBackend) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b := Blog{
		Title:     r.FormValue("title"),
		Content:   r.FormValue("content"),
		Status:    StatusDraft,
		CreatedBy: Author{ID: 7, Email: "lan@ogcamping.vn", Name: "Lan"},
		CreatedAt: time.Now().UTC(),
	}
	if name := r.FormValue("locationName"); name != "" {
		b.Location = &Location{Name: name, Description: r.FormValue("locationDescription")}
	}
	if _, header, err := r.FormFile("thumbnail"); err == nil {
		b.Media = MediaRef{Kind: MediaFilename, Name: header.Filename}
	}

	writeBlogJSON(w, http.StatusCreated, fb.add(b))
}

func (fb *fakeBackend) update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	b, ok := fb.blogs[pathID(r)]
	if !ok {
		http.Error(w, "Blog not found", http.StatusNotFound)
		return
	}
	b.Title = r.FormValue("title")
	b.Content = r.FormValue("content")
	fb.blogs[b.ID] = b

	writeBlogJSON(w, http.StatusOK, b)
}

func (fb *fakeBackend) delete(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	delete(fb.blogs, pathID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (fb *fakeBackend) transition(action Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()

		b, ok := fb.blogs[pathID(r)]
		if !ok {
			http.Error(w, "Blog not found", http.StatusNotFound)
			return
		}

		to, err := Transition(b.Status, action)
		if err != nil {
			http.Error(w, "Blog is not in a valid state", http.StatusConflict)
			return
		}

		b.Status = to
		switch action {
		case ActionReject:
			b.RejectedReason = r.URL.Query().Get("feedback")
		case ActionSubmit:
			b.RejectedReason = ""
		}
		fb.blogs[b.ID] = b

		if action == ActionSubmit {
			w.Write([]byte("Blog submitted for review"))
			return
		}
		writeBlogJSON(w, http.StatusOK, b)
	}
}

func blogMessage(t *testing.T, id string, b Blog) common.Message {
	t.Helper()

	body, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	return common.Message{ID: id, Body: body}
}
