package blogservice

import (
	"sync"
)

const maxNotifications = 100

// Mutation is one state change applied by Store.Dispatch.
type Mutation interface {
	reduce(s *state) bool
}

type overlayEntry struct {
	blog    Blog
	front   bool
	removed bool
	// gen is the newest fetch started when the change was recorded.
	gen uint64
}

type state struct {
	blogs         []Blog
	loadErr       error
	processing    map[int64]bool
	notifications []Notification

	// started and applied are the generations of the newest fetch started
	// and the newest fetch whose result replaced the list.
	started uint64
	applied uint64
	pending map[uint64]bool

	// overlay records row changes made while any fetch is in flight. A
	// fetch result replays the entries recorded after it started.
	overlay []overlayEntry
}

// Store owns one console's list. Every write goes through Dispatch.
type Store struct {
	mu    sync.Mutex
	state state
}

func NewStore() *Store {
	return &Store{state: state{
		processing: make(map[int64]bool),
		pending:    make(map[uint64]bool),
	}}
}

// Dispatch applies m and reports whether it had an effect.
func (st *Store) Dispatch(m Mutation) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return m.reduce(&st.state)
}

// Snapshot is a copy of the store state, safe to use after the lock is released.
type Snapshot struct {
	Blogs         []Blog
	Loading       bool
	LoadErr       error
	Processing    map[int64]bool
	Notifications []Notification
}

func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()

	blogs := make([]Blog, len(st.state.blogs))
	for i, b := range st.state.blogs {
		blogs[i] = cloneBlog(b)
	}

	processing := make(map[int64]bool, len(st.state.processing))
	for id := range st.state.processing {
		processing[id] = true
	}

	return Snapshot{
		Blogs:         blogs,
		Loading:       len(st.state.pending) > 0,
		LoadErr:       st.state.loadErr,
		Processing:    processing,
		Notifications: append([]Notification(nil), st.state.notifications...),
	}
}

// Find returns a copy of the row with id.
func (st *Store) Find(id int64) (Blog, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if i := st.state.index(id); i >= 0 {
		return cloneBlog(st.state.blogs[i]), true
	}
	return Blog{}, false
}

func cloneBlog(b Blog) Blog {
	if b.Location != nil {
		loc := *b.Location
		b.Location = &loc
	}
	return b
}

func (s *state) index(id int64) int {
	for i := range s.blogs {
		if s.blogs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *state) remove(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.blogs = append(s.blogs[:i:i], s.blogs[i+1:]...)
	return true
}

// put replaces the row with the same id. With front, or when the row is
// new, the blog ends up first in the list.
func (s *state) put(b Blog, front bool) {
	i := s.index(b.ID)
	if i >= 0 && !front {
		s.blogs[i] = b
		return
	}
	if i >= 0 {
		s.remove(b.ID)
	}
	s.blogs = append([]Blog{b}, s.blogs...)
}

func (s *state) record(e overlayEntry) {
	if len(s.pending) > 0 {
		e.gen = s.started
		s.overlay = append(s.overlay, e)
	}
}

// prune drops the overlay entries no fetch still in flight can need.
func (s *state) prune() {
	if len(s.pending) == 0 {
		s.overlay = nil
		return
	}

	kept := s.overlay[:0]
	for _, e := range s.overlay {
		if e.gen > s.applied {
			kept = append(kept, e)
		}
	}
	s.overlay = kept
}

// StartLoad marks the start of a fetch and returns its generation. The
// result is dispatched as Loaded or LoadFailed carrying that generation.
func (st *Store) StartLoad() uint64 {
	var m loading
	st.Dispatch(&m)
	return m.gen
}

type loading struct {
	gen uint64
}

func (m *loading) reduce(s *state) bool {
	s.started++
	s.pending[s.started] = true
	m.gen = s.started
	return true
}

// Loaded replaces the list with the result of fetch Gen. A result older
// than the one already applied is dropped. Keep, when set, is the
// inclusion rule applied to the fetched rows.
type Loaded struct {
	Gen   uint64
	Blogs []Blog
	Keep  func(Blog) bool
}

func (m Loaded) reduce(s *state) bool {
	if !s.pending[m.Gen] {
		return false
	}
	delete(s.pending, m.Gen)

	if m.Gen < s.applied {
		s.prune()
		return false
	}

	blogs := make([]Blog, 0, len(m.Blogs))
	for _, b := range m.Blogs {
		if m.Keep == nil || m.Keep(b) {
			blogs = append(blogs, cloneBlog(b))
		}
	}
	s.blogs = blogs

	for _, e := range s.overlay {
		if e.gen < m.Gen {
			continue
		}
		if e.removed {
			s.remove(e.blog.ID)
			continue
		}
		s.put(e.blog, e.front)
	}

	s.applied = m.Gen
	s.loadErr = nil
	s.prune()
	return true
}

// LoadFailed ends fetch Gen and keeps the current list.
type LoadFailed struct {
	Gen uint64
	Err error
}

func (m LoadFailed) reduce(s *state) bool {
	if !s.pending[m.Gen] {
		return false
	}
	delete(s.pending, m.Gen)

	if m.Gen > s.applied {
		s.loadErr = m.Err
	}
	s.prune()
	return true
}

// Received merges a realtime event into the list. A delivery whose status
// and rejected reason equal the row already held is merged without a new
// notification. It reports whether a notification was appended.
type Received struct {
	Blog   Blog
	Front  bool
	Notice func(Blog) Notification
}

func (m Received) reduce(s *state) bool {
	duplicate := false
	if i := s.index(m.Blog.ID); i >= 0 {
		held := s.blogs[i]
		duplicate = held.Status == m.Blog.Status && held.RejectedReason == m.Blog.RejectedReason
	}

	blog := cloneBlog(m.Blog)
	s.put(blog, m.Front)
	s.record(overlayEntry{blog: blog, front: m.Front})

	if duplicate || m.Notice == nil {
		return false
	}

	s.notify(m.Notice(blog))
	return true
}

// Upserted stores the result of a local action. A new row goes first.
type Upserted struct {
	Blog Blog
}

func (m Upserted) reduce(s *state) bool {
	blog := cloneBlog(m.Blog)
	s.put(blog, false)
	s.record(overlayEntry{blog: blog})
	return true
}

type Removed struct {
	ID int64
}

func (m Removed) reduce(s *state) bool {
	s.record(overlayEntry{blog: Blog{ID: m.ID}, removed: true})
	return s.remove(m.ID)
}

// Started sets the processing flag of a row, it fails when the flag is
// already set.
type Started struct {
	ID int64
}

func (m Started) reduce(s *state) bool {
	if s.processing[m.ID] {
		return false
	}
	s.processing[m.ID] = true
	return true
}

type Finished struct {
	ID int64
}

func (m Finished) reduce(s *state) bool {
	if !s.processing[m.ID] {
		return false
	}
	delete(s.processing, m.ID)
	return true
}

type Notified struct {
	Notification Notification
}

func (m Notified) reduce(s *state) bool {
	s.notify(m.Notification)
	return true
}

func (s *state) notify(n Notification) {
	s.notifications = append(s.notifications, n)
	if over := len(s.notifications) - maxNotifications; over > 0 {
		s.notifications = append([]Notification(nil), s.notifications[over:]...)
	}
}

// Acknowledged dismisses one notification.
type Acknowledged struct {
	ID string
}

func (m Acknowledged) reduce(s *state) bool {
	for i, n := range s.notifications {
		if n.ID == m.ID {
			s.notifications = append(s.notifications[:i:i], s.notifications[i+1:]...)
			return true
		}
	}
	return false
}
