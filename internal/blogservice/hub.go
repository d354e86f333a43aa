package blogservice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ogcamping/console/internal/common"
	"github.com/ogcamping/console/internal/metrics"
)

type HubConfig struct {
	// AMQPURI is the broker of the realtime channel. Consoles run without
	// live updates when it is empty.
	AMQPURI        string
	ActionTimeout  time.Duration
	ReconnectDelay time.Duration
}

type liveConsole struct {
	staff  *StaffConsole
	admin  *AdminConsole
	cancel context.CancelFunc
	done   chan struct{}
}

// Hub keeps the open consoles of every session, each with its own realtime
// subscription.
type Hub struct {
	backend Backend
	cfg     HubConfig
	seen    *common.Cache
	logger  *slog.Logger

	// run drives a subscription until its context is cancelled.
	run func(ctx context.Context, sub *common.Subscription)

	mu    sync.Mutex
	staff map[string]*liveConsole
	admin map[string]*liveConsole
}

func NewHub(backend Backend, cfg HubConfig, logger *slog.Logger) *Hub {
	return &Hub{
		backend: backend,
		cfg:     cfg,
		seen:    common.NewCache(10*time.Minute, 20*time.Minute),
		logger:  logger,
		run:     func(ctx context.Context, sub *common.Subscription) { sub.Run(ctx) },
		staff:   make(map[string]*liveConsole),
		admin:   make(map[string]*liveConsole),
	}
}

func (h *Hub) consoleConfig(session, token string) ConsoleConfig {
	return ConsoleConfig{
		Session: session,
		Token:   token,
		Timeout: h.cfg.ActionTimeout,
		Seen:    h.seen,
		Logger:  h.logger,
	}
}

// OpenStaff returns the staff console of session, opening it and fetching
// its list when needed. The list must belong to user.
func (h *Hub) OpenStaff(ctx context.Context, session, token, user string) (*StaffConsole, error) {
	if c, ok := h.Staff(session); ok {
		return c, nil
	}

	cfg := h.consoleConfig(session, token)
	cfg.User = user
	c := NewStaffConsole(h.backend, cfg)

	live := h.start("staff", c.Load, c.HandleEvent, common.UserBlogUpdatesKey(user))
	live.staff = c

	err := c.Load(ctx)
	if err == nil {
		err = c.checkOwner()
	}
	if err != nil {
		live.stop()
		metrics.ConsoleClosed("staff")
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.staff[session]; ok {
		live.stop()
		metrics.ConsoleClosed("staff")
		return existing.staff, nil
	}
	h.staff[session] = live

	return c, nil
}

// OpenAdmin returns the admin console of session, opening it when needed.
func (h *Hub) OpenAdmin(ctx context.Context, session, token string) (*AdminConsole, error) {
	if c, ok := h.Admin(session); ok {
		return c, nil
	}

	c := NewAdminConsole(h.backend, h.consoleConfig(session, token))

	live := h.start("admin", c.Load, c.HandleEvent, common.AdminBlogUpdatesKey)
	live.admin = c

	if err := c.Load(ctx); err != nil {
		live.stop()
		metrics.ConsoleClosed("admin")
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.admin[session]; ok {
		live.stop()
		metrics.ConsoleClosed("admin")
		return existing.admin, nil
	}
	h.admin[session] = live

	return c, nil
}

func (h *Hub) Staff(session string) (*StaffConsole, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	live, ok := h.staff[session]
	if !ok {
		return nil, false
	}
	return live.staff, true
}

func (h *Hub) Admin(session string) (*AdminConsole, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	live, ok := h.admin[session]
	if !ok {
		return nil, false
	}
	return live.admin, true
}

// start runs the subscription of a console until stop is called. The
// subscription starts before the first fetch and every connect fetches the
// list again, so events published before the queue was bound are not lost.
func (h *Hub) start(name string, reload func(context.Context) error, handle func(common.Message), key common.BindingKey) *liveConsole {
	ctx, cancel := context.WithCancel(context.Background())
	live := &liveConsole{cancel: cancel, done: make(chan struct{})}

	metrics.ConsoleOpened(name)

	if h.cfg.AMQPURI == "" {
		close(live.done)
		return live
	}

	sub := &common.Subscription{
		URI:      h.cfg.AMQPURI,
		Exchange: common.BlogExchange,
		Keys:     []common.BindingKey{key},
		Delay:    h.cfg.ReconnectDelay,
		Logger:   h.logger.With(slog.String("console", name)),
		Handler:  handle,
		OnConnect: func() {
			metrics.IncConnect()
			if err := reload(ctx); err != nil {
				h.logger.Warn("failed to refresh console after connect", slog.String("console", name), slog.String("error", err.Error()))
			}
		},
	}

	go func() {
		defer close(live.done)
		h.run(ctx, sub)
	}()

	return live
}

func (l *liveConsole) stop() {
	l.cancel()
	<-l.done
}

// Close tears down both consoles of session.
func (h *Hub) Close(session string) {
	h.mu.Lock()
	staff, hasStaff := h.staff[session]
	admin, hasAdmin := h.admin[session]
	delete(h.staff, session)
	delete(h.admin, session)
	h.mu.Unlock()

	if hasStaff {
		staff.stop()
		metrics.ConsoleClosed("staff")
	}
	if hasAdmin {
		admin.stop()
		metrics.ConsoleClosed("admin")
	}
}

func (h *Hub) CloseAll() {
	h.mu.Lock()
	sessions := make(map[string]struct{}, len(h.staff)+len(h.admin))
	for s := range h.staff {
		sessions[s] = struct{}{}
	}
	for s := range h.admin {
		sessions[s] = struct{}{}
	}
	h.mu.Unlock()

	for s := range sessions {
		h.Close(s)
	}
}
