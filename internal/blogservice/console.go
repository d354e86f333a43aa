package blogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ogcamping/console/internal/common"
	"github.com/ogcamping/console/internal/metrics"
)

var (
	// ErrBusy is returned when an action is started on a row that is
	// already processing one.
	ErrBusy = errors.New("blog is processing another action")
	// ErrTimeout is returned when an action did not complete in time. The
	// row is released and the action may be retried.
	ErrTimeout = errors.New("action timed out")
)

// Backend is the part of the backend REST contract the consoles use.
type Backend interface {
	ListStaffBlogs(ctx context.Context, token string) ([]Blog, error)
	GetStaffBlog(ctx context.Context, token string, id int64) (*Blog, error)
	CreateBlog(ctx context.Context, token string, d *BlogDraft) (*Blog, error)
	UpdateBlog(ctx context.Context, token string, id int64, d *BlogDraft) (*Blog, error)
	DeleteBlog(ctx context.Context, token string, id int64) error
	SubmitBlog(ctx context.Context, token string, id int64) (*Blog, error)

	ListAdminBlogs(ctx context.Context, token string) ([]Blog, error)
	GetAdminBlog(ctx context.Context, token string, id int64) (*Blog, error)
	PublishBlog(ctx context.Context, token string, id int64) (*Blog, error)
	UnpublishBlog(ctx context.Context, token string, id int64) (*Blog, error)
	RejectBlog(ctx context.Context, token string, id int64, feedback string) (*Blog, error)
}

type ConsoleConfig struct {
	// Session identifies the console session, it scopes event deduplication.
	Session string
	Token   string
	// User is the e-mail of the staff member owning a staff console.
	User    string
	Timeout time.Duration
	Seen    *common.Cache
	Logger  *slog.Logger
}

type console struct {
	name    string
	backend Backend
	store   *Store
	cfg     ConsoleConfig
}

func newConsole(name string, backend Backend, cfg ConsoleConfig) console {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Seen == nil {
		cfg.Seen = common.NewCache(10*time.Minute, 20*time.Minute)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return console{
		name:    name,
		backend: backend,
		store:   NewStore(),
		cfg:     cfg,
	}
}

// load fetches the list under the action timeout. keep is the inclusion rule.
func (c *console) load(ctx context.Context, fetch func(ctx context.Context, token string) ([]Blog, error), keep func(Blog) bool) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	gen := c.store.StartLoad()

	blogs, err := fetch(ctx, c.cfg.Token)
	if err != nil {
		err = timeoutError(ctx, err)
		c.store.Dispatch(LoadFailed{Gen: gen, Err: err})
		return err
	}

	c.store.Dispatch(Loaded{Gen: gen, Blogs: blogs, Keep: keep})
	return nil
}

// run executes one state transition on a row. The processing flag is set
// for the duration of fn and cleared on every exit path.
func (c *console) run(ctx context.Context, id int64, action Action, fn func(ctx context.Context) error) (err error) {
	defer func() { metrics.IncAction(string(action), err) }()

	if !c.store.Dispatch(Started{ID: id}) {
		return ErrBusy
	}
	defer c.store.Dispatch(Finished{ID: id})

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	err = fn(ctx)
	if err != nil {
		err = timeoutError(ctx, err)
		c.cfg.Logger.Warn("blog action failed", slog.String("console", c.name), slog.String("action", string(action)), slog.Int64("blog_id", id), slog.String("error", err.Error()))
	}

	return err
}

func timeoutError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

// row returns the locally held blog with id.
func (c *console) row(id int64) (Blog, error) {
	blog, ok := c.store.Find(id)
	if !ok {
		return Blog{}, common.ErrRecordNotFound
	}
	return blog, nil
}

// receive decodes one realtime delivery and merges it when accept allows.
func (c *console) receive(msg common.Message, accept func(Blog) bool, front bool, notice func(Blog) Notification) {
	if msg.ID != "" && !c.cfg.Seen.MarkSeen(common.CacheKeyEvent(c.cfg.Session, msg.ID)) {
		metrics.IncEvent(c.name, "duplicate")
		return
	}

	var blog Blog
	if err := json.Unmarshal(msg.Body, &blog); err != nil || blog.ID == 0 {
		c.cfg.Logger.Warn("invalid blog event", slog.String("console", c.name), slog.String("key", msg.Key))
		metrics.IncEvent(c.name, "invalid")
		return
	}

	if accept != nil && !accept(blog) {
		metrics.IncEvent(c.name, "ignored")
		return
	}

	if c.store.Dispatch(Received{Blog: blog, Front: front, Notice: notice}) {
		metrics.IncEvent(c.name, "applied")
		return
	}
	metrics.IncEvent(c.name, "merged")
}

func (c *console) Snapshot() Snapshot {
	return c.store.Snapshot()
}

// View returns the rows matching f. The list itself is not modified.
func (c *console) View(f Filter) []Blog {
	return f.Apply(c.store.Snapshot().Blogs)
}

func (c *console) Notifications() []Notification {
	return c.store.Snapshot().Notifications
}

func (c *console) Acknowledge(id string) bool {
	return c.store.Dispatch(Acknowledged{ID: id})
}

// OperatorMessage turns an action error into text fit to show the operator.
func OperatorMessage(err error) string {
	var verr common.ValidationError
	var apiErr *APIError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "please correct the highlighted fields"
	case errors.Is(err, ErrTimeout):
		return "the server did not answer in time, please try again"
	case errors.Is(err, ErrBusy):
		return "another action on this blog is still in progress"
	case errors.Is(err, ErrInvalidTransition):
		return err.Error()
	case errors.Is(err, common.ErrRecordNotFound):
		return "the blog could not be found"
	case errors.As(err, &apiErr) && apiErr.Body != "":
		return apiErr.Body
	case errors.Is(err, ErrNetwork):
		return "could not reach the server, please check your connection"
	default:
		return "something went wrong, please try again"
	}
}
