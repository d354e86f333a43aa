package blogservice

import (
	"context"
	"errors"
	"strings"

	"github.com/ogcamping/console/internal/common"
)

// ErrNotOwner is returned when the staff list holds blogs of someone other
// than the user the console was opened for.
var ErrNotOwner = errors.New("blogs belong to another staff member")

// StaffConsole holds the blogs of one staff member and applies the admin
// decisions delivered on their targeted queue.
type StaffConsole struct {
	console
}

func NewStaffConsole(backend Backend, cfg ConsoleConfig) *StaffConsole {
	return &StaffConsole{console: newConsole("staff", backend, cfg)}
}

func (c *StaffConsole) Load(ctx context.Context) error {
	return c.load(ctx, c.backend.ListStaffBlogs, nil)
}

func (c *StaffConsole) Get(ctx context.Context, id int64) (*Blog, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	blog, err := c.backend.GetStaffBlog(ctx, c.cfg.Token, id)
	if err != nil {
		return nil, timeoutError(ctx, err)
	}

	return blog, nil
}

// Create stores a new DRAFT. When the backend does not echo the blog the
// list is fetched again.
func (c *StaffConsole) Create(ctx context.Context, d *BlogDraft) (*Blog, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}
	d.Content = sanitizeMarkdown(d.Content)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	blog, err := c.backend.CreateBlog(ctx, c.cfg.Token, d)
	if err != nil {
		return nil, timeoutError(ctx, err)
	}

	if blog == nil {
		return nil, c.Load(ctx)
	}

	c.store.Dispatch(Upserted{Blog: *blog})
	return blog, nil
}

// editable returns the row when staff may still change it.
func (c *StaffConsole) editable(id int64, action Action) (Blog, error) {
	row, err := c.row(id)
	if err != nil {
		return Blog{}, err
	}
	if !row.Status.Editable() {
		return Blog{}, &transitionError{from: row.Status, action: action}
	}
	return row, nil
}

func (c *StaffConsole) Edit(ctx context.Context, id int64, d *BlogDraft) (*Blog, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}
	d.Content = sanitizeMarkdown(d.Content)

	row, err := c.editable(id, "edit")
	if err != nil {
		return nil, err
	}

	var updated Blog
	err = c.run(ctx, id, "edit", func(ctx context.Context) error {
		blog, err := c.backend.UpdateBlog(ctx, c.cfg.Token, id, d)
		if err != nil {
			return err
		}

		if blog != nil {
			updated = *blog
		} else {
			updated = row
			updated.Title = d.Title
			updated.Content = d.Content
		}

		c.store.Dispatch(Upserted{Blog: updated})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (c *StaffConsole) Delete(ctx context.Context, id int64) error {
	if _, err := c.editable(id, "delete"); err != nil {
		return err
	}

	return c.run(ctx, id, "delete", func(ctx context.Context) error {
		if err := c.backend.DeleteBlog(ctx, c.cfg.Token, id); err != nil {
			return err
		}
		c.store.Dispatch(Removed{ID: id})
		return nil
	})
}

// Submit sends a DRAFT for review. Any reason left by an earlier rejection
// is cleared locally.
func (c *StaffConsole) Submit(ctx context.Context, id int64) (*Blog, error) {
	row, err := c.row(id)
	if err != nil {
		return nil, err
	}

	to, err := Transition(row.Status, ActionSubmit)
	if err != nil {
		return nil, err
	}

	var updated Blog
	err = c.run(ctx, id, ActionSubmit, func(ctx context.Context) error {
		blog, err := c.backend.SubmitBlog(ctx, c.cfg.Token, id)
		if err != nil {
			return err
		}

		updated = row
		if blog != nil {
			updated = *blog
		}
		updated.Status = to
		updated.RejectedReason = ""

		c.store.Dispatch(Upserted{Blog: updated})
		c.store.Dispatch(Notified{Notification: actionNotice(updated, ActionSubmit)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// owns reports whether b belongs to the console user. Without a user every
// blog is accepted.
func (c *StaffConsole) owns(b Blog) bool {
	return c.cfg.User == "" || strings.EqualFold(b.CreatedBy.Email, c.cfg.User)
}

// checkOwner verifies the fetched list against the console user. Rows
// without an author e-mail cannot be checked and are skipped.
func (c *StaffConsole) checkOwner() error {
	for _, b := range c.store.Snapshot().Blogs {
		if b.CreatedBy.Email != "" && !c.owns(b) {
			return ErrNotOwner
		}
	}
	return nil
}

// HandleEvent applies one delivery from the staff member's targeted queue.
// Blogs of other authors are ignored.
func (c *StaffConsole) HandleEvent(msg common.Message) {
	c.receive(msg, c.owns, false, staffNotice)
}
