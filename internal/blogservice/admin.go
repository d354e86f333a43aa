package blogservice

import (
	"context"
	"strings"

	"github.com/ogcamping/console/internal/common"
)

// AdminConsole holds the review queue: PENDING and PUBLISHED blogs of every
// staff member.
type AdminConsole struct {
	console
}

func NewAdminConsole(backend Backend, cfg ConsoleConfig) *AdminConsole {
	return &AdminConsole{console: newConsole("admin", backend, cfg)}
}

// Load fetches the list and keeps only PENDING and PUBLISHED rows.
func (c *AdminConsole) Load(ctx context.Context) error {
	return c.load(ctx, c.backend.ListAdminBlogs, func(b Blog) bool { return adminVisible(b.Status) })
}

func (c *AdminConsole) Get(ctx context.Context, id int64) (*Blog, error) {
	v := common.NewValidator()
	validateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	blog, err := c.backend.GetAdminBlog(ctx, c.cfg.Token, id)
	if err != nil {
		return nil, timeoutError(ctx, err)
	}

	return blog, nil
}

// decide runs a publish or unpublish. The row stays in place with its new
// status until the next fetch.
func (c *AdminConsole) decide(ctx context.Context, id int64, action Action, to Status, call func(ctx context.Context, token string, id int64) (*Blog, error)) (*Blog, error) {
	row, err := c.row(id)
	if err != nil {
		return nil, err
	}

	var updated Blog
	err = c.run(ctx, id, action, func(ctx context.Context) error {
		blog, err := call(ctx, c.cfg.Token, id)
		if err != nil {
			return err
		}

		updated = row
		if blog != nil {
			updated = *blog
		}
		updated.Status = to

		c.store.Dispatch(Upserted{Blog: updated})
		c.store.Dispatch(Notified{Notification: actionNotice(updated, action)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Publish approves a PENDING blog or restores an UNPUBLISHED one. The
// backend decides whether the transition is allowed.
func (c *AdminConsole) Publish(ctx context.Context, id int64) (*Blog, error) {
	return c.decide(ctx, id, ActionPublish, StatusPublished, c.backend.PublishBlog)
}

func (c *AdminConsole) Unpublish(ctx context.Context, id int64) (*Blog, error) {
	return c.decide(ctx, id, ActionUnpublish, StatusUnpublished, c.backend.UnpublishBlog)
}

// Reject sends a PENDING blog back to its author with feedback. Empty
// feedback fails validation and no request is made. The row leaves the
// review queue on success.
func (c *AdminConsole) Reject(ctx context.Context, id int64, feedback string) (*Blog, error) {
	v := common.NewValidator()
	validateFeedback(v, feedback)
	if !v.Valid() {
		return nil, v.ValidationError()
	}
	feedback = strings.TrimSpace(feedback)

	row, err := c.row(id)
	if err != nil {
		return nil, err
	}

	var updated Blog
	err = c.run(ctx, id, ActionReject, func(ctx context.Context) error {
		blog, err := c.backend.RejectBlog(ctx, c.cfg.Token, id, feedback)
		if err != nil {
			return err
		}

		updated = row
		if blog != nil {
			updated = *blog
		}
		updated.Status = StatusDraft
		updated.RejectedReason = feedback

		c.store.Dispatch(Removed{ID: id})
		c.store.Dispatch(Notified{Notification: actionNotice(updated, ActionReject)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// HandleEvent applies one broadcast delivery. Only PENDING and PUBLISHED
// blogs are accepted; they replace any row with the same id and move to
// the front.
func (c *AdminConsole) HandleEvent(msg common.Message) {
	c.receive(msg, func(b Blog) bool { return adminVisible(b.Status) }, true, adminNotice)
}
