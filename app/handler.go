package main

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/ogcamping/console/internal/blogservice"
	"github.com/ogcamping/console/internal/common"
	"github.com/ogcamping/console/internal/userservice"
)

type openSessionRequest struct {
	Role  userservice.Role `json:"role"`
	Email string           `json:"email"`
}

// openSessionHandler binds the bearer token of the request to a role and
// mounts the console of that role.
func (app *application) openSessionHandler(w http.ResponseWriter, r *http.Request) {
	token := app.getTokenContext(r)
	if token == "" {
		app.invalidAuthenticationTokenResponse(w, r)
		return
	}

	var input openSessionRequest
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	session, err := app.sessions.OpenSession(r.Context(), token, input.Role, input.Email, userservice.SessionTime)
	if err != nil {
		switch {
		case errors.As(err, &common.ValidationError{}):
			app.failedValidationErrorResponse(w, r, err.(common.ValidationError).Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// the previous role of a reused token no longer applies
	app.hub.Close(session.Key())

	err = app.mountConsole(r.Context(), session, token)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"session": session}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) closeSessionHandler(w http.ResponseWriter, r *http.Request) {
	app.endSession(r)

	err := app.writeJSON(w, http.StatusOK, envelope{"message": "session closed"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) mountConsole(ctx context.Context, session *userservice.Session, token string) error {
	var err error
	switch session.Role {
	case userservice.RoleStaff:
		_, err = app.hub.OpenStaff(ctx, session.Key(), token, session.Email)
	case userservice.RoleAdmin:
		_, err = app.hub.OpenAdmin(ctx, session.Key(), token)
	}
	return err
}

// endSession unmounts the console of the request session and forgets its token.
func (app *application) endSession(r *http.Request) {
	app.endConsoleSession(r.Context(), app.getSessionContext(r), app.getTokenContext(r))
}

func (app *application) endConsoleSession(ctx context.Context, session *userservice.Session, token string) {
	if !session.IsAnonymous() {
		app.hub.Close(session.Key())
	}
	if token == "" {
		return
	}

	err := app.sessions.CloseSession(ctx, token)
	if err != nil {
		app.logger.Error("failed to close session", slog.String("error", err.Error()))
	}
}

// staffConsole returns the mounted console of the request session, mounting
// it again after a restart of the gateway.
func (app *application) staffConsole(r *http.Request) (*blogservice.StaffConsole, error) {
	session := app.getSessionContext(r)
	if c, ok := app.hub.Staff(session.Key()); ok {
		return c, nil
	}
	return app.hub.OpenStaff(r.Context(), session.Key(), app.getTokenContext(r), session.Email)
}

func (app *application) adminConsole(r *http.Request) (*blogservice.AdminConsole, error) {
	session := app.getSessionContext(r)
	if c, ok := app.hub.Admin(session.Key()); ok {
		return c, nil
	}
	return app.hub.OpenAdmin(r.Context(), session.Key(), app.getTokenContext(r))
}

func consoleView(snap blogservice.Snapshot, f blogservice.Filter) envelope {
	env := envelope{
		"blogs":      f.Apply(snap.Blogs),
		"total":      len(snap.Blogs),
		"loading":    snap.Loading,
		"processing": slices.Sorted(maps.Keys(snap.Processing)),
	}
	if snap.LoadErr != nil {
		env["load_error"] = blogservice.OperatorMessage(snap.LoadErr)
	}
	return env
}

func (app *application) listPublicBlogsHandler(w http.ResponseWriter, r *http.Request) {
	blogs, err := app.public.List(r.Context())
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPublicBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	blog, err := app.public.Get(r.Context(), id)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listStaffBlogsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := app.readFilter(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	c, err := app.staffConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	if r.URL.Query().Get("refresh") == "true" {
		if err := c.Load(r.Context()); err != nil {
			app.blogErrorResponse(w, r, err)
			return
		}
	}

	err = app.writeJSON(w, http.StatusOK, consoleView(c.Snapshot(), filter), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getStaffBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	c, err := app.staffConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	blog, err := c.Get(r.Context(), id)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	draft, err := app.readDraft(w, r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	c, err := app.staffConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	blog, err := c.Create(r.Context(), draft)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) editBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	draft, err := app.readDraft(w, r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	c, err := app.staffConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	blog, err := c.Edit(r.Context(), id, draft)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	c, err := app.staffConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = c.Delete(r.Context(), id)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) submitBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	c, err := app.staffConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	blog, err := c.Submit(r.Context(), id)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listStaffNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	c, err := app.staffConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"notifications": c.Notifications()}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) acknowledgeStaffNotificationHandler(w http.ResponseWriter, r *http.Request) {
	c, err := app.staffConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	if !c.Acknowledge(app.readParam(r, "id")) {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "notification dismissed"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listAdminBlogsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := app.readFilter(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	c, err := app.adminConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	if r.URL.Query().Get("refresh") == "true" {
		if err := c.Load(r.Context()); err != nil {
			app.blogErrorResponse(w, r, err)
			return
		}
	}

	err = app.writeJSON(w, http.StatusOK, consoleView(c.Snapshot(), filter), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getAdminBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	c, err := app.adminConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	blog, err := c.Get(r.Context(), id)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// decideHandler runs one moderation action against the admin console.
func (app *application) decideHandler(w http.ResponseWriter, r *http.Request, action func(c *blogservice.AdminConsole, id int64) (*blogservice.Blog, error)) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	c, err := app.adminConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	blog, err := action(c, id)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) publishBlogHandler(w http.ResponseWriter, r *http.Request) {
	app.decideHandler(w, r, func(c *blogservice.AdminConsole, id int64) (*blogservice.Blog, error) {
		return c.Publish(r.Context(), id)
	})
}

func (app *application) unpublishBlogHandler(w http.ResponseWriter, r *http.Request) {
	app.decideHandler(w, r, func(c *blogservice.AdminConsole, id int64) (*blogservice.Blog, error) {
		return c.Unpublish(r.Context(), id)
	})
}

type rejectBlogRequest struct {
	Feedback string `json:"feedback"`
}

func (app *application) rejectBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input rejectBlogRequest
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	app.decideHandler(w, r, func(c *blogservice.AdminConsole, id int64) (*blogservice.Blog, error) {
		return c.Reject(r.Context(), id, input.Feedback)
	})
}

func (app *application) listAdminNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	c, err := app.adminConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"notifications": c.Notifications()}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) acknowledgeAdminNotificationHandler(w http.ResponseWriter, r *http.Request) {
	c, err := app.adminConsole(r)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	if !c.Acknowledge(app.readParam(r, "id")) {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "notification dismissed"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
