package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ogcamping/console/internal/blogservice"
	"github.com/ogcamping/console/internal/cartservice"
	"github.com/ogcamping/console/internal/chatservice"
	"github.com/ogcamping/console/internal/common"
)

func (app *application) logError(r *http.Request, err error) {
	var (
		method  = r.Method
		url     = r.URL.RequestURI()
		message = err.Error()
	)

	app.logger.Error(message, slog.String("method", method), slog.String("url", url))
}

func (app *application) writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	err := app.writeJSON(w, status, envelope{"error": message}, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	message := "the server encountered a problem and could not process your request"
	app.writeErrorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *application) badRequestErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusNotFound, "resource not found")
}

func (app *application) failedValidationErrorResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	app.writeErrorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.writeErrorResponse(w, r, http.StatusUnauthorized, "invalid or missing authentication token")
}

func (app *application) loginRequiredResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.writeErrorResponse(w, r, http.StatusUnauthorized, "login required")
}

func (app *application) notPermittedResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusForbidden, "your role does not have access to this resource")
}

func (app *application) methodNotAllowedErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}

// blogErrorResponse answers a failed console operation with the operator
// message of err. A token the backend refused ends the console session.
func (app *application) blogErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr   common.ValidationError
		apiErr *blogservice.APIError
	)

	switch {
	case errors.As(err, &verr):
		app.failedValidationErrorResponse(w, r, verr.Errors)
	case errors.Is(err, blogservice.ErrUnauthorized):
		app.endSession(r)
		app.loginRequiredResponse(w, r)
	case errors.Is(err, blogservice.ErrNotOwner):
		app.endSession(r)
		app.notPermittedResponse(w, r)
	case errors.Is(err, blogservice.ErrBusy), errors.Is(err, blogservice.ErrInvalidTransition):
		app.writeErrorResponse(w, r, http.StatusConflict, blogservice.OperatorMessage(err))
	case errors.Is(err, blogservice.ErrTimeout):
		app.writeErrorResponse(w, r, http.StatusGatewayTimeout, blogservice.OperatorMessage(err))
	case errors.Is(err, common.ErrRecordNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		app.notFoundErrorResponse(w, r)
	case errors.As(err, &apiErr), errors.Is(err, blogservice.ErrNetwork):
		app.logError(r, err)
		app.writeErrorResponse(w, r, http.StatusBadGateway, blogservice.OperatorMessage(err))
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) cartErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var verr common.ValidationError

	switch {
	case errors.As(err, &verr):
		app.failedValidationErrorResponse(w, r, verr.Errors)
	case errors.Is(err, cartservice.ErrItemNotFound):
		app.notFoundErrorResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) chatErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var verr common.ValidationError

	switch {
	case errors.As(err, &verr):
		app.failedValidationErrorResponse(w, r, verr.Errors)
	case errors.Is(err, chatservice.ErrUnavailable):
		app.writeErrorResponse(w, r, http.StatusServiceUnavailable, "the chat assistant is not available")
	case errors.Is(err, chatservice.ErrNoAnswer):
		app.logError(r, err)
		app.writeErrorResponse(w, r, http.StatusBadGateway, "the chat assistant did not answer, please try again")
	default:
		app.serverErrorResponse(w, r, err)
	}
}
