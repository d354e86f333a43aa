package main

import (
	"context"
	"net/http"

	"github.com/ogcamping/console/internal/userservice"
)

type contextKey string

const (
	sessionContextKey = contextKey("session")
	tokenContextKey   = contextKey("token")
)

func (app *application) createSessionContext(r *http.Request, session *userservice.Session, token string) *http.Request {
	ctx := context.WithValue(r.Context(), sessionContextKey, session)
	ctx = context.WithValue(ctx, tokenContextKey, token)
	return r.WithContext(ctx)
}

func (app *application) getSessionContext(r *http.Request) *userservice.Session {
	session, ok := r.Context().Value(sessionContextKey).(*userservice.Session)
	if !ok {
		return &userservice.AnonymousSession
	}
	return session
}

// getTokenContext returns the bearer token of the request, empty when none was sent.
func (app *application) getTokenContext(r *http.Request) string {
	token, _ := r.Context().Value(tokenContextKey).(string)
	return token
}
