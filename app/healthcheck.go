package main

import (
	"context"
	"net/http"
	"time"
)

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, store := "available", "up"
	if err := app.store.Ping(ctx); err != nil {
		app.logError(r, err)
		status, store = "degraded", "down"
	}

	env := envelope{
		"status": status,
		"system_info": map[string]string{
			"environment": app.config.Environment,
			"version":     app.config.Version,
			"local_store": store,
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.logger.Error(err.Error())
		http.Error(w, "the server encountered a problem and could not process your request", http.StatusInternalServerError)
	}
}
