package main

import "net/http"

type askChatRequest struct {
	Question string `json:"question"`
}

func (app *application) chatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	history, err := app.chat.History(r.Context(), app.readClientID(r))
	if err != nil {
		app.chatErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"messages": history}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) askChatHandler(w http.ResponseWriter, r *http.Request) {
	var input askChatRequest
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	answer, err := app.chat.Ask(r.Context(), app.readClientID(r), input.Question)
	if err != nil {
		app.chatErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"answer": answer}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) resetChatHandler(w http.ResponseWriter, r *http.Request) {
	err := app.chat.Reset(r.Context(), app.readClientID(r))
	if err != nil {
		app.chatErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "chat history cleared"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
