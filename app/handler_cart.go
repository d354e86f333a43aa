package main

import (
	"net/http"

	"github.com/ogcamping/console/internal/cartservice"
)

func (app *application) getCartHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := app.carts.GetCart(r.Context(), app.readClientID(r))
	if err != nil {
		app.cartErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"cart": summary}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var input cartservice.CartItem
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	summary, err := app.carts.AddItem(r.Context(), app.readClientID(r), input)
	if err != nil {
		app.cartErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"cart": summary}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var input cartservice.ItemPatch
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	summary, err := app.carts.UpdateItem(r.Context(), app.readClientID(r), app.readParam(r, "id"), input)
	if err != nil {
		app.cartErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"cart": summary}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := app.carts.RemoveItem(r.Context(), app.readClientID(r), app.readParam(r, "id"))
	if err != nil {
		app.cartErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"cart": summary}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	err := app.carts.ClearCart(r.Context(), app.readClientID(r))
	if err != nil {
		app.cartErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "cart cleared"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
