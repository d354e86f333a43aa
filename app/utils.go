package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/ogcamping/console/internal/blogservice"
)

// maxUploadBytes leaves room for the form fields next to a 5MB thumbnail.
const maxUploadBytes = 6 << 20

type envelope map[string]any

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	json, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	for key, values := range headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(json)

	return nil
}

func (app *application) parseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("request body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("request body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("request body contains an invalid value for the %q field", unmarshalTypeError.Field)
			}
			return fmt.Errorf("request body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("request body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("request body contains unknown field %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("request body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}
	err = decoder.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("request body must only contain a single JSON value")
	}
	return nil
}

func (app *application) readIDParam(r *http.Request, key string) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.ParseInt(params.ByName(key), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid ID parameter")
	}

	return id, nil
}

func (app *application) readParam(r *http.Request, key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// readClientID returns the browser-generated id that keys the cart and chat history.
func (app *application) readClientID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Client-ID"))
}

// readFilter reads the q and status query parameters of a console list.
func (app *application) readFilter(r *http.Request) (blogservice.Filter, error) {
	params := r.URL.Query()

	status, err := blogservice.ParseStatusFilter(params.Get("status"))
	if err != nil {
		return blogservice.Filter{}, errors.New("invalid status parameter")
	}

	return blogservice.Filter{Query: params.Get("q"), Status: status}, nil
}

// readDraft reads the editable fields of a blog from a multipart form, or
// from a JSON body when no thumbnail is attached.
func (app *application) readDraft(w http.ResponseWriter, r *http.Request) (*blogservice.BlogDraft, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var input struct {
			Title               string `json:"title"`
			Content             string `json:"content"`
			LocationID          int64  `json:"locationId"`
			LocationName        string `json:"locationName"`
			LocationDescription string `json:"locationDescription"`
		}
		if err := app.parseJSON(w, r, &input); err != nil {
			return nil, err
		}

		return &blogservice.BlogDraft{
			Title:               input.Title,
			Content:             input.Content,
			LocationID:          input.LocationID,
			LocationName:        input.LocationName,
			LocationDescription: input.LocationDescription,
		}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("request body must be a multipart form of at most %d bytes", maxUploadBytes)
	}

	draft := &blogservice.BlogDraft{
		Title:               r.FormValue("title"),
		Content:             r.FormValue("content"),
		LocationName:        r.FormValue("locationName"),
		LocationDescription: r.FormValue("locationDescription"),
	}

	if raw := r.FormValue("locationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("invalid locationId field")
		}
		draft.LocationID = id
	}

	file, header, err := r.FormFile("thumbnail")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return nil, err
	default:
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		draft.Thumbnail = &blogservice.Upload{Filename: header.Filename, Data: data}
	}

	return draft, nil
}
