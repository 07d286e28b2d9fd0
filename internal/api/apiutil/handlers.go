package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/codr1/excerpt-config/internal/models"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 10 << 20

const (
	MsgInternalError = "Internal Server Error"
	MsgNotFound      = "Endpoint not found"
	MsgInvalidJSON   = "Invalid JSON body"
	MsgBodyTooLarge  = "Request body too large"
)

// HandlerError carries the status a failure should be reported with.
type HandlerError struct {
	Status  int
	Message string
	Err     error
	Stack   []byte
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// DecodeJSON reads a single JSON value from the request body. Decode failures
// come back as a HandlerError with status 400 (413 when over MaxBodyBytes).
func DecodeJSON(w http.ResponseWriter, r *http.Request) (any, error) {
	if r.Body == nil {
		return nil, HandlerError{Status: http.StatusBadRequest, Message: "missing request body"}
	}
	defer r.Body.Close()

	value, err := models.DecodeJSON(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, HandlerError{Status: http.StatusRequestEntityTooLarge, Message: MsgBodyTooLarge, Err: err}
		}
		return nil, HandlerError{Status: http.StatusBadRequest, Message: MsgInvalidJSON, Err: err}
	}
	return value, nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFailure writes {error, success:false} with the given status.
func WriteFailure(w http.ResponseWriter, r *http.Request, status int, message string) {
	if err := WriteJSON(w, status, ErrorResponse{Error: message, Success: false}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write error response")
	}
}

// WriteNotFound answers unmatched routes and echoes the requested path.
func WriteNotFound(w http.ResponseWriter, r *http.Request) {
	body := ErrorResponse{Error: MsgNotFound, Success: false, Path: r.URL.Path}
	if err := WriteJSON(w, http.StatusNotFound, body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write not found response")
	}
}

// WriteError is the catch-all responder. The status comes from a wrapped
// HandlerError when there is one, otherwise 500. Stack traces are only
// included when includeStack is set.
func WriteError(w http.ResponseWriter, r *http.Request, err error, includeStack bool) {
	status := http.StatusInternalServerError
	message := err.Error()
	var stack []byte

	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		if handlerErr.Status != 0 {
			status = handlerErr.Status
		}
		if handlerErr.Message != "" {
			message = handlerErr.Message
		}
		stack = handlerErr.Stack
	}
	if message == "" {
		message = MsgInternalError
	}
	if stack == nil {
		stack = debug.Stack()
	}

	log.Ctx(r.Context()).Error().
		Err(err).
		Str("stack", string(stack)).
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Str("ip", ClientIP(r)).
		Int("status", status).
		Msg("Request failed")

	body := ErrorResponse{Error: message, Success: false}
	if includeStack {
		body.Stack = string(stack)
	}
	if writeErr := WriteJSON(w, status, body); writeErr != nil {
		log.Ctx(r.Context()).Error().Err(writeErr).Msg("Failed to write error response")
	}
}
