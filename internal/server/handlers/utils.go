package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/logfields"
)

// bodyWriteError is a failure after the status line was sent. Nothing else
// can be written to that response.
type bodyWriteError struct{ err error }

func (e *bodyWriteError) Error() string { return "write response body: " + e.err.Error() }
func (e *bodyWriteError) Unwrap() error { return e.err }

// respond writes v as JSON. An encoding failure becomes an internal error
// response; a failure once the header is out is only logged.
func respond(w http.ResponseWriter, r *http.Request, adapter *errors.HTTPErrorAdapter, status int, v any, what string) {
	err := writeJSONPretty(w, r, status, v)
	if err == nil {
		return
	}
	var sent *bodyWriteError
	if errors.As(err, &sent) {
		slog.Warn("Response body write failed", logfields.Path(r.URL.Path), logfields.Error(err))
		return
	}
	internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write "+what+" response").Build()
	adapter.WriteErrorResponse(w, r, internalErr)
}

// writeJSON serializes the provided value to JSON and writes it with the given
// status code. Encoding is performed into an intermediate buffer so that a
// serialization failure never produces a partial response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return &bodyWriteError{err: err}
	}
	return nil
}

// writeJSONPretty pretty prints when pretty=true is passed as a query parameter.
// It falls back to compact form if marshalling fails for any reason.
func writeJSONPretty(w http.ResponseWriter, r *http.Request, status int, v any) error {
	if r != nil && queryBool(r, "pretty") {
		b, err := json.MarshalIndent(v, "", "  ")
		if err == nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(status)
			if _, werr := w.Write(append(b, '\n')); werr != nil {
				return &bodyWriteError{err: werr}
			}
			return nil
		}
		slog.Warn("pretty JSON marshal failed, falling back to standard encode", logfields.Error(err))
	}
	return writeJSON(w, status, v)
}

// queryBool accepts 1/true/yes style flags; anything unparsable is false.
func queryBool(r *http.Request, name string) bool {
	raw := r.URL.Query().Get(name)
	if raw == "yes" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
