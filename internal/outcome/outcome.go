// Package outcome defines the tagged result a fetch pipeline delivers to its
// observers: Loading, Success with a payload, or Error with a reason and an
// optional stale payload.
package outcome

import (
	"encoding/json"
	"fmt"
)

// User-visible reasons carried by Error outcomes.
const (
	MsgTimeout          = "Timeout"
	MsgAPIKeyLimited    = "API Key Limited."
	MsgRecipesNotFound  = "Recipes not found."
	MsgNoInternet       = "No Internet Connection."
	MsgTransportFault   = "Recipes Not Found"
	MsgMalformedSuccess = "Malformed success response"
)

// Status discriminates the Outcome union.
type Status int

const (
	StatusLoading Status = iota + 1
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is an immutable fetch result. The zero value is not a valid outcome;
// use the constructors.
type Outcome[T any] struct {
	status  Status
	data    *T
	message string
}

// Loading returns the transient in-flight outcome. It never carries data.
func Loading[T any]() Outcome[T] {
	return Outcome[T]{status: StatusLoading}
}

// Success returns an outcome carrying data.
func Success[T any](data T) Outcome[T] {
	return Outcome[T]{status: StatusSuccess, data: &data}
}

// Error returns a failed outcome with no payload.
func Error[T any](message string) Outcome[T] {
	return Outcome[T]{status: StatusError, message: message}
}

// ErrorWithData returns a failed outcome that still carries a stale payload.
func ErrorWithData[T any](message string, stale T) Outcome[T] {
	return Outcome[T]{status: StatusError, message: message, data: &stale}
}

func (o Outcome[T]) Status() Status { return o.status }
func (o Outcome[T]) IsLoading() bool { return o.status == StatusLoading }
func (o Outcome[T]) IsSuccess() bool { return o.status == StatusSuccess }
func (o Outcome[T]) IsError() bool { return o.status == StatusError }
func (o Outcome[T]) Message() string { return o.message }
func (o Outcome[T]) HasData() bool { return o.data != nil }

// Data returns a copy of the payload and whether one is present.
func (o Outcome[T]) Data() (T, bool) {
	if o.data == nil {
		var zero T
		return zero, false
	}
	return *o.data, true
}

func (o Outcome[T]) String() string {
	switch o.status {
	case StatusError:
		return fmt.Sprintf("error(%s)", o.message)
	default:
		return o.status.String()
	}
}

// wire is the JSON shape shared by the CLI, HTTP and broadcast consumers.
type wire[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// MarshalJSON encodes the outcome as {"status":..,"message":..,"data":..}.
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire[T]{Status: o.status.String(), Message: o.message, Data: o.data})
}

// UnmarshalJSON decodes the wire shape and re-checks the union invariants.
func (o *Outcome[T]) UnmarshalJSON(b []byte) error {
	var w wire[T]
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch w.Status {
	case "loading":
		if w.Data != nil {
			return fmt.Errorf("loading outcome cannot carry data")
		}
		*o = Loading[T]()
	case "success":
		if w.Data == nil {
			return fmt.Errorf("success outcome requires data")
		}
		*o = Success(*w.Data)
	case "error":
		*o = Outcome[T]{status: StatusError, message: w.Message, data: w.Data}
	default:
		return fmt.Errorf("unknown outcome status %q", w.Status)
	}
	return nil
}
