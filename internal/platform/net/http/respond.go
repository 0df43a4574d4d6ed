// Package http writes every response in one JSON envelope and adapts
// return style handlers to net/http
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "membersearch/internal/platform/errors"
	pnet "membersearch/internal/platform/net"
	"membersearch/internal/platform/net/http/bind"
)

// Envelope is the standard response body for all endpoints
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Field      string         `json:"field,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Response is what a return style handler yields
// an error Body picks its status from the error code
type Response struct {
	Status int
	Body   any
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error returns a response whose status derives from err
func Error(err error) Response { return Response{Body: err} }

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Handle adapts a Response returning func to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

// Call adapts a handler with no bound input
func Call(fn func(*stdhttp.Request) (any, error)) Handler {
	return Handle(func(r *stdhttp.Request) Response { return result(fn(r)) })
}

// QueryHandler binds and validates T from the query string before fn runs
func QueryHandler[T any](fn func(*stdhttp.Request, T) (any, error)) Handler {
	return Handle(func(r *stdhttp.Request) Response {
		in, err := bind.ParseQuery[T](r)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	env := Envelope{RequestID: pnet.RequestID(r.Context())}
	status := resp.Status
	if err, ok := resp.Body.(error); ok && err != nil {
		status = perr.HTTPStatus(err)
		wire := perr.WireFrom(err)
		env.Code, env.Field, env.Error = wire.Code, wire.Field, wire.Message
	} else {
		env.Data = resp.Body
	}
	if status == 0 {
		status = stdhttp.StatusOK
	}
	env.StatusCode, env.Status = status, stdhttp.StatusText(status)
	JSON(w, status, env)
}
