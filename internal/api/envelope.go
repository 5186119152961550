// Package api defines the wire envelope shared by the todo service and its
// clients.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Response is a tagged result: either a success carrying a payload (and
// optionally a message) or a failure carrying an error message. The zero
// value is a failure with an empty message.
type Response[T any] struct {
	ok      bool
	data    T
	hasData bool
	message string
	err     string
}

// OK builds a success response carrying data.
func OK[T any](data T) Response[T] {
	return Response[T]{ok: true, data: data, hasData: true}
}

// Message builds a success response with no payload.
func Message(msg string) Response[struct{}] {
	return Response[struct{}]{ok: true, message: msg}
}

// Fail builds a failure response.
func Fail[T any](msg string) Response[T] {
	return Response[T]{err: msg}
}

// Success reports whether r is a success.
func (r Response[T]) Success() bool {
	return r.ok
}

// Data returns the payload of a success response.
func (r Response[T]) Data() (T, bool) {
	return r.data, r.ok && r.hasData
}

// Text returns the message of a success response.
func (r Response[T]) Text() string {
	return r.message
}

// Reason returns the message of a failure response.
func (r Response[T]) Reason() string {
	return r.err
}

// Result returns the payload, or an error if r is a failure.
func (r Response[T]) Result() (T, error) {
	if !r.ok {
		var zero T
		msg := r.err
		if msg == "" {
			msg = "request failed"
		}
		return zero, errors.New(msg)
	}
	return r.data, nil
}

type wire struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// MarshalJSON never writes data on failure.
func (r Response[T]) MarshalJSON() ([]byte, error) {
	w := wire{Success: r.ok}
	if !r.ok {
		w.Error = r.err
		return json.Marshal(w)
	}
	w.Message = r.message
	if r.hasData {
		data, err := json.Marshal(r.data)
		if err != nil {
			return nil, fmt.Errorf("encode data: %w", err)
		}
		w.Data = data
	}
	return json.Marshal(w)
}

func (r *Response[T]) UnmarshalJSON(b []byte) error {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Response[T]{ok: w.Success, message: w.Message, err: w.Error}
	if !w.Success {
		return nil
	}
	if len(w.Data) > 0 && string(w.Data) != "null" {
		if err := json.Unmarshal(w.Data, &r.data); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
		r.hasData = true
	}
	return nil
}
