package api

import (
	"encoding/json"
	"net/http"
)

// Result is the uniform outcome of a backend call.
type Result struct {
	Success bool
	Status  int
	Data    json.RawMessage
	Text    string
	Error   string
}

// Unauthorized reports whether the backend rejected the credential. The web
// layer reacts by clearing the session credential and redirecting to login.
func (r Result) Unauthorized() bool {
	return r.Status == http.StatusUnauthorized
}

// Decode unmarshals the JSON body into target.
func (r Result) Decode(target any) error {
	return json.Unmarshal(r.Data, target)
}

// Message digs a human readable error out of the result, falling back from
// the payload's message to the transport error to a generic string.
func (r Result) Message(generic string) string {
	if msg := errorMessage(r); msg != "" && msg != "unauthorized" {
		return msg
	}
	if r.Error != "" && r.Error != "unauthorized" {
		return r.Error
	}
	return generic
}

type messagePayload struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Err     string `json:"error,omitempty"`
}

func errorMessage(r Result) string {
	if len(r.Data) > 0 {
		var payload messagePayload
		if err := json.Unmarshal(r.Data, &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			if payload.Err != "" {
				return payload.Err
			}
		}
	}
	if r.Text != "" {
		return r.Text
	}
	return r.Error
}

func failure(msg string) Result {
	return Result{Success: false, Error: msg}
}

// failDecode downgrades a transport success whose body did not decode.
func (r Result) failDecode(err error) Result {
	r.Success = false
	r.Error = "decode response: " + err.Error()
	return r
}
