package memdx

import (
	"encoding/json"
	"errors"
)

var (
	ErrInvalidErrorMap  = errors.New("invalid error map")
	ErrInvalidExtFrames = errors.New("invalid framing extras")
)

var ErrProtocol = errors.New("protocol error")

type protocolError struct {
	message string
}

func (e protocolError) Error() string {
	return "protocol error: " + e.message
}

func (e protocolError) Unwrap() error {
	return ErrProtocol
}

// ServerErrorContext is the extended error information the server attaches
// to a response body when the datatype marks it as JSON.
type ServerErrorContext struct {
	Text string
	Ref  string
}

// ParseServerErrorContext extracts the `error.context` and `error.ref` fields
// from a JSON error body.  A body without an error object yields an empty
// context and no error.
func ParseServerErrorContext(body []byte) (ServerErrorContext, error) {
	var contextOut ServerErrorContext

	if len(body) == 0 {
		return contextOut, nil
	}

	parsedJson := struct {
		Error *struct {
			Context string `json:"context"`
			Ref     string `json:"ref"`
		} `json:"error"`
	}{}

	err := json.Unmarshal(body, &parsedJson)
	if err != nil {
		return contextOut, err
	}

	if parsedJson.Error == nil {
		return contextOut, nil
	}

	contextOut.Text = parsedJson.Error.Context
	contextOut.Ref = parsedJson.Error.Ref
	return contextOut, nil
}

// IsEmpty reports whether neither a context nor a reference were provided.
func (c ServerErrorContext) IsEmpty() bool {
	return c.Text == "" && c.Ref == ""
}
