package mexc

import (
	"bytes"
	"encoding/json"
	"strings"
)

// futuresEnvelope wraps every futures response.
type futuresEnvelope struct {
	Success bool            `json:"success"`
	Code    int64           `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message *string         `json:"message"`
}

func (e *futuresEnvelope) message() string {
	if e.Message == nil || *e.Message == "" {
		return "no message"
	}
	return *e.Message
}

func hasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// decodeFutures unpacks the envelope and, when out is non-nil, its data payload.
// A success envelope without data is a decode failure for callers that expect a
// payload.
func decodeFutures(endpoint string, resp *Response, out interface{}) error {
	var env futuresEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		if !resp.OK() {
			return &APIError{Status: resp.Status, Message: bodyText(resp.Body)}
		}
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	if !resp.OK() || !env.Success {
		return &APIError{Status: resp.Status, Code: env.Code, Message: env.message()}
	}
	if out == nil {
		return nil
	}
	if !hasData(env.Data) {
		return &DecodeError{Endpoint: endpoint, Err: errMissingData}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// spotError is the body spot endpoints return alongside a non-2xx status.
type spotError struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg"`
}

func decodeSpot(endpoint string, resp *Response, out interface{}) error {
	if !resp.OK() {
		var se spotError
		if err := json.Unmarshal(resp.Body, &se); err == nil && se.Msg != "" {
			return &APIError{Status: resp.Status, Code: se.Code, Message: se.Msg}
		}
		return &APIError{Status: resp.Status, Message: bodyText(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func bodyText(b []byte) string {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "empty body"
	}
	return s
}
