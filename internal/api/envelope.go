package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is bumped when the envelope shape changes so clients can
// detect incompatible servers before parsing the payload.
const EnvelopeVersion = 1

// APIEnvelope wraps successful responses and plain-string errors.
type APIEnvelope struct {
	Version int    `json:"v" doc:"Envelope format version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Error message when success is false"`
}

// APIErrorEnvelope wraps structured errors that carry a code and details.
type APIErrorEnvelope struct {
	Version int       `json:"v" doc:"Envelope format version"`
	Success bool      `json:"success" doc:"Always false"`
	Error   *APIError `json:"error" doc:"Structured error"`
}

// EnvelopeTransformer wraps every response body in the versioned
// {v, success, data|error} envelope. Registered as a huma transformer so
// handlers return bare payloads.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	// Never re-wrap.
	switch v.(type) {
	case APIEnvelope, *APIEnvelope, APIErrorEnvelope, *APIErrorEnvelope:
		return v, nil
	}

	if isErrorStatus(status) {
		if apiErr, ok := v.(*APIError); ok {
			return APIErrorEnvelope{
				Version: EnvelopeVersion,
				Success: false,
				Error:   apiErr,
			}, nil
		}
		if err, ok := v.(error); ok {
			return APIEnvelope{
				Version: EnvelopeVersion,
				Success: false,
				Error:   err.Error(),
			}, nil
		}
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}

// isErrorStatus reports whether the stringified status code is 4xx or 5xx.
func isErrorStatus(status string) bool {
	return strings.HasPrefix(status, "4") || strings.HasPrefix(status, "5")
}
