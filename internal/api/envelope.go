package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped when the response envelope shape changes in a
// way clients must handle.
const envelopeVersion = 1

// Envelope is the JSON shape of every API response body. Success responses
// carry data; failures carry the error. Clients switch on "success" first.
type Envelope struct {
	Version int       `json:"v" doc:"Envelope version"`
	Success bool      `json:"success" doc:"Whether the request succeeded"`
	Data    any       `json:"data,omitempty" doc:"Response payload"`
	Error   *APIError `json:"error,omitempty" doc:"Error details on failure"`
}

// EnvelopeTransformer wraps every huma response body in the standard
// envelope. Registered via huma config Transformers.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	// Error responses carry the APIError inside the envelope.
	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			Version: envelopeVersion,
			Success: false,
			Error:   apiErr,
		}, nil
	}

	// Already enveloped (a handler bypassing huma wrote one directly).
	if env, ok := v.(*Envelope); ok {
		return env, nil
	}

	success := len(status) > 0 && (status[0] == '2' || status[0] == '3')
	return &Envelope{
		Version: envelopeVersion,
		Success: success,
		Data:    v,
	}, nil
}
