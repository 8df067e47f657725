package types

// SuccessEnvelope wraps every quote payload returned by the API.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewErrorEnvelope builds an envelope, dropping details unless allowed.
func NewErrorEnvelope(code, message string, details any, detailsAllowed bool) ErrorEnvelope {
	env := ErrorEnvelope{Error: APIError{Code: code, Message: message}}
	if detailsAllowed && details != nil {
		env.Error.Details = details
	}
	return env
}
