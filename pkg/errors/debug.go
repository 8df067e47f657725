package errors

import (
	"errors"
	"fmt"
)

// ErrorDump is a log and CLI friendly view of an error chain.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	HTTPStatus int    `json:"http_status,omitempty"`

	Chain   []string `json:"chain,omitempty"`
	Details any      `json:"details,omitempty"`
}

// Dump flattens err. Details are included regardless of the code's public
// policy, so dumps must stay out of response bodies.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
		d.HTTPStatus = MetadataFor(d.Code).HTTPStatus
		d.Details = typed.Details()
	}

	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", cur, cur))
	}
	return d
}
