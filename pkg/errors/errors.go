package errors

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// Kind classifies where an error came from
type Kind string

const (
	KindTransport      Kind = "transport"
	KindAPI            Kind = "api"
	KindDecode         Kind = "decode"
	KindInvalidRequest Kind = "invalid_request"
	KindNotFound       Kind = "not_found"
	KindRateLimited    Kind = "rate_limited"
)

// Default type labels
const (
	DefaultType        = "APIException"
	TypeTransport      = "TransportException"
	TypeDecode         = "DecodeException"
	TypeInvalidRequest = "InvalidRequestException"
	TypeNotFound       = "NotFoundException"
	TypeRateLimited    = "RateLimitException"

	unknownMessage = "Unknown Error"
)

// Error is the single error type raised for every failed platform call
type Error struct {
	Kind     Kind
	Code     int
	Message  string
	Type     string
	Platform string

	cause error
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %d: %s", e.Type, e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error { return e.cause }

// WithPlatform tags the error with the platform that produced it
func (e *Error) WithPlatform(platform string) *Error {
	e.Platform = platform
	return e
}

// fieldVariant tags which shape the "error" member of a payload had
type fieldVariant int

const (
	fieldNone fieldVariant = iota
	fieldString
	fieldObject
)

// ErrorField is the "error" member of a payload. OAuth draft 10 sends a
// plain string, OAuth draft 00 an object with message and type.
type ErrorField struct {
	variant fieldVariant
	str     string
	message string
	typ     string
}

// StringField builds the draft-10 variant
func StringField(s string) ErrorField {
	return ErrorField{variant: fieldString, str: s}
}

// ObjectField builds the draft-00 variant
func ObjectField(message, typ string) ErrorField {
	return ErrorField{variant: fieldObject, message: message, typ: typ}
}

// IsString reports whether the field was a plain string
func (f ErrorField) IsString() bool { return f.variant == fieldString }

// IsObject reports whether the field was a structured object
func (f ErrorField) IsObject() bool { return f.variant == fieldObject }

func (f *ErrorField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ErrorField{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = StringField(s)
	case data[0] == '{':
		var obj struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*f = ObjectField(obj.Message, obj.Type)
	default:
		// numbers, arrays and booleans carry nothing we can use
		*f = ErrorField{}
	}
	return nil
}

// Payload is a decoded error body in any of the known shapes
type Payload struct {
	ErrorCode        *int       `json:"error_code,omitempty"`
	ErrorDescription *string    `json:"error_description,omitempty"`
	Error            ErrorField `json:"error"`
	ErrorMsg         *string    `json:"error_msg,omitempty"`
}

// UnmarshalJSON accepts error_code as a number or a numeric string. A code
// that is neither is ignored rather than failing the whole payload.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw struct {
		ErrorCode        json.RawMessage `json:"error_code"`
		ErrorDescription *string         `json:"error_description"`
		Error            ErrorField      `json:"error"`
		ErrorMsg         *string         `json:"error_msg"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Payload{
		ErrorDescription: raw.ErrorDescription,
		Error:            raw.Error,
		ErrorMsg:         raw.ErrorMsg,
	}
	if code, ok := parseCode(raw.ErrorCode); ok {
		p.ErrorCode = &code
	}
	return nil
}

func parseCode(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	n := json.Number(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n = json.Number(strings.TrimSpace(s))
	}

	if i, err := n.Int64(); err == nil {
		return int(i), true
	}
	if f, err := n.Float64(); err == nil {
		return int(f), true
	}
	return 0, false
}

// ParsePayload decodes an error body
func ParsePayload(body []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// Normalizer resolves payloads into *Error values
type Normalizer struct {
	// DefaultType labels errors whose payload names no type
	DefaultType string
}

// Normalize resolves code, message and type from p. The resolution order is
// fixed: callers inspect these fields.
func (n Normalizer) Normalize(p Payload) *Error {
	e := &Error{Kind: KindAPI}

	if p.ErrorCode != nil {
		e.Code = *p.ErrorCode
	}

	switch {
	case p.ErrorDescription != nil:
		e.Message = *p.ErrorDescription
	case p.Error.IsObject():
		e.Message = p.Error.message
	case p.ErrorMsg != nil:
		e.Message = *p.ErrorMsg
	default:
		e.Message = unknownMessage
	}

	switch {
	case p.Error.IsString():
		e.Type = p.Error.str
	case p.Error.IsObject() && p.Error.typ != "":
		e.Type = p.Error.typ
	case n.DefaultType != "":
		e.Type = n.DefaultType
	default:
		e.Type = DefaultType
	}

	return e
}

// NormalizeBody parses body as a payload and normalizes it. A body that is
// not JSON becomes a decode error.
func (n Normalizer) NormalizeBody(body []byte) *Error {
	p, err := ParsePayload(body)
	if err != nil {
		return Decode(err, body)
	}
	return n.Normalize(p)
}

// Transport wraps a network level failure
func Transport(err error) *Error {
	e := &Error{
		Kind:    KindTransport,
		Type:    TypeTransport,
		Message: err.Error(),
		cause:   err,
	}
	var errno syscall.Errno
	if stderrors.As(err, &errno) {
		e.Code = int(errno)
	}
	return e
}

// Decode wraps a failure to decode a platform response
func Decode(err error, body []byte) *Error {
	msg := err.Error()
	if len(body) > 0 {
		snippet := body
		if len(snippet) > 120 {
			snippet = snippet[:120]
		}
		msg = fmt.Sprintf("%s (body: %q)", msg, snippet)
	}
	return &Error{Kind: KindDecode, Type: TypeDecode, Message: msg, cause: err}
}

// InvalidRequest reports a malformed inbound request
func InvalidRequest(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidRequest, Type: TypeInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an unknown or unconfigured resource
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Type: TypeNotFound, Message: fmt.Sprintf(format, args...)}
}

// RateLimited reports that the caller must slow down
func RateLimited(format string, args ...interface{}) *Error {
	return &Error{Kind: KindRateLimited, Type: TypeRateLimited, Message: fmt.Sprintf(format, args...)}
}

// As extracts an *Error from err
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsTimeout reports whether err was caused by a deadline
func IsTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrors.As(err, &ne) && ne.Timeout()
}

// HTTPStatus maps an error to the status code served to the caller
func HTTPStatus(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindTransport:
		if IsTimeout(e) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case KindAPI, KindDecode:
		return http.StatusBadGateway
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WireError is the JSON shape of an error served to clients
type WireError struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Wire converts any error into its client facing shape
func Wire(err error) WireError {
	if e, ok := As(err); ok {
		return WireError{Code: e.Code, Type: e.Type, Message: e.Message}
	}
	return WireError{Type: "InternalError", Message: err.Error()}
}
