package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePayloadShapes(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCode    int
		wantMessage string
		wantType    string
	}{
		{
			name:        "oauth draft 10",
			body:        `{"error":"invalid_token","error_description":"The access token expired"}`,
			wantMessage: "The access token expired",
			wantType:    "invalid_token",
		},
		{
			name:        "oauth draft 00",
			body:        `{"error":{"message":"Invalid OAuth access token.","type":"OAuthException"}}`,
			wantMessage: "Invalid OAuth access token.",
			wantType:    "OAuthException",
		},
		{
			name:        "rest style",
			body:        `{"error_code":17,"error_msg":"User request limit reached"}`,
			wantCode:    17,
			wantMessage: "User request limit reached",
			wantType:    "APIException",
		},
		{
			name:        "unknown shape",
			body:        `{"something":"else"}`,
			wantMessage: "Unknown Error",
			wantType:    "APIException",
		},
		{
			name:        "description wins over object message",
			body:        `{"error":{"message":"from object","type":"T"},"error_description":"from description","error_msg":"from msg"}`,
			wantMessage: "from description",
			wantType:    "T",
		},
		{
			name:        "object message wins over error_msg",
			body:        `{"error":{"message":"from object"},"error_msg":"from msg","error_code":4}`,
			wantCode:    4,
			wantMessage: "from object",
			wantType:    "APIException",
		},
		{
			name:        "string error with error_msg",
			body:        `{"error":"access_denied","error_msg":"denied"}`,
			wantMessage: "denied",
			wantType:    "access_denied",
		},
		{
			name:        "numeric error member is ignored",
			body:        `{"error":42}`,
			wantMessage: "Unknown Error",
			wantType:    "APIException",
		},
	}

	n := Normalizer{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload([]byte(tt.body))
			require.NoError(t, err)

			e := n.Normalize(p)
			assert.Equal(t, KindAPI, e.Kind)
			assert.Equal(t, tt.wantCode, e.Code)
			assert.Equal(t, tt.wantMessage, e.Message)
			assert.Equal(t, tt.wantType, e.Type)
		})
	}
}

func TestNormalizerDefaultType(t *testing.T) {
	e := Normalizer{DefaultType: "InstagramAPIException"}.Normalize(Payload{})
	assert.Equal(t, "InstagramAPIException", e.Type)
	assert.Equal(t, "Unknown Error", e.Message)
}

func TestParsePayloadErrorCodeShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantNil  bool
	}{
		{"number", `{"error_code":190,"error_msg":"expired"}`, 190, false},
		{"numeric string", `{"error_code":"190","error_msg":"expired"}`, 190, false},
		{"padded string", `{"error_code":" 17 "}`, 17, false},
		{"float", `{"error_code":4.0}`, 4, false},
		{"word", `{"error_code":"OAuthException"}`, 0, true},
		{"null", `{"error_code":null}`, 0, true},
		{"boolean", `{"error_code":true}`, 0, true},
		{"absent", `{"error_msg":"x"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload([]byte(tt.body))
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, p.ErrorCode)
				return
			}
			require.NotNil(t, p.ErrorCode)
			assert.Equal(t, tt.wantCode, *p.ErrorCode)
		})
	}
}

func TestNormalizeBodyStringCode(t *testing.T) {
	e := Normalizer{}.NormalizeBody([]byte(`{"error_code":"190","error":{"message":"Invalid OAuth access token.","type":"OAuthException"}}`))
	assert.Equal(t, KindAPI, e.Kind)
	assert.Equal(t, 190, e.Code)
	assert.Equal(t, "OAuthException", e.Type)
	assert.Equal(t, "Invalid OAuth access token.", e.Message)
}

func TestErrorString(t *testing.T) {
	e := &Error{Type: "OAuthException", Code: 190, Message: "bad token"}
	assert.Equal(t, "OAuthException: 190: bad token", e.Error())

	e.Code = 0
	assert.Equal(t, "OAuthException: bad token", e.Error())
}

func TestNormalizeBodyNotJSON(t *testing.T) {
	e := Normalizer{}.NormalizeBody([]byte("<html>502</html>"))
	assert.Equal(t, KindDecode, e.Kind)
	assert.Contains(t, e.Message, "<html>")
}

func TestTransport(t *testing.T) {
	cause := fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED)
	e := Transport(cause)

	assert.Equal(t, KindTransport, e.Kind)
	assert.Equal(t, TypeTransport, e.Type)
	assert.Equal(t, int(syscall.ECONNREFUSED), e.Code)
	assert.True(t, stderrors.Is(e, syscall.ECONNREFUSED))

	plain := Transport(stderrors.New("tls: bad certificate"))
	assert.Equal(t, 0, plain.Code)
	assert.Equal(t, "TransportException: tls: bad certificate", plain.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"transport", Transport(stderrors.New("refused")), http.StatusBadGateway},
		{"timeout", Transport(fmt.Errorf("get: %w", context.DeadlineExceeded)), http.StatusGatewayTimeout},
		{"api", Normalizer{}.Normalize(Payload{}), http.StatusBadGateway},
		{"decode", Decode(stderrors.New("eof"), nil), http.StatusBadGateway},
		{"invalid", InvalidRequest("bad LID"), http.StatusBadRequest},
		{"not found", NotFound("platform %q", "myspace"), http.StatusNotFound},
		{"rate limited", RateLimited("slow down"), http.StatusTooManyRequests},
		{"wrapped", fmt.Errorf("fetch: %w", NotFound("x")), http.StatusNotFound},
		{"foreign", stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWire(t *testing.T) {
	w := Wire(&Error{Kind: KindAPI, Code: 400, Type: "OAuthException", Message: "nope"})
	assert.Equal(t, WireError{Code: 400, Type: "OAuthException", Message: "nope"}, w)

	w = Wire(stderrors.New("boom"))
	assert.Equal(t, "InternalError", w.Type)
	assert.Equal(t, "boom", w.Message)
}
