package client

import (
	"encoding/base64"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/protobuf/proto"

	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

const badRequestType = "google.rpc.BadRequest"

// wireError is the JSON body of a Connect unary error response.
type wireError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []wireDetail `json:"details"`
}

type wireDetail struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// remoteError keeps the server message while matching the local sentinel errors.
type remoteError struct {
	message  string
	sentinel error
}

func (e *remoteError) Error() string {
	return e.message
}

func (e *remoteError) Unwrap() error {
	return e.sentinel
}

func decodeError(status int, body *wireError) *connect.Error {
	if body == nil {
		body = &wireError{}
	}

	code := codeFromHTTPStatus(status)
	if body.Code != "" {
		var parsed connect.Code
		if err := parsed.UnmarshalText([]byte(body.Code)); err == nil {
			code = parsed
		}
	}
	message := body.Message
	if message == "" {
		message = http.StatusText(status)
	}

	var violations []*errdetails.BadRequest_FieldViolation
	for _, detail := range body.Details {
		if detail.Type != badRequestType {
			continue
		}
		raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(detail.Value, "="))
		if err != nil {
			continue
		}
		var badRequest errdetails.BadRequest
		if err := proto.Unmarshal(raw, &badRequest); err != nil {
			continue
		}
		violations = append(violations, badRequest.GetFieldViolations()...)
	}

	connectErr := connect.NewError(code, &remoteError{
		message:  message,
		sentinel: sentinelFor(code, violations),
	})
	if len(violations) > 0 {
		if detail, err := connect.NewErrorDetail(&errdetails.BadRequest{
			FieldViolations: violations,
		}); err == nil {
			connectErr.AddDetail(detail)
		}
	}
	return connectErr
}

func sentinelFor(code connect.Code, violations []*errdetails.BadRequest_FieldViolation) error {
	switch code {
	case connect.CodeNotFound:
		return schedule.ErrNotFound
	case connect.CodeAborted:
		return schedule.ErrStaleRecord
	case connect.CodeInvalidArgument:
		for _, violation := range violations {
			switch violation.GetField() {
			case "item_id":
				return scheduler.ErrEmptyItemID
			case "difficulty":
				return scheduler.ErrInvalidDifficulty
			}
		}
	}
	return nil
}

// codeFromHTTPStatus maps responses that carry no Connect error body.
func codeFromHTTPStatus(status int) connect.Code {
	switch status {
	case http.StatusBadRequest:
		return connect.CodeInternal
	case http.StatusUnauthorized:
		return connect.CodeUnauthenticated
	case http.StatusForbidden:
		return connect.CodePermissionDenied
	case http.StatusNotFound:
		return connect.CodeUnimplemented
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return connect.CodeUnavailable
	}
	return connect.CodeUnknown
}
