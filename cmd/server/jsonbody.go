package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/histtext/insights/consts"
)

type malformedRequest struct {
	status int
	msg    string
}

func (mr *malformedRequest) Error() string {
	return mr.msg
}

// decodeJSONBody strictly decodes a single JSON object from the request body
// into dst, translating decoder failures into client-facing errors.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType := strings.TrimSpace(strings.Split(ct, ";")[0])
		if mediaType != "application/json" {
			return &malformedRequest{
				status: http.StatusUnsupportedMediaType,
				msg:    "Content-Type header is not application/json",
			}
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, consts.MaxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return &malformedRequest{
				status: http.StatusBadRequest,
				msg:    fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset),
			}
		case errors.Is(err, io.ErrUnexpectedEOF):
			return &malformedRequest{
				status: http.StatusBadRequest,
				msg:    "Request body contains badly-formed JSON",
			}
		case errors.As(err, &unmarshalTypeError):
			return &malformedRequest{
				status: http.StatusBadRequest,
				msg:    fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset),
			}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return &malformedRequest{
				status: http.StatusBadRequest,
				msg:    fmt.Sprintf("Request body contains unknown field %s", fieldName),
			}
		case errors.Is(err, io.EOF):
			return &malformedRequest{
				status: http.StatusBadRequest,
				msg:    "Request body must not be empty",
			}
		case errors.As(err, &maxBytesError):
			return &malformedRequest{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("Request body must not be larger than %d bytes", maxBytesError.Limit),
			}
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &malformedRequest{
			status: http.StatusBadRequest,
			msg:    "Request body must only contain a single JSON object",
		}
	}

	return nil
}
