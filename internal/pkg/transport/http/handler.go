package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"
	"github.com/propferry/route-search-gateway/internal/pkg/exception"
)

type DecodeRequestFunc func(ctx context.Context, r *http.Request) (interface{}, error)

type EncodeResponseFunc func(ctx context.Context, w http.ResponseWriter, response interface{}) error

// MakeHandlerFunc adapts a go-kit endpoint into an http.HandlerFunc
// with the shared decode/encode/error conventions.
func MakeHandlerFunc(
	ep endpoint.Endpoint,
	decode DecodeRequestFunc,
	encode EncodeResponseFunc,
) http.HandlerFunc {
	return func(respWriter http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		request, err := decode(ctx, req)
		if err != nil {
			ErrorResponse(ctx, err, respWriter)

			return
		}

		response, err := ep(ctx, request)
		if err != nil {
			ErrorResponse(ctx, err, respWriter)

			return
		}

		if err := encode(ctx, respWriter, response); err != nil {
			ErrorResponse(ctx, err, respWriter)
		}
	}
}

// DecodeRequest decodes a JSON body into *T and runs its Bind
// validation when T implements render.Binder. Body decode failures
// surface as 400s, not internal errors.
func DecodeRequest[T any](_ context.Context, req *http.Request) (interface{}, error) {
	request := new(T)

	if binder, ok := any(request).(render.Binder); ok {
		if err := render.Bind(req, binder); err != nil {
			var appErr exception.ApplicationError
			if errors.As(err, &appErr) {
				return nil, err
			}

			return nil, exception.ApplicationError{
				StatusCode: http.StatusBadRequest,
				Message:    "invalid request body",
				Cause:      err,
			}
		}
	}

	return request, nil
}
