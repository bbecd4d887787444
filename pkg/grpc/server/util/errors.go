package util

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/api"
)

// ToConnectError maps domain errors to connect codes.
// Errors already carrying a code are returned unchanged.
func ToConnectError(err error) error {
	if err == nil {
		return nil
	}
	var cErr *connect.Error
	switch {
	case errors.As(err, &cErr):
		return err
	case errors.Is(err, api.ErrUnknownRace),
		errors.Is(err, api.ErrUnknownDriver),
		errors.Is(err, api.ErrNoRows):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, model.ErrInsufficientDrivers):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, model.ErrNotApplicable):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// InvalidArgument creates an error for rejected request parameters
func InvalidArgument(err error) error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}
