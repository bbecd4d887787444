package util

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"
	"gotest.tools/v3/assert"

	"github.com/mpapenbr/racelog-analytics/pkg/model"
	"github.com/mpapenbr/racelog-analytics/pkg/repository/api"
)

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"unknown race", fmt.Errorf("%w: r1", api.ErrUnknownRace), connect.CodeNotFound},
		{"unknown driver", fmt.Errorf("%w: %w", api.ErrUnknownDriver, api.ErrNoRows), connect.CodeNotFound},
		{"insufficient", model.ErrInsufficientDrivers, connect.CodeInvalidArgument},
		{"not applicable", model.ErrNotApplicable, connect.CodeFailedPrecondition},
		{"deadline", context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{"other", errors.New("boom"), connect.CodeInternal},
		{"keep code", connect.NewError(connect.CodeUnavailable, errors.New("x")), connect.CodeUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connect.CodeOf(ToConnectError(tt.err)))
		})
	}
	assert.NilError(t, ToConnectError(nil))
}
