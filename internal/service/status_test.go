package service

import (
	"errors"
	"testing"

	"bistro/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{name: "pending to preparing", from: model.StatusPending, to: model.StatusPreparing},
		{name: "preparing to ready", from: model.StatusPreparing, to: model.StatusReady},
		{name: "ready to served", from: model.StatusReady, to: model.StatusServed},
		{name: "skip forward allowed", from: model.StatusPending, to: model.StatusServed},
		{name: "backward rejected", from: model.StatusReady, to: model.StatusPreparing, wantErr: ErrInvalidStatus},
		{name: "same status rejected", from: model.StatusPreparing, to: model.StatusPreparing, wantErr: ErrInvalidStatus},
		{name: "unknown status rejected", from: model.StatusPending, to: "Delivered", wantErr: ErrInvalidStatus},
		{name: "cancel pending", from: model.StatusPending, to: model.StatusCancelled},
		{name: "cancel ready", from: model.StatusReady, to: model.StatusCancelled},
		{name: "cancel served rejected", from: model.StatusServed, to: model.StatusCancelled, wantErr: ErrOrderTerminal},
		{name: "cancel cancelled rejected", from: model.StatusCancelled, to: model.StatusCancelled, wantErr: ErrOrderTerminal},
		{name: "served is terminal", from: model.StatusServed, to: model.StatusPreparing, wantErr: ErrOrderTerminal},
		{name: "cancelled is terminal", from: model.StatusCancelled, to: model.StatusReady, wantErr: ErrOrderTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := canTransition(tt.from, tt.to)
			if tt.wantErr == nil && err != nil {
				t.Errorf("canTransition(%s, %s) = %v, want nil", tt.from, tt.to, err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("canTransition(%s, %s) = %v, want %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}
