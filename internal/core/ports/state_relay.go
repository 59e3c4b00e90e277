package ports

import (
	"context"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// StateRelay fans auth-state changes out to other processes.
type StateRelay interface {
	Publish(ctx context.Context, change domain.StateChange) error
}

// StateChangeHandler applies a state change received from another process.
type StateChangeHandler interface {
	HandleRemoteChange(ctx context.Context, change domain.StateChange)
}
