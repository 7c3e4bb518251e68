package interfaces

import (
	"context"

	domaintypes "fishcrypt/internal/domain/types"
)

// Transport delivers wire lines to peers. The core never opens connections
// itself; it hands finished lines to a Transport.
type Transport interface {
	Deliver(ctx context.Context, envelope domaintypes.Envelope) error
	Fetch(
		ctx context.Context,
		recipient domaintypes.Target,
		limit int,
	) ([]domaintypes.Envelope, error)
	Ack(ctx context.Context, recipient domaintypes.Target, count int) error
}
