package messenger

import "context"

// Messenger delivers the run digest. Delivery is fire-and-forget from the
// pipeline's point of view; implementations may retry internally.
type Messenger interface {
	Send(ctx context.Context, channel, target, text string) error
}
