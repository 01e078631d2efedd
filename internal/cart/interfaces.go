package cart

import "context"

// Repository persists cart snapshots per session.
type Repository interface {
	// Load returns (nil, nil) when the session has no cart yet.
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}
