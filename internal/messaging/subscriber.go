package messaging

import (
	"context"

	"github.com/feral-file/nft-valuation/internal/domain"
)

// EventHandler is called for every received collection event
type EventHandler func(ctx context.Context, event *domain.CollectionEvent) error

// Subscriber delivers collection events to a handler until the context is done
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// Subscribe blocks, delivering events to handler until ctx is cancelled
	Subscribe(ctx context.Context, handler EventHandler) error
	// Close closes the connection and cleans up resources
	Close()
}
