package messaging

import (
	"context"

	"github.com/feral-file/nft-valuation/internal/domain"
)

// Publisher defines the interface for publishing collection events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes a collection event
	PublishEvent(ctx context.Context, event *domain.CollectionEvent) error
	// Close closes the connection
	Close()
}
