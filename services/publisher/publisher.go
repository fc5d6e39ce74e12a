package publisher

import "tnu/pricetracker/internal/domain"

// Publisher pushes recorded price checks to downstream consumers
// (alerting, dashboards). Publishing is optional and never blocks a run.
type Publisher interface {
	// PublishCheck publishes one recorded check
	PublishCheck(check *domain.PriceCheck) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
