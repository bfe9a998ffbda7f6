// Package event describes record changes that clients can subscribe to.
package event

import (
	"context"
	"time"
)

// Op is the kind of change applied to a record
type Op string

const (
	OpCreated  Op = "created"
	OpUpdated  Op = "updated"
	OpDeleted  Op = "deleted"
	OpAdjusted Op = "adjusted"
)

// Collections that publish changes
const (
	CollectionCustomers = "customers"
	CollectionInventory = "inventory"
	CollectionSales     = "sales"
	CollectionPayments  = "payments"
	CollectionInvoices  = "invoices"
)

// Change is a notification that a record was written
type Change struct {
	Collection string    `json:"collection"`
	Op         Op        `json:"op"`
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
}

// Publisher fans changes out to subscribers
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// Subscriber delivers changes until ctx is done. The channel closes after that.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan Change, error)
}

// Broker is both ends of the change feed
type Broker interface {
	Publisher
	Subscriber
	Close() error
}
