package floor

import (
	"context"
	"time"
)

// Snapshot is the persisted form of the floor: the four state buckets.
// Pending settlements and the current selection are session state and
// are not persisted.
type Snapshot struct {
	Drafts        []DraftRecord     `json:"drafts" bson:"drafts"`
	KitchenOrders []KitchenOrder    `json:"kitchen_orders" bson:"kitchen_orders"`
	Occupancy     []OccupancyRecord `json:"occupancy" bson:"occupancy"`
	Bills         []Bill            `json:"bills" bson:"bills"`
	SavedAt       time.Time         `json:"saved_at" bson:"saved_at"`
}

type DraftRecord struct {
	Table int        `json:"table" bson:"table"`
	Items []MenuItem `json:"items" bson:"items"`
}

type OccupancyRecord struct {
	Table     int    `json:"table" bson:"table"`
	Occupancy string `json:"occupancy" bson:"occupancy"`
}

// Store persists floor snapshots. Load returns a nil snapshot when
// nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

// Authorizer approves administrative actions on the ledger.
type Authorizer interface {
	Authorize(ctx context.Context, credential string) bool
}

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notifier is a fire-and-forget sink for user-facing messages.
type Notifier interface {
	Notify(ctx context.Context, kind NotificationKind, message string)
}

// PersistenceReporter observes the outcome of every save.
type PersistenceReporter interface {
	ReportPersistence(err error)
}
