package floor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/appetiteclub/tableside/pkg/enums/orderstatus"
)

const (
	DefaultTableCount = 8

	OccupancyActive  = "active"
	OccupancyVacated = "vacated"
)

// Floor owns the whole application state: drafts, kitchen queue, table
// occupancy and the ledger. Every operation runs under one mutex, then
// persists a snapshot before returning.
type Floor struct {
	mu sync.Mutex

	catalog    *Catalog
	tableCount int
	store      Store
	authorizer Authorizer
	notifier   Notifier
	publisher  events.Publisher
	health     PersistenceReporter
	logger     apt.Logger
	now        func() time.Time
	newID      func() uuid.UUID

	selected  int
	drafts    map[int][]MenuItem
	queue     []*KitchenOrder
	occupancy map[int]string
	bills     []*Bill
	pending   map[int]*Settlement
}

type Deps struct {
	Catalog    *Catalog
	TableCount int
	Store      Store
	Authorizer Authorizer
	Notifier   Notifier
	Publisher  events.Publisher
	Health     PersistenceReporter
	Clock      func() time.Time
	NewID      func() uuid.UUID
}

func New(deps Deps, logger apt.Logger) *Floor {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	tableCount := deps.TableCount
	if tableCount <= 0 {
		tableCount = DefaultTableCount
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	newID := deps.NewID
	if newID == nil {
		newID = apt.GenerateNewID
	}

	return &Floor{
		catalog:    deps.Catalog,
		tableCount: tableCount,
		store:      deps.Store,
		authorizer: deps.Authorizer,
		notifier:   deps.Notifier,
		publisher:  deps.Publisher,
		health:     deps.Health,
		logger:     logger,
		now:        clock,
		newID:      newID,
		drafts:     make(map[int][]MenuItem),
		occupancy:  make(map[int]string),
		pending:    make(map[int]*Settlement),
	}
}

func (f *Floor) TableCount() int {
	return f.tableCount
}

func (f *Floor) Catalog() *Catalog {
	return f.catalog
}

// Restore loads the last snapshot. Missing or unreadable data leaves the
// floor empty. Occupancy markers are always discarded so that no table
// stays stuck across restarts.
func (f *Floor) Restore(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.store == nil {
		f.logger.Info("no store configured, floor starts empty")
		return nil
	}

	snap, err := f.store.Load(ctx)
	if err != nil {
		f.logger.Info("cannot load floor snapshot, starting empty", "error", err)
		return nil
	}
	if snap == nil {
		f.logger.Info("no floor snapshot found, starting empty")
		return nil
	}

	f.applySnapshotLocked(snap)
	f.logger.Info("floor restored",
		"drafts", len(f.drafts),
		"kitchen_orders", len(f.queue),
		"bills", len(f.bills))
	return nil
}

func (f *Floor) applySnapshotLocked(snap *Snapshot) {
	f.drafts = make(map[int][]MenuItem)
	for _, d := range snap.Drafts {
		if !f.validTable(d.Table) {
			continue
		}
		f.drafts[d.Table] = append([]MenuItem(nil), d.Items...)
	}

	f.queue = f.queue[:0]
	for i := range snap.KitchenOrders {
		o := snap.KitchenOrders[i]
		if o.Status == "" {
			o.Status = orderstatus.Statuses.Pending.Code()
		}
		f.queue = append(f.queue, &o)
	}

	f.bills = f.bills[:0]
	for i := range snap.Bills {
		b := snap.Bills[i]
		f.bills = append(f.bills, &b)
	}

	// Persisted occupancy is deliberately ignored.
	f.occupancy = make(map[int]string)
	f.pending = make(map[int]*Settlement)
	f.selected = 0
}

// Snapshot returns a deep copy of the persistable state.
func (f *Floor) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Floor) snapshotLocked() Snapshot {
	snap := Snapshot{
		Drafts:        make([]DraftRecord, 0, len(f.drafts)),
		KitchenOrders: make([]KitchenOrder, 0, len(f.queue)),
		Occupancy:     make([]OccupancyRecord, 0, len(f.occupancy)),
		Bills:         make([]Bill, 0, len(f.bills)),
		SavedAt:       f.now(),
	}

	for table, items := range f.drafts {
		snap.Drafts = append(snap.Drafts, DraftRecord{Table: table, Items: append([]MenuItem{}, items...)})
	}
	sort.Slice(snap.Drafts, func(i, j int) bool { return snap.Drafts[i].Table < snap.Drafts[j].Table })

	for _, o := range f.queue {
		snap.KitchenOrders = append(snap.KitchenOrders, o.clone())
	}

	for table, occ := range f.occupancy {
		snap.Occupancy = append(snap.Occupancy, OccupancyRecord{Table: table, Occupancy: occ})
	}
	sort.Slice(snap.Occupancy, func(i, j int) bool { return snap.Occupancy[i].Table < snap.Occupancy[j].Table })

	for _, b := range f.bills {
		snap.Bills = append(snap.Bills, b.clone())
	}

	return snap
}

// persistLocked writes the snapshot. A failed save never undoes the
// mutation that preceded it.
func (f *Floor) persistLocked(ctx context.Context) {
	if f.store == nil {
		return
	}

	err := f.store.Save(ctx, f.snapshotLocked())
	if f.health != nil {
		f.health.ReportPersistence(err)
	}
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
		f.logger.Error("cannot persist floor snapshot", "error", wrapped)
		f.notify(ctx, NotifyError, "Changes could not be saved, continuing in memory")
	}
}

func (f *Floor) notify(ctx context.Context, kind NotificationKind, format string, args ...interface{}) {
	if f.notifier == nil {
		return
	}
	f.notifier.Notify(ctx, kind, fmt.Sprintf(format, args...))
}

// fail reports err to the notifier and hands it back to the caller.
func (f *Floor) fail(ctx context.Context, err error) error {
	f.notify(ctx, NotifyError, "%s", err.Error())
	return err
}

func (f *Floor) publish(ctx context.Context, topic string, payload interface{}) {
	if f.publisher == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		f.logger.Error("cannot marshal floor event", "topic", topic, "error", err)
		return
	}

	if err := f.publisher.Publish(ctx, topic, data); err != nil {
		f.logger.Info("cannot publish floor event", "topic", topic, "error", err)
	}
}

func (f *Floor) validTable(table int) bool {
	return table >= 1 && table <= f.tableCount
}

// checkTable resolves the "no table" and "out of range" cases shared by
// every table-scoped operation.
func (f *Floor) checkTable(table int) error {
	if table == 0 {
		return ErrNoTableSelected
	}
	if !f.validTable(table) {
		return fmt.Errorf("%w: %d", ErrInvalidTable, table)
	}
	return nil
}
