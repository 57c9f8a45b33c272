package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/tableside/internal/floor"
)

const (
	snapshotCollection = "floor_state"
	snapshotDocumentID = "floor"
)

// SnapshotRepo keeps the whole floor as a single document.
type SnapshotRepo struct {
	collection *mongo.Collection
}

func NewSnapshotRepo(db *mongo.Database) *SnapshotRepo {
	return &SnapshotRepo{
		collection: db.Collection(snapshotCollection),
	}
}

type snapshotDocument struct {
	ID            string                  `bson:"_id"`
	Drafts        []floor.DraftRecord     `bson:"drafts"`
	KitchenOrders []kitchenOrderDocument  `bson:"kitchen_orders"`
	Occupancy     []floor.OccupancyRecord `bson:"occupancy"`
	Bills         []billDocument          `bson:"bills"`
	SavedAt       time.Time               `bson:"saved_at"`
}

type kitchenOrderDocument struct {
	ID        string           `bson:"id"`
	Table     int              `bson:"table"`
	Items     []floor.MenuItem `bson:"items"`
	Timestamp time.Time        `bson:"timestamp"`
	Status    string           `bson:"status"`
}

type billDocument struct {
	ID            string                 `bson:"id"`
	Table         int                    `bson:"table"`
	Timestamp     time.Time              `bson:"timestamp"`
	SourceOrders  []kitchenOrderDocument `bson:"source_orders"`
	Items         []floor.LineItem       `bson:"items"`
	GrandTotal    int64                  `bson:"grand_total"`
	PaymentStatus string                 `bson:"payment_status"`
}

func (r *SnapshotRepo) Load(ctx context.Context) (*floor.Snapshot, error) {
	var doc snapshotDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": snapshotDocumentID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot load floor snapshot: %w", err)
	}

	snap, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("cannot decode floor snapshot: %w", err)
	}
	return snap, nil
}

func (r *SnapshotRepo) Save(ctx context.Context, snap floor.Snapshot) error {
	doc := snapshotFromDomain(snap)
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": snapshotDocumentID}, doc, opts); err != nil {
		return fmt.Errorf("cannot save floor snapshot: %w", err)
	}
	return nil
}

// Clear removes the stored snapshot.
func (r *SnapshotRepo) Clear(ctx context.Context) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": snapshotDocumentID})
	if err != nil {
		return false, fmt.Errorf("cannot clear floor snapshot: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func snapshotFromDomain(snap floor.Snapshot) snapshotDocument {
	doc := snapshotDocument{
		ID:            snapshotDocumentID,
		Drafts:        snap.Drafts,
		KitchenOrders: make([]kitchenOrderDocument, 0, len(snap.KitchenOrders)),
		Occupancy:     snap.Occupancy,
		Bills:         make([]billDocument, 0, len(snap.Bills)),
		SavedAt:       snap.SavedAt,
	}
	for _, o := range snap.KitchenOrders {
		doc.KitchenOrders = append(doc.KitchenOrders, kitchenOrderFromDomain(o))
	}
	for _, b := range snap.Bills {
		doc.Bills = append(doc.Bills, billFromDomain(b))
	}
	return doc
}

func (d snapshotDocument) toDomain() (*floor.Snapshot, error) {
	snap := &floor.Snapshot{
		Drafts:        d.Drafts,
		KitchenOrders: make([]floor.KitchenOrder, 0, len(d.KitchenOrders)),
		Occupancy:     d.Occupancy,
		Bills:         make([]floor.Bill, 0, len(d.Bills)),
		SavedAt:       d.SavedAt,
	}
	for _, od := range d.KitchenOrders {
		o, err := od.toDomain()
		if err != nil {
			return nil, err
		}
		snap.KitchenOrders = append(snap.KitchenOrders, o)
	}
	for _, bd := range d.Bills {
		b, err := bd.toDomain()
		if err != nil {
			return nil, err
		}
		snap.Bills = append(snap.Bills, b)
	}
	return snap, nil
}

func kitchenOrderFromDomain(o floor.KitchenOrder) kitchenOrderDocument {
	return kitchenOrderDocument{
		ID:        o.ID.String(),
		Table:     o.Table,
		Items:     o.Items,
		Timestamp: o.Timestamp,
		Status:    o.Status,
	}
}

func (d kitchenOrderDocument) toDomain() (floor.KitchenOrder, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return floor.KitchenOrder{}, fmt.Errorf("invalid kitchen order id %q: %w", d.ID, err)
	}
	return floor.KitchenOrder{
		ID:        id,
		Table:     d.Table,
		Items:     d.Items,
		Timestamp: d.Timestamp,
		Status:    d.Status,
	}, nil
}

func billFromDomain(b floor.Bill) billDocument {
	doc := billDocument{
		ID:            b.ID.String(),
		Table:         b.Table,
		Timestamp:     b.Timestamp,
		SourceOrders:  make([]kitchenOrderDocument, 0, len(b.SourceOrders)),
		Items:         b.Items,
		GrandTotal:    b.GrandTotal,
		PaymentStatus: b.PaymentStatus,
	}
	for _, o := range b.SourceOrders {
		doc.SourceOrders = append(doc.SourceOrders, kitchenOrderFromDomain(o))
	}
	return doc
}

func (d billDocument) toDomain() (floor.Bill, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return floor.Bill{}, fmt.Errorf("invalid bill id %q: %w", d.ID, err)
	}

	b := floor.Bill{
		ID:            id,
		Table:         d.Table,
		Timestamp:     d.Timestamp,
		SourceOrders:  make([]floor.KitchenOrder, 0, len(d.SourceOrders)),
		Items:         d.Items,
		GrandTotal:    d.GrandTotal,
		PaymentStatus: d.PaymentStatus,
	}
	for _, od := range d.SourceOrders {
		o, err := od.toDomain()
		if err != nil {
			return floor.Bill{}, err
		}
		b.SourceOrders = append(b.SourceOrders, o)
	}
	return b, nil
}
