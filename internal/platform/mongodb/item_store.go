package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/platform/logger"
	"github.com/stockpile/stockpile-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	fieldID        = "_id"
	fieldQuantity  = "quantity"
	fieldUserEmail = "userEmail"
)

// itemDocument is the stored shape of an item. Attributes are inlined so
// the collection keeps the flat documents clients send.
type itemDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Quantity   int64              `bson:"quantity"`
	UserEmail  string             `bson:"userEmail,omitempty"`
	Attributes bson.M             `bson:",inline"`
}

func toDocument(item *domain.Item) itemDocument {
	doc := itemDocument{
		Quantity:  item.Quantity,
		UserEmail: item.UserEmail,
	}
	if len(item.Attributes) > 0 {
		doc.Attributes = make(bson.M, len(item.Attributes))
		for k, v := range item.Attributes {
			switch k {
			case fieldID, fieldQuantity, fieldUserEmail:
				continue
			}
			doc.Attributes[k] = v
		}
	}
	return doc
}

func (d itemDocument) toDomain() *domain.Item {
	item := &domain.Item{
		ID:        d.ID.Hex(),
		Quantity:  d.Quantity,
		UserEmail: d.UserEmail,
	}
	if len(d.Attributes) > 0 {
		item.Attributes = map[string]any(d.Attributes)
	}
	return item
}

func filterDocument(f store.ItemFilter) bson.M {
	if f.IsEmpty() {
		return bson.M{}
	}
	return bson.M{fieldUserEmail: f.UserEmail}
}

// floorIncrement adds delta to quantity and clamps the result at zero in a
// single server-side pipeline update.
func floorIncrement(delta int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: fieldQuantity, Value: bson.D{
				{Key: "$max", Value: bson.A{
					int64(0),
					bson.D{{Key: "$add", Value: bson.A{
						bson.D{{Key: "$ifNull", Value: bson.A{"$" + fieldQuantity, int64(0)}}},
						delta,
					}}},
				}},
			}},
		}}},
	}
}

// incrementFilter matches the item and, for positive deltas, only while the
// sum stays within int64. $add would otherwise promote the field to a double.
func incrementFilter(oid primitive.ObjectID, delta int64) bson.D {
	filter := bson.D{{Key: fieldID, Value: oid}}
	if delta > 0 {
		filter = append(filter, bson.E{Key: "$expr", Value: bson.D{{Key: "$lte", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$" + fieldQuantity, int64(0)}}},
			math.MaxInt64 - delta,
		}}}})
	}
	return filter
}

// ListItems implements store.ItemStore. Results are ordered by _id so that
// consecutive windows do not overlap.
func (s *Store) ListItems(
	ctx context.Context,
	filter store.ItemFilter,
	window pagination.Window,
) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	opts := options.Find().SetSort(bson.D{{Key: fieldID, Value: 1}})
	if !window.All {
		opts.SetSkip(window.Offset).SetLimit(window.Limit)
	}

	cur, err := s.items.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		log.Error("failed to list items", slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "list", "find failed", MapError(err))
	}
	defer cur.Close(ctx)

	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		log.Error("failed to decode items", slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "list", "decode failed", MapError(err))
	}

	items := make([]*domain.Item, len(docs))
	for i := range docs {
		items[i] = docs[i].toDomain()
	}

	log.Debug("items listed",
		slog.Int("count", len(items)),
		slog.Bool("owner_filter", !filter.IsEmpty()),
		slog.Int64("offset", window.Offset),
		slog.Int64("limit", window.Limit))
	return items, nil
}

// CountItems implements store.ItemStore. The unfiltered count uses the
// collection metadata estimate.
func (s *Store) CountItems(ctx context.Context, filter store.ItemFilter) (int64, error) {
	var (
		n   int64
		err error
	)
	if filter.IsEmpty() {
		n, err = s.items.EstimatedDocumentCount(ctx)
	} else {
		n, err = s.items.CountDocuments(ctx, filterDocument(filter))
	}
	if err != nil {
		return 0, store.NewStoreError("item", "count", "count failed", MapError(err))
	}
	return n, nil
}

// GetItem implements store.ItemStore.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc itemDocument
	err = s.items.FindOne(ctx, bson.M{fieldID: oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrItemNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("item", "get", "find failed", MapError(err))
	}

	return doc.toDomain(), nil
}

// InsertItem implements store.ItemStore.
func (s *Store) InsertItem(ctx context.Context, item *domain.Item) (*store.InsertResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	doc := toDocument(item)
	doc.ID = primitive.NewObjectID()

	if _, err := s.items.InsertOne(ctx, doc); err != nil {
		log.Error("failed to insert item", slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "insert", "insert failed", MapError(err))
	}

	item.ID = doc.ID.Hex()
	log.Info("item inserted", slog.String("item_id", item.ID))
	return &store.InsertResult{Acknowledged: true, InsertedID: item.ID}, nil
}

// IncrementQuantity implements store.ItemStore.
func (s *Store) IncrementQuantity(ctx context.Context, id string, delta int64) (*store.UpdateResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	res, err := s.items.UpdateOne(ctx, incrementFilter(oid, delta), floorIncrement(delta))
	if err != nil {
		return nil, store.NewStoreError("item", "update", "quantity update failed", MapError(err))
	}

	if delta > 0 && res.MatchedCount == 0 {
		n, err := s.items.CountDocuments(ctx, bson.M{fieldID: oid}, options.Count().SetLimit(1))
		if err != nil {
			return nil, store.NewStoreError("item", "update", "quantity update failed", MapError(err))
		}
		if n > 0 {
			return nil, domain.NewQuantityOverflowError()
		}
	}

	return toUpdateResult(res), nil
}

// DeleteItem implements store.ItemStore.
func (s *Store) DeleteItem(ctx context.Context, id string) (*store.DeleteResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	res, err := s.items.DeleteOne(ctx, bson.M{fieldID: oid})
	if err != nil {
		return nil, store.NewStoreError("item", "delete", "delete failed", MapError(err))
	}

	return &store.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func toUpdateResult(res *mongo.UpdateResult) *store.UpdateResult {
	out := &store.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		hex := oid.Hex()
		out.UpsertedID = &hex
	} else if res.UpsertedID != nil {
		s := fmt.Sprint(res.UpsertedID)
		out.UpsertedID = &s
	}
	return out
}
