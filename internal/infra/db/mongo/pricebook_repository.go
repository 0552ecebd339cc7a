package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/pricing"
	"mareblu/internal/domain/shared/money"
)

// PriceStore persists the weekly price table. One document per apartment-week,
// keyed "<apartment>|<week>" so upserts are idempotent.
type PriceStore struct {
	col *mongo.Collection
}

func NewPriceStore(db *mongo.Database) *PriceStore {
	return &PriceStore{col: db.Collection("price_weeks")}
}

func (s *PriceStore) Upsert(ctx context.Context, entries []pricing.WeeklyPrice) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(entries))
	for _, entry := range entries {
		doc := priceDocument{
			ID:          string(entry.ApartmentID) + "|" + entry.WeekStart,
			ApartmentID: string(entry.ApartmentID),
			WeekStart:   entry.WeekStart,
			Price:       moneyDocument{Amount: entry.Price.Amount, Currency: entry.Price.Currency},
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.ID}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	_, err := s.col.BulkWrite(ctx, models)
	return err
}

func (s *PriceStore) All(ctx context.Context) ([]pricing.WeeklyPrice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "apartment_id", Value: 1}, {Key: "week_start", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []pricing.WeeklyPrice
	for cur.Next(ctx) {
		var doc priceDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, pricing.WeeklyPrice{
			ApartmentID: catalog.ApartmentID(doc.ApartmentID),
			WeekStart:   doc.WeekStart,
			Price:       money.Money{Amount: doc.Price.Amount, Currency: doc.Price.Currency},
		})
	}
	return out, cur.Err()
}

type priceDocument struct {
	ID          string        `bson:"_id"`
	ApartmentID string        `bson:"apartment_id"`
	WeekStart   string        `bson:"week_start"`
	Price       moneyDocument `bson:"price"`
}
