package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/google/uuid"

	"mareblu/internal/app/policies"
)

// VisitLog appends page visits to a capped-style analytics collection.
type VisitLog struct {
	col *mongo.Collection
}

func NewVisitLog(db *mongo.Database) *VisitLog {
	return &VisitLog{col: db.Collection("visits")}
}

func (l *VisitLog) Append(ctx context.Context, visit policies.Visit) error {
	doc := visitDocument{
		ID:      uuid.NewString(),
		Path:    visit.Path,
		IP:      visit.IP,
		Country: visit.Location.Country,
		Region:  visit.Location.Region,
		City:    visit.Location.City,
		At:      visit.At.UnixMilli(),
	}
	_, err := l.col.InsertOne(ctx, doc)
	return err
}

// Recent returns up to limit most recent visits, newest first.
func (l *VisitLog) Recent(ctx context.Context, limit int) ([]policies.Visit, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(int64(limit))
	cur, err := l.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []policies.Visit
	for cur.Next(ctx) {
		var doc visitDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, policies.Visit{
			Path: doc.Path,
			IP:   doc.IP,
			Location: policies.GeoLocation{
				Country: doc.Country,
				Region:  doc.Region,
				City:    doc.City,
			},
			At: timestampToTime(doc.At),
		})
	}
	return out, cur.Err()
}

type visitDocument struct {
	ID      string `bson:"_id"`
	Path    string `bson:"path"`
	IP      string `bson:"ip"`
	Country string `bson:"country"`
	Region  string `bson:"region"`
	City    string `bson:"city"`
	At      int64  `bson:"at"`
}
