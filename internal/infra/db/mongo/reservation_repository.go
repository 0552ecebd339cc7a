package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mareblu/internal/domain/catalog"
	domainreservation "mareblu/internal/domain/reservation"
	"mareblu/internal/domain/shared/money"
	"mareblu/internal/domain/shared/stayperiod"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection("agg_reservation")}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ReservationID) (*domainreservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", domainreservation.ErrNotFound, id)
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	doc := newReservationDocument(res)
	filter := bson.M{"_id": doc.ID, "version": res.Version}
	doc.Version = res.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	out, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if out.MatchedCount == 0 && out.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	res.Version = doc.Version
	return nil
}

func (r *ReservationRepository) All(ctx context.Context) ([]*domainreservation.Reservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "period.check_in", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	return decodeReservations(ctx, cur)
}

func (r *ReservationRepository) OverlappingPeriod(ctx context.Context, period stayperiod.Period) ([]*domainreservation.Reservation, error) {
	filter := bson.M{
		"state":           bson.M{"$ne": string(domainreservation.StateCancelled)},
		"period.check_in": bson.M{"$lt": period.CheckOut.UnixMilli()},
		"period.check_out": bson.M{
			"$gt": period.CheckIn.UnixMilli(),
		},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	return decodeReservations(ctx, cur)
}

func decodeReservations(ctx context.Context, cur *mongo.Cursor) ([]*domainreservation.Reservation, error) {
	var out []*domainreservation.Reservation
	for cur.Next(ctx) {
		var doc reservationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type reservationDocument struct {
	ID         string         `bson:"_id"`
	GuestName  string         `bson:"guest_name"`
	GuestEmail string         `bson:"guest_email"`
	GuestPhone string         `bson:"guest_phone"`
	Apartments []string       `bson:"apartments"`
	Period     periodDocument `bson:"period"`
	Guests     int            `bson:"guests"`
	Quoted     moneyDocument  `bson:"quoted"`
	Deposit    moneyDocument  `bson:"deposit"`
	State      string         `bson:"state"`
	Payment    string         `bson:"payment"`
	Notes      string         `bson:"notes"`
	CreatedAt  int64          `bson:"created_at"`
	UpdatedAt  int64          `bson:"updated_at"`
	Version    int64          `bson:"version"`
}

type periodDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func newReservationDocument(res *domainreservation.Reservation) reservationDocument {
	apartments := make([]string, 0, len(res.Apartments))
	for _, id := range res.Apartments {
		apartments = append(apartments, string(id))
	}
	return reservationDocument{
		ID:         string(res.ID),
		GuestName:  res.GuestName,
		GuestEmail: res.GuestEmail,
		GuestPhone: res.GuestPhone,
		Apartments: apartments,
		Period:     periodDocument{CheckIn: res.Period.CheckIn.UnixMilli(), CheckOut: res.Period.CheckOut.UnixMilli()},
		Guests:     res.Guests,
		Quoted:     moneyDocument{Amount: res.Quoted.Amount, Currency: res.Quoted.Currency},
		Deposit:    moneyDocument{Amount: res.Deposit.Amount, Currency: res.Deposit.Currency},
		State:      string(res.State),
		Payment:    string(res.Payment),
		Notes:      res.Notes,
		CreatedAt:  res.CreatedAt.UnixMilli(),
		UpdatedAt:  res.UpdatedAt.UnixMilli(),
		Version:    res.Version,
	}
}

func (d reservationDocument) toAggregate() *domainreservation.Reservation {
	apartments := make([]catalog.ApartmentID, 0, len(d.Apartments))
	for _, id := range d.Apartments {
		apartments = append(apartments, catalog.ApartmentID(id))
	}
	return &domainreservation.Reservation{
		ID:         domainreservation.ReservationID(d.ID),
		GuestName:  d.GuestName,
		GuestEmail: d.GuestEmail,
		GuestPhone: d.GuestPhone,
		Apartments: apartments,
		Period: stayperiod.Period{
			CheckIn:  timestampToTime(d.Period.CheckIn),
			CheckOut: timestampToTime(d.Period.CheckOut),
		},
		Guests:    d.Guests,
		Quoted:    money.Money{Amount: d.Quoted.Amount, Currency: d.Quoted.Currency},
		Deposit:   money.Money{Amount: d.Deposit.Amount, Currency: d.Deposit.Currency},
		State:     domainreservation.State(d.State),
		Payment:   domainreservation.PaymentStatus(d.Payment),
		Notes:     d.Notes,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
