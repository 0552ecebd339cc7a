package policies

import (
	"context"
	"time"
)

// QuoteEmail carries the structured fields the serverless mail function
// expects; the function owns templating and delivery.
type QuoteEmail struct {
	To        string
	GuestName string
	Subject   string
	Body      string
}

// Mailer hands a quote email off to the external mail service.
type Mailer interface {
	SendQuoteEmail(ctx context.Context, email QuoteEmail) error
}

// GeoLocation is what the geo-IP provider resolves for a visitor address.
type GeoLocation struct {
	Country string
	Region  string
	City    string
}

// GeoResolver maps a visitor IP to a coarse location.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) (GeoLocation, error)
}

// Visit is one logged page view with its resolved location.
type Visit struct {
	Path     string
	IP       string
	Location GeoLocation
	At       time.Time
}

// VisitLog persists page visits for the analytics dashboard.
type VisitLog interface {
	Append(ctx context.Context, visit Visit) error
}
