package visits

import (
	"context"
	"errors"
	"strings"
	"time"

	"mareblu/internal/app/commands"
	"mareblu/internal/app/policies"
)

const logVisitKey = "visits.log"

var ErrPathRequired = errors.New("visits: path is required")

type LogVisitCommand struct {
	Path string
	IP   string
}

func (c LogVisitCommand) Key() string { return logVisitKey }

type LogVisitResult struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// LogVisitHandler records one page view with its geo-resolved origin. A
// failing geo lookup degrades to an unlocated visit rather than losing it.
type LogVisitHandler struct {
	Geo      policies.GeoResolver
	VisitLog policies.VisitLog
	Now      func() time.Time
}

func (h *LogVisitHandler) Handle(ctx context.Context, cmd LogVisitCommand) (*LogVisitResult, error) {
	path := strings.TrimSpace(cmd.Path)
	if path == "" {
		return nil, ErrPathRequired
	}

	location := policies.GeoLocation{}
	if h.Geo != nil && cmd.IP != "" {
		if resolved, err := h.Geo.Resolve(ctx, cmd.IP); err == nil {
			location = resolved
		}
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now()
	}
	visit := policies.Visit{Path: path, IP: cmd.IP, Location: location, At: now}
	if err := h.VisitLog.Append(ctx, visit); err != nil {
		return nil, err
	}
	return &LogVisitResult{Country: location.Country, City: location.City}, nil
}

var _ commands.Handler[LogVisitCommand, *LogVisitResult] = (*LogVisitHandler)(nil)
