package app

import (
	"context"
	"fmt"
	"time"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/horoscope"
	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/domain/subscriber"
)

// ErrAdminNotAuthorized is returned when a non-operator calls an
// operator-only operation.
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")

// Stats is a point-in-time summary of the subscriber base.
type Stats struct {
	Total          int
	ByStyle        map[horoscope.Style]int
	BySign         map[horoscope.Sign]int
	DeliveredToday int
}

// AdminService answers operator queries about the subscriber base.
type AdminService struct {
	subs            subscriber.Repository
	adminTelegramID int64
}

func NewAdminService(sr subscriber.Repository, adminID int64) *AdminService {
	return &AdminService{
		subs:            sr,
		adminTelegramID: adminID,
	}
}

// Stats aggregates subscriber counts for the operator's /stats command.
func (s *AdminService) Stats(ctx context.Context, performingID int64, today time.Time) (*Stats, error) {
	if performingID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	subs, err := s.subs.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading subscribers: %w", err)
	}

	todayKey := horoscope.DateKey(today)
	stats := &Stats{
		ByStyle: make(map[horoscope.Style]int),
		BySign:  make(map[horoscope.Sign]int),
	}
	for _, rec := range subs {
		stats.Total++
		if rec.Style != "" {
			stats.ByStyle[rec.Style]++
		}
		if rec.Sign != "" {
			stats.BySign[rec.Sign]++
		}
		if rec.DeliveredOn(todayKey) {
			stats.DeliveredToday++
		}
	}
	return stats, nil
}
