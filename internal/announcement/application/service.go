package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmehra2102/Bookstore-Order-System/internal/announcement/domain"
)

// EventFn builds the outbox payload once the stored announcement (with
// its assigned ID) is known.
type EventFn func(a domain.Announcement) (eventType string, payload []byte, err error)

type AnnouncementRepository interface {
	// CreateWithOutbox persists the announcement and its published event
	// in one transaction.
	CreateWithOutbox(ctx context.Context, a domain.Announcement, headers map[string]string, traceparent string, eventFn EventFn) (domain.Announcement, error)
	Update(ctx context.Context, a domain.Announcement) (domain.Announcement, error)
	Delete(ctx context.Context, id int64) error
	ListActive(ctx context.Context, now time.Time) ([]domain.Announcement, error)
}

type Service struct {
	repo AnnouncementRepository
}

func NewService(repo AnnouncementRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, a domain.Announcement, headers map[string]string, traceparent string) (domain.Announcement, error) {
	if err := a.Validate(); err != nil {
		return domain.Announcement{}, err
	}
	eventFn := func(stored domain.Announcement) (string, []byte, error) {
		payload, err := json.Marshal(domain.AnnouncementPublished{
			AnnouncementID: stored.ID,
			Title:          stored.Title,
			StartsAt:       stored.StartsAt,
			EndsAt:         stored.EndsAt,
		})
		return domain.EventAnnouncementPublished, payload, err
	}
	return s.repo.CreateWithOutbox(ctx, a, headers, traceparent, eventFn)
}

func (s *Service) Update(ctx context.Context, a domain.Announcement) (domain.Announcement, error) {
	if err := a.Validate(); err != nil {
		return domain.Announcement{}, err
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Announcement, error) {
	return s.repo.ListActive(ctx, time.Now().UTC())
}
