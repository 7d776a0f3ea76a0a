package domain

import (
	"errors"
	"time"
)

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrInvalidWindow        = errors.New("announcement window is invalid")
)

// Announcement is a staff-published notice shown while its display
// window is open.
type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Announcement) ActiveAt(now time.Time) bool {
	return !now.Before(a.StartsAt) && now.Before(a.EndsAt)
}

func (a Announcement) Validate() error {
	if a.Title == "" || !a.EndsAt.After(a.StartsAt) {
		return ErrInvalidWindow
	}
	return nil
}

const EventAnnouncementPublished = "AnnouncementPublished"

type AnnouncementPublished struct {
	AnnouncementID int64     `json:"announcement_id"`
	Title          string    `json:"title"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
}
