package domain

import (
	"errors"
	"time"
)

var ErrCapacityExceeded = errors.New("event capacity exceeded")

type EventCategory string

const (
	CategoryConference EventCategory = "conference"
	CategoryHackathon  EventCategory = "hackathon"
	CategoryWorkshop   EventCategory = "workshop"
	CategoryMeetup     EventCategory = "meetup"
	CategoryNetworking EventCategory = "networking"
	CategoryBootcamp   EventCategory = "bootcamp"
	CategoryWebinar    EventCategory = "webinar"
)

type EventType string

const (
	EventTypeInPerson EventType = "presencial"
	EventTypeVirtual  EventType = "virtual"
	EventTypeHybrid   EventType = "hibrido"
)

type Event struct {
	ID          uint          `json:"id"`
	OrganizerID uint          `json:"organizer_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    EventCategory `json:"category"`
	Type        EventType     `json:"type"`

	Capacity        int `json:"capacity"`
	RegisteredCount int `json:"registered_count"`
	InterestedCount int `json:"interested_count"`
	AttendeesCount  int `json:"attendees_count"`
	ViewsCount      int `json:"views_count"`

	StartDate  time.Time `json:"start_date"`
	IsFree     bool      `json:"is_free"`
	Price      float64   `json:"price"`
	IsFeatured bool      `json:"is_featured"`
	IsTrending bool      `json:"is_trending"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TryReserve takes one seat. The event is left untouched when it is full.
func (e *Event) TryReserve() error {
	if e.RegisteredCount >= e.Capacity {
		return ErrCapacityExceeded
	}
	e.RegisteredCount++

	return nil
}

// Release gives one seat back, never going below zero.
func (e *Event) Release() {
	if e.RegisteredCount > 0 {
		e.RegisteredCount--
	}
}

// RegistrationRate is the share of capacity taken, in percent.
func (e *Event) RegistrationRate() float64 {
	if e.Capacity <= 0 {
		return 0
	}

	return float64(e.RegisteredCount) * 100 / float64(e.Capacity)
}

func (e *Event) AvailableSeats() int {
	if e.RegisteredCount >= e.Capacity {
		return 0
	}

	return e.Capacity - e.RegisteredCount
}
