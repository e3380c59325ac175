package request

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/predictifylabs/predictify-api/internal/domain"
)

const startDateLayout = "2006-01-02"

var errPaidEventWithoutPrice = errors.New("a paid event needs a price greater than 0")

type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category" enums:"conference,hackathon,workshop,meetup,networking,bootcamp,webinar"`
	Type        string    `json:"type" enums:"presencial,virtual,hibrido"`
	Capacity    int       `json:"capacity"`
	StartDate   string    `json:"start_date" format:"YYYY-MM-DD"`
	IsFree      bool      `json:"is_free"`
	Price       float64   `json:"price"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&req.Description, validation.Length(0, 5000)),
		validation.Field(&req.Category, validation.Required, validation.In(
			string(domain.CategoryConference),
			string(domain.CategoryHackathon),
			string(domain.CategoryWorkshop),
			string(domain.CategoryMeetup),
			string(domain.CategoryNetworking),
			string(domain.CategoryBootcamp),
			string(domain.CategoryWebinar),
		)),
		validation.Field(&req.Type, validation.Required, validation.In(
			string(domain.EventTypeInPerson),
			string(domain.EventTypeVirtual),
			string(domain.EventTypeHybrid),
		)),
		validation.Field(&req.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&req.StartDate, validation.Required, validation.Date(startDateLayout)),
		validation.Field(&req.Price, validation.Min(0.0)),
	)
	if err != nil {
		return err
	}

	if !req.IsFree && req.Price <= 0 {
		return errPaidEventWithoutPrice
	}

	return nil
}

// ToDomain places the start date at midnight UTC.
func (req *CreateEventRequest) ToDomain(organizerID uint) (domain.Event, error) {
	startDate, err := time.Parse(startDateLayout, req.StartDate)
	if err != nil {
		return domain.Event{}, fmt.Errorf("invalid start_date: %w", err)
	}

	price := req.Price
	if req.IsFree {
		price = 0
	}

	return domain.Event{
		OrganizerID: organizerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.EventCategory(req.Category),
		Type:        domain.EventType(req.Type),
		Capacity:    req.Capacity,
		StartDate:   startDate,
		IsFree:      req.IsFree,
		Price:       price,
	}, nil
}

type UpdatePromotionRequest struct {
	IsFeatured bool `json:"is_featured"`
	IsTrending bool `json:"is_trending"`
}
