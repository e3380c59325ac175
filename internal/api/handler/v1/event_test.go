package v1

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictifylabs/predictify-api/internal/api/handler/v1/request"
	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/service"
)

type fakeEventService struct {
	events   map[uint]domain.Event
	page     int
	pageSize int
}

func (f *fakeEventService) CreateEvent(_ context.Context, event domain.Event) (domain.Event, error) {
	event.ID = uint(len(f.events) + 1)
	f.events[event.ID] = event

	return event, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, id uint) (domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return domain.Event{}, service.ErrEventNotFound
	}
	e.ViewsCount++
	f.events[id] = e

	return e, nil
}

func (f *fakeEventService) ListEvents(_ context.Context, page, pageSize int) ([]domain.Event, error) {
	f.page, f.pageSize = page, pageSize

	return []domain.Event{}, nil
}

func (f *fakeEventService) ExpressInterest(_ context.Context, id uint) error {
	if _, ok := f.events[id]; !ok {
		return service.ErrEventNotFound
	}

	return nil
}

func (f *fakeEventService) IsOrganizer(_ context.Context, eventID, userID uint) (bool, error) {
	e, ok := f.events[eventID]
	if !ok {
		return false, service.ErrEventNotFound
	}

	return e.OrganizerID == userID, nil
}

func (f *fakeEventService) UpdatePromotion(ctx context.Context, eventID, organizerID uint, featured, trending bool) (domain.Event, error) {
	ok, err := f.IsOrganizer(ctx, eventID, organizerID)
	if err != nil {
		return domain.Event{}, err
	}
	if !ok {
		return domain.Event{}, service.ErrNotEventOrganizer
	}
	e := f.events[eventID]
	e.IsFeatured, e.IsTrending = featured, trending
	f.events[eventID] = e

	return e, nil
}

func newEventRouter(svc *fakeEventService) http.Handler {
	users := &fakeUserService{users: map[uint]domain.User{
		attendee:       {ID: attendee, Role: domain.RoleAttendee},
		eventOrganizer: {ID: eventOrganizer, Role: domain.RoleOrganizer},
	}}
	h := NewEventHandler(svc, users)

	r := newTestRouter()
	r.POST("/events", h.HandleCreateEvent)
	r.GET("/events", h.HandleListEvents)
	r.GET("/events/:eventID", h.HandleGetEvent)
	r.POST("/events/:eventID/interest", h.HandleExpressInterest)
	r.PATCH("/events/:eventID/promotion", h.HandleUpdatePromotion)

	return r
}

func validCreateEventRequest() request.CreateEventRequest {
	return request.CreateEventRequest{
		Title:     "Go Meetup",
		Category:  "meetup",
		Type:      "presencial",
		Capacity:  50,
		StartDate: "2026-05-20",
		IsFree:    true,
	}
}

func TestEventHandler_HandleCreateEvent(t *testing.T) {
	svc := &fakeEventService{events: map[uint]domain.Event{}}

	w := doRequest(t, newEventRouter(svc), http.MethodPost, "/events", eventOrganizer, validCreateEventRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	var e domain.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, uint(eventOrganizer), e.OrganizerID)
	assert.Equal(t, domain.CategoryMeetup, e.Category)
	assert.Equal(t, time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC), e.StartDate)
}

func TestEventHandler_HandleCreateEvent_AttendeeIsForbidden(t *testing.T) {
	svc := &fakeEventService{events: map[uint]domain.Event{}}

	w := doRequest(t, newEventRouter(svc), http.MethodPost, "/events", attendee, validCreateEventRequest())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.events)
}

func TestEventHandler_HandleCreateEvent_Validation(t *testing.T) {
	tests := map[string]func(r *request.CreateEventRequest){
		"unknown category": func(r *request.CreateEventRequest) { r.Category = "party" },
		"zero capacity":    func(r *request.CreateEventRequest) { r.Capacity = 0 },
		"bad date":         func(r *request.CreateEventRequest) { r.StartDate = "20/05/2026" },
		"paid but no price": func(r *request.CreateEventRequest) {
			r.IsFree = false
			r.Price = 0
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := validCreateEventRequest()
			mutate(&req)

			w := doRequest(t, newEventRouter(&fakeEventService{events: map[uint]domain.Event{}}), http.MethodPost, "/events", eventOrganizer, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestEventHandler_HandleGetEvent(t *testing.T) {
	svc := &fakeEventService{events: map[uint]domain.Event{1: {ID: 1, Title: "Go Meetup"}}}
	r := newEventRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/events/1", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var e domain.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, 1, e.ViewsCount)

	w = doRequest(t, r, http.MethodGet, "/events/2", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventHandler_HandleListEvents(t *testing.T) {
	svc := &fakeEventService{events: map[uint]domain.Event{}}
	r := newEventRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/events?page=3&page_size=10", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, svc.page)
	assert.Equal(t, 10, svc.pageSize)

	w = doRequest(t, r, http.MethodGet, "/events?page=x", 0, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandler_HandleExpressInterest(t *testing.T) {
	r := newEventRouter(&fakeEventService{events: map[uint]domain.Event{1: {ID: 1}}})

	assert.Equal(t, http.StatusNoContent, doRequest(t, r, http.MethodPost, "/events/1/interest", attendee, nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, r, http.MethodPost, "/events/5/interest", attendee, nil).Code)
}

func TestEventHandler_HandleUpdatePromotion(t *testing.T) {
	svc := &fakeEventService{events: map[uint]domain.Event{1: {ID: 1, OrganizerID: eventOrganizer}}}
	r := newEventRouter(svc)
	body := request.UpdatePromotionRequest{IsFeatured: true}

	w := doRequest(t, r, http.MethodPatch, "/events/1/promotion", attendee, body)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, svc.events[1].IsFeatured)

	w = doRequest(t, r, http.MethodPatch, "/events/1/promotion", eventOrganizer, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.events[1].IsFeatured)
	assert.False(t, svc.events[1].IsTrending)
}
