package service

import (
	"context"
	"sort"
	"sync"

	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/repository"
)

// memRegistrationRepo serializes units of work with a mutex and restores its
// state when one fails, mimicking a row lock plus transaction rollback.
type memRegistrationRepo struct {
	mu            sync.Mutex
	events        map[uint]domain.Event
	users         map[uint]bool
	registrations []domain.Registration
	nextID        uint
	createErr     error
}

func newMemRegistrationRepo() *memRegistrationRepo {
	return &memRegistrationRepo{
		events: make(map[uint]domain.Event),
		users:  make(map[uint]bool),
	}
}

func (m *memRegistrationRepo) addEvent(e domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
}

func (m *memRegistrationRepo) addUsers(ids ...uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.users[id] = true
	}
}

func (m *memRegistrationRepo) event(id uint) domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id]
}

func (m *memRegistrationRepo) activeCount(eventID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, r := range m.registrations {
		if r.EventID == eventID && r.IsActive() {
			n++
		}
	}
	return n
}

func (m *memRegistrationRepo) InTx(_ context.Context, fn func(tx repository.RegistrationTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := make(map[uint]domain.Event, len(m.events))
	for k, v := range m.events {
		events[k] = v
	}
	registrations := append([]domain.Registration(nil), m.registrations...)
	nextID := m.nextID

	if err := fn(&memTx{m: m}); err != nil {
		m.events = events
		m.registrations = registrations
		m.nextID = nextID
		return err
	}

	return nil
}

func (m *memRegistrationRepo) FindActive(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{m: m}).FindActive(ctx, eventID, userID)
}

func (m *memRegistrationRepo) FindLatest(ctx context.Context, eventID, userID uint) (domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{m: m}).FindLatest(ctx, eventID, userID)
}

func (m *memRegistrationRepo) ListByUser(_ context.Context, userID uint) ([]domain.Registration, error) {
	return m.filter(func(r domain.Registration) bool { return r.UserID == userID }), nil
}

func (m *memRegistrationRepo) ListByEvent(_ context.Context, eventID uint) ([]domain.Registration, error) {
	return m.filter(func(r domain.Registration) bool { return r.EventID == eventID }), nil
}

func (m *memRegistrationRepo) filter(keep func(domain.Registration) bool) []domain.Registration {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.Registration{}
	for _, r := range m.registrations {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

type memTx struct {
	m *memRegistrationRepo
}

func (t *memTx) LockEvent(_ context.Context, eventID uint) (domain.Event, error) {
	e, ok := t.m.events[eventID]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (t *memTx) UpdateEventCounters(_ context.Context, event domain.Event) error {
	stored := t.m.events[event.ID]
	stored.RegisteredCount = event.RegisteredCount
	stored.AttendeesCount = event.AttendeesCount
	t.m.events[event.ID] = stored
	return nil
}

func (t *memTx) UserExists(_ context.Context, userID uint) (bool, error) {
	return t.m.users[userID], nil
}

func (t *memTx) FindActive(_ context.Context, eventID, userID uint) (domain.Registration, error) {
	for _, r := range t.m.registrations {
		if r.EventID == eventID && r.UserID == userID && r.IsActive() {
			return r, nil
		}
	}
	return domain.Registration{}, repository.ErrRegistrationNotFound
}

func (t *memTx) FindLatest(_ context.Context, eventID, userID uint) (domain.Registration, error) {
	var matches []domain.Registration
	for _, r := range t.m.registrations {
		if r.EventID == eventID && r.UserID == userID {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return domain.Registration{}, repository.ErrRegistrationNotFound
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID > matches[j].ID })
	return matches[0], nil
}

func (t *memTx) Create(ctx context.Context, r domain.Registration) (domain.Registration, error) {
	if t.m.createErr != nil {
		return domain.Registration{}, t.m.createErr
	}
	if _, err := t.FindActive(ctx, r.EventID, r.UserID); err == nil {
		return domain.Registration{}, repository.ErrAlreadyRegistered
	}
	for _, existing := range t.m.registrations {
		if existing.TicketCode == r.TicketCode {
			return domain.Registration{}, repository.ErrTicketCodeExists
		}
	}

	t.m.nextID++
	r.ID = t.m.nextID
	t.m.registrations = append(t.m.registrations, r)
	return r, nil
}

func (t *memTx) Update(_ context.Context, r domain.Registration) (domain.Registration, error) {
	for i := range t.m.registrations {
		if t.m.registrations[i].ID == r.ID {
			t.m.registrations[i] = r
			return r, nil
		}
	}
	return domain.Registration{}, repository.ErrRegistrationNotFound
}

type recordingPublisher struct {
	mu       sync.Mutex
	keys     []string
	messages []RegistrationMessage
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.keys = append(p.keys, routingKey)
	if msg, ok := payload.(RegistrationMessage); ok {
		p.messages = append(p.messages, msg)
	}
	return p.err
}

type memEventRepo struct {
	mu     sync.Mutex
	events map[uint]domain.Event
	nextID uint
}

func newMemEventRepo(events ...domain.Event) *memEventRepo {
	r := &memEventRepo{events: make(map[uint]domain.Event)}
	for _, e := range events {
		r.events[e.ID] = e
		r.nextID = max(r.nextID, e.ID)
	}
	return r
}

func (r *memEventRepo) Create(_ context.Context, e domain.Event) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID
	r.events[e.ID] = e
	return e, nil
}

func (r *memEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (r *memEventRepo) List(_ context.Context, limit, offset int) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []domain.Event{}, nil
	}
	return all[offset:min(len(all), offset+limit)], nil
}

func (r *memEventRepo) update(id uint, fn func(e *domain.Event)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return repository.ErrEventNotFound
	}
	fn(&e)
	r.events[id] = e
	return nil
}

func (r *memEventRepo) IncrementViews(_ context.Context, id uint) error {
	return r.update(id, func(e *domain.Event) { e.ViewsCount++ })
}

func (r *memEventRepo) IncrementInterested(_ context.Context, id uint) error {
	return r.update(id, func(e *domain.Event) { e.InterestedCount++ })
}

func (r *memEventRepo) UpdatePromotion(_ context.Context, id uint, featured, trending bool) error {
	return r.update(id, func(e *domain.Event) {
		e.IsFeatured = featured
		e.IsTrending = trending
	})
}

type memPredictionRepo struct {
	mu          sync.Mutex
	events      *memEventRepo
	predictions []domain.Prediction
}

func (r *memPredictionRepo) Generate(ctx context.Context, eventID uint, build func(domain.Event) domain.Prediction) (domain.Prediction, error) {
	event, err := r.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.Prediction{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := build(event)
	p.ID = uint(len(r.predictions) + 1)
	r.predictions = append(r.predictions, p)
	return p, nil
}

func (r *memPredictionRepo) FindLatestByEventID(_ context.Context, eventID uint) (domain.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		latest domain.Prediction
		found  bool
	)
	for _, p := range r.predictions {
		if p.EventID == eventID && (!found || !p.CalculatedAt.Before(latest.CalculatedAt)) {
			latest, found = p, true
		}
	}
	if !found {
		return domain.Prediction{}, repository.ErrPredictionNotFound
	}
	return latest, nil
}

type memUserRepo struct {
	mu     sync.Mutex
	users  map[string]domain.User
	nextID uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.Email] = u
	return u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}
