package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harry-torres/gbarber-backend/internal/model"
	"github.com/harry-torres/gbarber-backend/internal/repository"
	"go.uber.org/zap"
)

var (
	testNow  = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	errStore = errors.New("connection reset")
)

const (
	aliceID   int64 = 1
	bobID     int64 = 2
	carolID   int64 = 3
	charlieID int64 = 4
)

// serialTx выполняет транзакции по одной, как advisory lock на слот
type serialTx struct {
	mu sync.Mutex
}

func (t *serialTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type memoryAppointments struct {
	mu           sync.Mutex
	nextID       int64
	rows         []*model.Appointment
	users        *memoryUsers
	skipIsBooked bool // эмулирует гонку, которую ловит только уникальный индекс
	err          error
}

func newMemoryAppointments(users *memoryUsers) *memoryAppointments {
	return &memoryAppointments{users: users}
}

func (r *memoryAppointments) LockSlot(context.Context, int64, time.Time) error {
	return r.err
}

func (r *memoryAppointments) IsBooked(_ context.Context, providerID int64, slot time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return false, r.err
	}
	if r.skipIsBooked {
		return false, nil
	}
	return r.activeLocked(providerID, slot) != nil, nil
}

func (r *memoryAppointments) activeLocked(providerID int64, slot time.Time) *model.Appointment {
	for _, a := range r.rows {
		if a.ProviderID == providerID && a.ScheduledAt.Equal(slot) && a.CancelledAt == nil {
			return a
		}
	}
	return nil
}

func (r *memoryAppointments) BookedSlots(_ context.Context, providerID int64, from, to time.Time) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var slots []time.Time
	for _, a := range r.rows {
		if a.ProviderID == providerID && a.CancelledAt == nil && !a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to) {
			slots = append(slots, a.ScheduledAt)
		}
	}
	return slots, nil
}

func (r *memoryAppointments) Create(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	if r.activeLocked(appointment.ProviderID, appointment.ScheduledAt) != nil {
		return repository.ErrDuplicate
	}

	r.nextID++
	appointment.ID = r.nextID
	appointment.CreatedAt = testNow
	cp := *appointment
	cp.Provider, cp.Customer = nil, nil
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memoryAppointments) GetForUpdate(_ context.Context, id int64) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.rows {
		if a.ID == id {
			cp := *a
			cp.Provider = r.users.get(a.ProviderID)
			cp.Customer = r.users.get(a.CustomerID)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryAppointments) Cancel(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.rows {
		if a.ID == id && a.CancelledAt == nil {
			cancelled := at
			a.CancelledAt = &cancelled
			return nil
		}
	}
	return errors.New("appointment not found or already cancelled")
}

func (r *memoryAppointments) ListByCustomer(_ context.Context, customerID int64, limit, offset int) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	var result []*model.Appointment
	for _, a := range r.rows {
		if a.CustomerID == customerID && a.CancelledAt == nil {
			cp := *a
			cp.Provider = r.users.get(a.ProviderID)
			result = append(result, &cp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ScheduledAt.Before(result[j].ScheduledAt) })

	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

func (r *memoryAppointments) ListByProviderBetween(_ context.Context, providerID int64, from, to time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.Appointment
	for _, a := range r.rows {
		if a.ProviderID == providerID && a.CancelledAt == nil && !a.ScheduledAt.Before(from) && !a.ScheduledAt.After(to) {
			cp := *a
			cp.Customer = r.users.get(a.CustomerID)
			result = append(result, &cp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ScheduledAt.Before(result[j].ScheduledAt) })
	return result, nil
}

// seed вставляет запись напрямую, минуя проверки сервиса
func (r *memoryAppointments) seed(customerID, providerID int64, at time.Time) *model.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	a := &model.Appointment{ID: r.nextID, CustomerID: customerID, ProviderID: providerID, ScheduledAt: at}
	r.rows = append(r.rows, a)
	return a
}

func (r *memoryAppointments) countActive(providerID int64, slot time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, a := range r.rows {
		if a.ProviderID == providerID && a.ScheduledAt.Equal(slot) && a.CancelledAt == nil {
			n++
		}
	}
	return n
}

type memoryUsers struct {
	users map[int64]*model.User
	err   error
}

func newMemoryUsers() *memoryUsers {
	chat := int64(555)
	return &memoryUsers{users: map[int64]*model.User{
		aliceID:   {ID: aliceID, Name: "Alice", Email: "alice@gobarber.com"},
		bobID:     {ID: bobID, Name: "Bob", Email: "bob@gobarber.com", IsProvider: true, TelegramChatID: &chat},
		carolID:   {ID: carolID, Name: "Carol", Email: "carol@gobarber.com"},
		charlieID: {ID: charlieID, Name: "Charlie", Email: "charlie@gobarber.com", IsProvider: true},
	}}
}

func (r *memoryUsers) get(id int64) *model.User {
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (r *memoryUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.get(id), nil
}

func (r *memoryUsers) ListProviders(context.Context) ([]*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	var providers []*model.User
	for _, id := range []int64{bobID, charlieID} {
		providers = append(providers, r.get(id))
	}
	return providers, nil
}

type memoryNotifications struct {
	mu   sync.Mutex
	rows []*model.Notification
	err  error
}

func (r *memoryNotifications) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	cp := *n
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memoryNotifications) ListByRecipient(_ context.Context, recipientID int64, limit int) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*model.Notification, 0)
	for i := len(r.rows) - 1; i >= 0 && len(result) < limit; i-- {
		if r.rows[i].RecipientID == recipientID {
			cp := *r.rows[i]
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *memoryNotifications) MarkRead(_ context.Context, id string, recipientID int64, now time.Time) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.rows {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			n.UpdatedAt = now
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []enqueuedJob
	err  error
}

type enqueuedJob struct {
	Type    string
	Payload any
}

func (e *recordingEnqueuer) Enqueue(_ context.Context, jobType string, payload any) (uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.err != nil {
		return uuid.Nil, e.err
	}
	e.jobs = append(e.jobs, enqueuedJob{Type: jobType, Payload: payload})
	return uuid.New(), nil
}

type fixture struct {
	users         *memoryUsers
	appointments  *memoryAppointments
	notifications *memoryNotifications
	enqueuer      *recordingEnqueuer

	booking      *BookingService
	cancellation *CancellationService
	availability *AvailabilityService
	notification *NotificationService
	user         *UserService
}

func newFixture() *fixture {
	clock := func() time.Time { return testNow }
	logger := zap.NewNop()
	tx := &serialTx{}

	f := &fixture{
		users:         newMemoryUsers(),
		notifications: &memoryNotifications{},
		enqueuer:      &recordingEnqueuer{},
	}
	f.appointments = newMemoryAppointments(f.users)

	f.notification = NewNotificationService(f.notifications, f.users, clock, logger)
	f.booking = NewBookingService(tx, f.appointments, f.users, f.notification, clock, time.UTC, logger)
	f.cancellation = NewCancellationService(tx, f.appointments, f.enqueuer, clock, logger)
	f.availability = NewAvailabilityService(f.appointments, f.users, clock, time.UTC, logger)
	f.user = NewUserService(f.users, logger)
	return f
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 10, hour, minute, 0, 0, time.UTC)
}
