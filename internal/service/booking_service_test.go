package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppointmentBooksHourStart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appointment, err := f.booking.CreateAppointment(ctx, aliceID, bobID, at(14, 20))
	require.NoError(t, err)

	assert.NotZero(t, appointment.ID)
	assert.Equal(t, at(14, 0), appointment.ScheduledAt)
	assert.Equal(t, aliceID, appointment.CustomerID)
	assert.Equal(t, bobID, appointment.ProviderID)
	assert.Nil(t, appointment.CancelledAt)

	feed, err := f.notification.ListFor(ctx, bobID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "New appointment of Alice at January 10th, 14:00 PM", feed[0].Content)
	assert.False(t, feed[0].Read)
}

func TestCreateAppointmentRejectsTakenSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.booking.CreateAppointment(ctx, aliceID, bobID, at(14, 20))
	require.NoError(t, err)

	_, err = f.booking.CreateAppointment(ctx, carolID, bobID, at(14, 0))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Другой провайдер в то же время свободен
	_, err = f.booking.CreateAppointment(ctx, carolID, charlieID, at(14, 0))
	assert.NoError(t, err)
}

func TestCreateAppointmentUniqueIndexBackstop(t *testing.T) {
	f := newFixture()
	f.appointments.skipIsBooked = true
	ctx := context.Background()

	_, err := f.booking.CreateAppointment(ctx, aliceID, bobID, at(14, 0))
	require.NoError(t, err)

	_, err = f.booking.CreateAppointment(ctx, carolID, bobID, at(14, 0))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateAppointmentValidationOrder(t *testing.T) {
	tests := []struct {
		name       string
		customerID int64
		providerID int64
		requested  time.Time
		want       error
	}{
		{"self booking wins over everything", bobID, bobID, at(8, 0), ErrSelfBooking},
		{"non provider", aliceID, carolID, at(14, 0), ErrInvalidProvider},
		{"unknown provider", aliceID, 99, at(14, 0), ErrInvalidProvider},
		{"invalid provider before past date", aliceID, carolID, at(8, 0), ErrInvalidProvider},
		{"past hour", aliceID, bobID, at(8, 0), ErrPastDate},
		{"current hour floors to now", aliceID, bobID, at(9, 30), ErrPastDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.booking.CreateAppointment(context.Background(), tt.customerID, tt.providerID, tt.requested)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.appointments.rows)
		})
	}
}

func TestCreateAppointmentNextHourIsAllowed(t *testing.T) {
	f := newFixture()

	appointment, err := f.booking.CreateAppointment(context.Background(), aliceID, bobID, at(10, 0))
	require.NoError(t, err)
	assert.Equal(t, at(10, 0), appointment.ScheduledAt)
}

func TestCreateAppointmentFloorsInServiceZone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ist := time.FixedZone("IST", 5*3600+1800)

	// 20:45 +05:30 это 15:15 UTC, слот 15:00 UTC, а не 20:00 +05:30 (14:30 UTC)
	appointment, err := f.booking.CreateAppointment(ctx, aliceID, bobID, time.Date(2024, 1, 10, 20, 45, 0, 0, ist))
	require.NoError(t, err)
	assert.True(t, at(15, 0).Equal(appointment.ScheduledAt), "got %s", appointment.ScheduledAt)

	_, err = f.booking.CreateAppointment(ctx, carolID, bobID, at(15, 10))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Тот же момент с другим смещением попадает в тот же слот
	_, err = f.booking.CreateAppointment(ctx, carolID, bobID, time.Date(2024, 1, 10, 20, 30, 0, 0, ist))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	assert.Equal(t, 1, f.appointments.countActive(bobID, at(15, 0)))
}

func TestCreateAppointmentNonUTCServiceZone(t *testing.T) {
	f := newFixture()
	ist := time.FixedZone("IST", 5*3600+1800)
	f.booking.location = ist

	// 15:15 UTC это 20:45 IST, слот 20:00 IST
	appointment, err := f.booking.CreateAppointment(context.Background(), aliceID, bobID, at(15, 15))
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 10, 20, 0, 0, 0, ist).Equal(appointment.ScheduledAt))
	assert.Equal(t, 30, appointment.ScheduledAt.UTC().Minute())
}

func TestCreateAppointmentNotificationFailureKeepsBooking(t *testing.T) {
	f := newFixture()
	f.notifications.err = errStore

	appointment, err := f.booking.CreateAppointment(context.Background(), aliceID, bobID, at(14, 0))
	require.NoError(t, err)
	assert.NotZero(t, appointment.ID)
	assert.Equal(t, 1, f.appointments.countActive(bobID, at(14, 0)))
}

func TestCreateAppointmentStorageFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.appointments.err = errStore

	_, err := f.booking.CreateAppointment(context.Background(), aliceID, bobID, at(14, 0))
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, errStore)
}

func TestCreateAppointmentAfterCancellationReusesSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.booking.CreateAppointment(ctx, aliceID, bobID, at(14, 0))
	require.NoError(t, err)

	_, err = f.cancellation.CancelAppointment(ctx, first.ID, aliceID)
	require.NoError(t, err)

	_, err = f.booking.CreateAppointment(ctx, carolID, bobID, at(14, 0))
	assert.NoError(t, err)
}

func TestCreateAppointmentConcurrentSameSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(customerID int64) {
			defer wg.Done()

			_, err := f.booking.CreateAppointment(ctx, customerID, bobID, at(15, 0))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, ErrSlotUnavailable):
				rejected++
			}
		}([]int64{aliceID, carolID}[i%2])
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
	assert.Equal(t, 1, f.appointments.countActive(bobID, at(15, 0)))
}
