package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/harry-torres/gbarber-backend/internal/mail"
	"github.com/harry-torres/gbarber-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDispatcher struct {
	sent []mail.Message
	err  error
}

func (d *recordingDispatcher) Name() string { return "recording" }

func (d *recordingDispatcher) Send(_ context.Context, msg mail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, msg)
	return nil
}

func cancelledAppointment() *model.Appointment {
	cancelledAt := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	return &model.Appointment{
		ID:          7,
		CustomerID:  1,
		ProviderID:  2,
		ScheduledAt: time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC),
		CancelledAt: &cancelledAt,
		Provider:    &model.User{ID: 2, Name: "Bob", Email: "bob@gobarber.com", IsProvider: true},
		Customer:    &model.User{ID: 1, Name: "Alice"},
	}
}

func jobFor(t *testing.T, payload any) *model.Job {
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &model.Job{Type: TypeCancellationMail, Payload: raw}
}

func TestCancellationMailHandlerSendsNotice(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	handler := NewCancellationMailHandler(dispatcher, zap.NewNop())

	err := handler(context.Background(), jobFor(t, NewCancellationMailPayload(cancelledAppointment())))
	require.NoError(t, err)

	require.Len(t, dispatcher.sent, 1)
	msg := dispatcher.sent[0]
	assert.Equal(t, "Bob <bob@gobarber.com>", msg.To.Address())
	assert.Equal(t, "Appointment Cancelled!", msg.Subject)
	assert.Equal(t, "cancellation", msg.Template)
	assert.Equal(t, "Bob", msg.Context["provider"])
	assert.Equal(t, "Alice", msg.Context["user"])
	assert.Equal(t, "January 10th, 14:00 PM", msg.Context["date"])
}

func TestCancellationMailHandlerBadPayloadIsPermanent(t *testing.T) {
	handler := NewCancellationMailHandler(&recordingDispatcher{}, zap.NewNop())

	err := handler(context.Background(), &model.Job{Payload: []byte(`{not json`)})
	assert.True(t, IsPermanent(err))
}

func TestCancellationMailHandlerTransportErrorIsRetryable(t *testing.T) {
	handler := NewCancellationMailHandler(&recordingDispatcher{err: errors.New("connection refused")}, zap.NewNop())

	err := handler(context.Background(), jobFor(t, NewCancellationMailPayload(cancelledAppointment())))
	require.Error(t, err)
	assert.False(t, IsPermanent(err))
}

func TestCancellationMailHandlerMissingChatIsPermanent(t *testing.T) {
	handler := NewCancellationMailHandler(&recordingDispatcher{err: mail.ErrNoTelegramChat}, zap.NewNop())

	err := handler(context.Background(), jobFor(t, NewCancellationMailPayload(cancelledAppointment())))
	assert.True(t, IsPermanent(err))
}

func TestCancellationMailPayloadSnapshot(t *testing.T) {
	p := NewCancellationMailPayload(cancelledAppointment())

	assert.Equal(t, int64(7), p.AppointmentID)
	assert.Equal(t, "bob@gobarber.com", p.Provider.Email)
	assert.Equal(t, "Alice", p.Customer.Name)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), p.CancelledAt)
}
