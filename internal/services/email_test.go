package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbooking/internal/domain"
)

type recordingMailer struct {
	to, subject, html, text string
	err                     error
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, html, text string) error {
	m.to, m.subject, m.html, m.text = to, subject, html, text
	return m.err
}

type stubRenderer struct {
	name string
	err  error
}

func (r *stubRenderer) Render(templateName string, data any) (string, string, string, error) {
	r.name = templateName
	if r.err != nil {
		return "", "", "", r.err
	}
	d := data.(*domain.BookingConfirmationEmailData)
	return "Booking Confirmation - " + d.EventName, "<p>" + d.Name + "</p>", d.Name, nil
}

func TestEmailService_SendBookingConfirmation(t *testing.T) {
	mailer := &recordingMailer{}
	renderer := &stubRenderer{}
	svc := NewEmailService(mailer, renderer, discardLogger())

	err := svc.SendBookingConfirmation(context.Background(), &domain.BookingConfirmationEmailData{
		Email:     "ann@example.com",
		Name:      "Ann",
		EventName: "Yoga",
		BookingID: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, bookingConfirmationTemplate, renderer.name)
	assert.Equal(t, "ann@example.com", mailer.to)
	assert.Equal(t, "Booking Confirmation - Yoga", mailer.subject)
	assert.Equal(t, "<p>Ann</p>", mailer.html)
}

func TestEmailService_SendBookingConfirmation_Errors(t *testing.T) {
	svc := NewEmailService(&recordingMailer{}, &stubRenderer{}, discardLogger())
	require.Error(t, svc.SendBookingConfirmation(context.Background(), nil))

	svc = NewEmailService(&recordingMailer{}, &stubRenderer{err: errors.New("missing template")}, discardLogger())
	require.ErrorContains(t, svc.SendBookingConfirmation(context.Background(), &domain.BookingConfirmationEmailData{}), "missing template")

	sendErr := errors.New("throttled")
	svc = NewEmailService(&recordingMailer{err: sendErr}, &stubRenderer{}, discardLogger())
	require.ErrorIs(t, svc.SendBookingConfirmation(context.Background(), &domain.BookingConfirmationEmailData{}), sendErr)
}
