package services

import (
	"context"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
	"ticket-marketplace/utils"
)

func TestScanDecision(t *testing.T) {
	assert.Equal(t, models.ScanOK, scanDecision(false, false))
	assert.Equal(t, models.ScanAlreadyValidated, scanDecision(true, false))
	assert.Equal(t, models.ScanAlreadyValidated, scanDecision(false, true), "revoked tickets never validate")
	assert.Equal(t, models.ScanAlreadyValidated, scanDecision(true, true))
}

func TestDeviceKeyID(t *testing.T) {
	plaintext, _, err := utils.GenerateDeviceKey()
	require.NoError(t, err)

	id := deviceKeyID(plaintext)
	assert.Len(t, id, 8)
	assert.Equal(t, plaintext[4:12], id)
}

// seedScannableTicket creates an organizer with the given status plus an
// event and one unvalidated ticket for it.
func seedScannableTicket(t *testing.T, app core.App, organizerStatus models.OrganizerStatus, passID string) *core.Record {
	t.Helper()

	organizer := saveTestRecord(t, app, "organizers", map[string]any{
		"name":   "Riverside Live",
		"status": string(organizerStatus),
	})
	event := saveTestRecord(t, app, "events", map[string]any{
		"title":     "Summer Closing Night",
		"organizer": organizer.Id,
	})
	saveTestRecord(t, app, "tickets", map[string]any{
		"pass_id":       passID,
		"ticket_no":     1,
		"event":         event.Id,
		"attendee_name": "Alex Rivera",
	})
	return organizer
}

func TestScannerRequiresApprovedOrganizer(t *testing.T) {
	app := newTestApp(t)
	svc := NewScannerService(app, nil)
	ctx := context.Background()

	organizer := seedScannableTicket(t, app, models.OrganizerRejected, "PASS-GATE0001")

	_, err := svc.Validate(ctx, "PASS-GATE0001", organizer.Id)
	require.Error(t, err)
	assert.Equal(t, status.KindAuthorization, status.From(err).Kind)

	ticket, err := app.FindFirstRecordByFilter(
		"tickets",
		"pass_id = {:pass}",
		map[string]any{"pass": "PASS-GATE0001"},
	)
	require.NoError(t, err)
	assert.False(t, ticket.GetBool("is_validated"), "rejected organizer must not validate tickets")
	assert.True(t, ticket.GetDateTime("validation_time").IsZero())

	_, err = svc.Lookup(ctx, "PASS-GATE0001", organizer.Id)
	assert.Equal(t, status.KindAuthorization, status.From(err).Kind)

	_, _, err = svc.RegisterDevice(ctx, organizer.Id, "gate-1")
	assert.Equal(t, status.KindAuthorization, status.From(err).Kind)

	// pending organizers are locked out the same way
	organizer.Set("status", string(models.OrganizerPending))
	require.NoError(t, app.Save(organizer))
	_, err = svc.Validate(ctx, "PASS-GATE0001", organizer.Id)
	assert.Equal(t, status.KindAuthorization, status.From(err).Kind)

	organizer.Set("status", string(models.OrganizerApproved))
	require.NoError(t, app.Save(organizer))
	scan, err := svc.Validate(ctx, "PASS-GATE0001", organizer.Id)
	require.NoError(t, err)
	assert.Equal(t, string(models.ScanOK), scan.Result)
}

func TestValidateWritesValidationTimeOnce(t *testing.T) {
	app := newTestApp(t)
	svc := NewScannerService(app, nil)
	ctx := context.Background()

	organizer := seedScannableTicket(t, app, models.OrganizerApproved, "PASS-ONCE0001")

	first, err := svc.Validate(ctx, "PASS-ONCE0001", organizer.Id)
	require.NoError(t, err)
	assert.Equal(t, string(models.ScanOK), first.Result)
	require.NotNil(t, first.ValidationTime)

	ticket, err := app.FindFirstRecordByFilter(
		"tickets",
		"pass_id = {:pass}",
		map[string]any{"pass": "PASS-ONCE0001"},
	)
	require.NoError(t, err)
	stamped := ticket.GetDateTime("validation_time").Time()
	require.False(t, stamped.IsZero())

	time.Sleep(50 * time.Millisecond)

	second, err := svc.Validate(ctx, "PASS-ONCE0001", organizer.Id)
	require.ErrorIs(t, err, status.ErrAlreadyValidated)
	require.NotNil(t, second)
	assert.Equal(t, string(models.ScanAlreadyValidated), second.Result)
	require.NotNil(t, second.ValidationTime)
	assert.True(t, second.ValidationTime.Equal(stamped), "re-scan must report the first scan's timestamp")

	ticket, err = app.FindRecordById("tickets", ticket.Id)
	require.NoError(t, err)
	assert.True(t, ticket.GetDateTime("validation_time").Time().Equal(stamped), "validation_time must never be overwritten")
	assert.True(t, ticket.GetBool("is_validated"))
}
