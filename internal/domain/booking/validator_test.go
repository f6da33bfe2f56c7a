package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmyappointment/booking-api/internal/httperr"
)

func validRequest() Request {
	return Request{
		BusinessID:    1,
		ServiceID:     2,
		Date:          "2026-08-24",
		Time:          "10:00",
		DurationMin:   30,
		CustomerName:  "Jordan Reyes",
		CustomerEmail: "jordan@example.com",
		CustomerPhone: "+1 (555) 010-2030",
	}
}

func openResolution() Resolution {
	return Resolution{
		Open:   true,
		Window: Interval{Start: 540, End: 1080},
		Breaks: []Interval{{Start: 720, End: 780}},
	}
}

func TestValidateRequestMissingFields(t *testing.T) {
	req := validRequest()
	req.CustomerName = ""
	err := ValidateRequest(req)
	assert.True(t, httperr.IsBusiness(err, CodeMissingFields))

	req = validRequest()
	req.ServiceID = 0
	err = ValidateRequest(req)
	assert.True(t, httperr.IsBusiness(err, CodeMissingFields))
}

func TestValidateContact(t *testing.T) {
	assert.NoError(t, ValidateContact("a@b.co", "+1 555"))

	err := ValidateContact("not-an-email", "+1 555")
	assert.True(t, httperr.IsBusiness(err, CodeInvalidContact))

	err = ValidateContact("a@b.co", "call me")
	assert.True(t, httperr.IsBusiness(err, CodeInvalidContact))

	// Missing TLD dot.
	err = ValidateContact("a@b", "+1 555")
	assert.True(t, httperr.IsBusiness(err, CodeInvalidContact))
}

func TestMissingFieldsWinsOverInvalidContact(t *testing.T) {
	req := validRequest()
	req.Date = ""
	req.CustomerEmail = "broken"

	err := ValidateRequest(req)
	assert.True(t, httperr.IsBusiness(err, CodeMissingFields))
}

func TestSlotInterval(t *testing.T) {
	slot, err := SlotInterval(validRequest())
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 600, End: 630}, slot)

	req := validRequest()
	req.DurationMin = 0
	_, err = SlotInterval(req)
	assert.True(t, httperr.IsBusiness(err, CodeMissingFields))
}

func TestValidateSlotClosedDay(t *testing.T) {
	err := ValidateSlot(Interval{Start: 600, End: 630}, Closed, nil)
	assert.True(t, httperr.IsBusiness(err, CodeNotAvailable))
}

func TestValidateSlotOutsideHours(t *testing.T) {
	res := openResolution()

	// Before opening.
	err := ValidateSlot(Interval{Start: 500, End: 530}, res, nil)
	assert.True(t, httperr.IsBusiness(err, CodeOutsideHours))

	// Ends past closing.
	err = ValidateSlot(Interval{Start: 1060, End: 1090}, res, nil)
	assert.True(t, httperr.IsBusiness(err, CodeOutsideHours))

	// Overlapping the lunch break counts as outside hours.
	err = ValidateSlot(Interval{Start: 710, End: 740}, res, nil)
	assert.True(t, httperr.IsBusiness(err, CodeOutsideHours))

	// Ending exactly when the break starts is fine.
	err = ValidateSlot(Interval{Start: 690, End: 720}, res, nil)
	assert.NoError(t, err)
}

func TestValidateSlotConflict(t *testing.T) {
	res := openResolution()
	existing := []Interval{{Start: 600, End: 660}}

	err := ValidateSlot(Interval{Start: 630, End: 690}, res, existing)
	assert.True(t, httperr.IsBusiness(err, CodeConflict))

	// Back-to-back with an existing booking is accepted.
	err = ValidateSlot(Interval{Start: 660, End: 690}, res, existing)
	assert.NoError(t, err)
}

func TestValidateRunsRulesInOrder(t *testing.T) {
	// Outside hours AND conflicting: the window rule fires first.
	req := validRequest()
	req.Time = "08:00"

	_, err := Validate(req, openResolution(), []Interval{{Start: 480, End: 540}})
	assert.True(t, httperr.IsBusiness(err, CodeOutsideHours))
}

func TestValidateAccepts(t *testing.T) {
	slot, err := Validate(validRequest(), openResolution(), []Interval{{Start: 540, End: 600}})
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 600, End: 630}, slot)
}
