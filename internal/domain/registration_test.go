package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNewRegistration(t *testing.T) {
	r := NewRegistration(1, 2, "TKT-ABCD1234", testNow)

	assert.Equal(t, RegistrationRegistered, r.Status)
	assert.False(t, r.Attended)
	assert.True(t, r.IsActive())
	assert.Equal(t, testNow, r.RegisteredAt)
}

func TestRegistration_Cancel(t *testing.T) {
	r := NewRegistration(1, 2, "TKT-ABCD1234", testNow)

	require.NoError(t, r.Cancel(testNow))
	assert.Equal(t, RegistrationCancelled, r.Status)
	assert.False(t, r.IsActive())
	require.NotNil(t, r.CancelledAt)

	assert.ErrorIs(t, r.Cancel(testNow), ErrAlreadyCancelled)
}

func TestRegistration_Cancel_Confirmed(t *testing.T) {
	r := NewRegistration(1, 2, "TKT-ABCD1234", testNow)
	_, err := r.MarkAttended(testNow)
	require.NoError(t, err)

	assert.ErrorIs(t, r.Cancel(testNow), ErrAttendanceConfirmed)
	assert.Equal(t, RegistrationConfirmed, r.Status)
}

func TestRegistration_MarkAttended(t *testing.T) {
	r := NewRegistration(1, 2, "TKT-ABCD1234", testNow)

	changed, err := r.MarkAttended(testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, r.Attended)
	assert.Equal(t, RegistrationConfirmed, r.Status)

	changed, err = r.MarkAttended(testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, testNow, *r.AttendedAt)
}

func TestRegistration_MarkAttended_Cancelled(t *testing.T) {
	r := NewRegistration(1, 2, "TKT-ABCD1234", testNow)
	require.NoError(t, r.Cancel(testNow))

	changed, err := r.MarkAttended(testNow)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.False(t, changed)
	assert.False(t, r.Attended)
}
