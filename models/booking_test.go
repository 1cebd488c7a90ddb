package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCost(t *testing.T) {
	assert.Equal(t, 500.0, SessionCost(60, 500))
	assert.Equal(t, 250.0, SessionCost(30, 500))
	assert.Equal(t, 1125.0, SessionCost(90, 750))
	assert.Equal(t, 2000.0, SessionCost(120, 1000))
}

func TestBookingDefaultsToPending(t *testing.T) {
	b := Booking{}
	require.NoError(t, b.BeforeCreate(nil))
	assert.Equal(t, BookingPending, b.Status)

	// An explicit status is left alone.
	b = Booking{Status: BookingConfirmed}
	require.NoError(t, b.BeforeCreate(nil))
	assert.Equal(t, BookingConfirmed, b.Status)
}

func TestUpdateStatusRejectsInvalidTransitions(t *testing.T) {
	cases := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{BookingPending, BookingCompleted},
		{BookingPending, BookingPending},
		{BookingConfirmed, BookingPending},
		{BookingConfirmed, BookingConfirmed},
		{BookingCompleted, BookingCanceled},
		{BookingCompleted, BookingConfirmed},
		{BookingCanceled, BookingConfirmed},
		{BookingCanceled, BookingCompleted},
	}

	for _, tc := range cases {
		b := Booking{Status: tc.from}
		err := b.UpdateStatus(nil, tc.to)
		assert.Error(t, err, "transition %s -> %s should be rejected", tc.from, tc.to)
		assert.Equal(t, tc.from, b.Status, "status must not change on a rejected transition")
	}
}

func TestReviewRatingClamped(t *testing.T) {
	r := Review{Rating: 0.5}
	require.NoError(t, r.BeforeCreate(nil))
	assert.Equal(t, 1.0, r.Rating)

	r = Review{Rating: 7}
	require.NoError(t, r.BeforeCreate(nil))
	assert.Equal(t, 5.0, r.Rating)

	r = Review{Rating: 4.5}
	require.NoError(t, r.BeforeCreate(nil))
	assert.Equal(t, 4.5, r.Rating)
}

func TestProfileSubjects(t *testing.T) {
	p := Profile{Subjects: `["CS-101","MATH-202"]`}
	assert.Equal(t, []string{"CS-101", "MATH-202"}, p.SubjectList())
	assert.True(t, p.TeachesSubject("CS-101"))
	assert.False(t, p.TeachesSubject("PHY-303"))

	empty := Profile{}
	assert.Nil(t, empty.SubjectList())
	assert.False(t, empty.TeachesSubject("CS-101"))

	malformed := Profile{Subjects: "not json"}
	assert.Nil(t, malformed.SubjectList())
}
