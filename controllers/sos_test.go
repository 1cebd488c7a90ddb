package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/models"
)

func TestPendingSOSCountMatchesFeedScope(t *testing.T) {
	conn := setupTestDB(t)

	profile := models.Profile{
		UserID:   1,
		IsMentor: true,
		Subjects: `["CS-101","MATH-202"]`,
	}
	require.NoError(t, conn.Create(&profile).Error)

	alerts := []models.SOSAlert{
		{StudentID: 10, Course: "CS-101", TimeLeft: 60, Status: models.SOSPending},
		{StudentID: 11, Course: "MATH-202", TimeLeft: 30, Status: models.SOSPending},
		{StudentID: 12, Course: "PHY-303", TimeLeft: 60, Status: models.SOSPending},
		{StudentID: 13, Course: "CS-101", TimeLeft: 60, Status: models.SOSAccepted},
		{StudentID: 14, Course: "CS-101", TimeLeft: 60, Status: models.SOSExpired},
	}
	for i := range alerts {
		require.NoError(t, conn.Create(&alerts[i]).Error)
	}

	// Only pending alerts for taught courses count, same as the feed.
	assert.Equal(t, int64(2), pendingSOSCountFor(&profile))

	stranger := models.Profile{UserID: 2, IsMentor: true, Subjects: `["BIO-110"]`}
	assert.Equal(t, int64(0), pendingSOSCountFor(&stranger))
}
