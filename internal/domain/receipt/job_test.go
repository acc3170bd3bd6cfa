package receipt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to JobStatus
		want     bool
	}{
		{JobStatusPending, JobStatusPrinting, true},
		{JobStatusPending, JobStatusAbandoned, true},
		{JobStatusPending, JobStatusCompleted, false},
		{JobStatusPrinting, JobStatusCompleted, true},
		{JobStatusPrinting, JobStatusAbandoned, true},
		{JobStatusPrinting, JobStatusPending, false},
		{JobStatusCompleted, JobStatusAbandoned, false},
		{JobStatusAbandoned, JobStatusPrinting, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestJobStatus_IsTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.IsTerminal())
	assert.False(t, JobStatusPrinting.IsTerminal())
	assert.True(t, JobStatusCompleted.IsTerminal())
	assert.True(t, JobStatusAbandoned.IsTerminal())
}

func TestJob_Lifecycle(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("successful print", func(t *testing.T) {
		job := NewJob("POS-80", now)
		assert.NotEqual(t, uuid.Nil, job.ID)
		assert.Equal(t, JobStatusPending, job.Status)

		require.NoError(t, job.StartPrinting())
		require.NoError(t, job.Complete(now.Add(time.Second)))

		assert.Equal(t, JobStatusCompleted, job.Status)
		require.NotNil(t, job.FinishedAt)
		assert.Empty(t, job.Error)
	})

	t.Run("failure before the document starts", func(t *testing.T) {
		job := NewJob("POS-80", now)

		require.NoError(t, job.Abandon(NewPrinterError("offline", nil), now))
		assert.Equal(t, JobStatusAbandoned, job.Status)
		assert.Equal(t, "offline", job.Error)
	})

	t.Run("terminal job cannot move", func(t *testing.T) {
		job := NewJob("POS-80", now)
		require.NoError(t, job.StartPrinting())
		require.NoError(t, job.Complete(now))

		err := job.Abandon(assert.AnError, now)
		require.Error(t, err)
		assert.True(t, IsCode(err, "INVALID_STATE"))
		assert.Contains(t, err.Error(), "job is already COMPLETED")
		assert.Equal(t, JobStatusCompleted, job.Status)
		assert.Empty(t, job.Error)
	})

	t.Run("abandoned job cannot be abandoned again", func(t *testing.T) {
		job := NewJob("POS-80", now)
		require.NoError(t, job.Abandon(NewPrinterError("offline", nil), now))

		err := job.Abandon(NewPrinterError("still offline", nil), now.Add(time.Second))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "job is already ABANDONED")
		assert.Equal(t, "offline", job.Error)
		assert.Equal(t, now, *job.FinishedAt)
	})

	t.Run("cannot complete without printing", func(t *testing.T) {
		job := NewJob("POS-80", now)
		assert.Error(t, job.Complete(now))
		assert.Nil(t, job.FinishedAt)
	})
}
