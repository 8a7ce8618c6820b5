package repo

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventdesk/internal/model"
)

func limitedTo(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}

func TestCapacityExceeded(t *testing.T) {
	tests := []struct {
		name     string
		capacity sql.NullInt64
		active   int64
		guests   int
		want     bool
	}{
		{"unlimited capacity never fills", sql.NullInt64{}, 1000, 45, false},
		{"empty event accepts first seat", limitedTo(1), 0, 0, false},
		{"fills to exactly capacity", limitedTo(5), 4, 0, false},
		{"one seat over", limitedTo(5), 5, 0, true},
		{"guests fill to exactly capacity", limitedTo(5), 2, 2, false},
		{"guests push over", limitedTo(5), 2, 3, true},
		{"guest counts toward total", limitedTo(2), 1, 1, true},
		{"solo registration fits where group would not", limitedTo(2), 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, capacityExceeded(tt.capacity, tt.active, tt.guests))
		})
	}
}

func TestTransitionTimestamps(t *testing.T) {
	tests := []struct {
		name           string
		current, next  string
		wantConfirmed  bool
		wantCancelled  bool
	}{
		{"pending to confirmed", model.StatusPending, model.StatusConfirmed, true, false},
		{"pending to cancelled", model.StatusPending, model.StatusCancelled, false, true},
		{"confirmed to cancelled", model.StatusConfirmed, model.StatusCancelled, false, true},
		{"cancelled to confirmed", model.StatusCancelled, model.StatusConfirmed, true, false},
		{"confirmed rewrite keeps confirmed_at", model.StatusConfirmed, model.StatusConfirmed, false, false},
		{"cancelled rewrite keeps cancelled_at", model.StatusCancelled, model.StatusCancelled, false, false},
		{"pending rewrite moves nothing", model.StatusPending, model.StatusPending, false, false},
		{"back to pending moves nothing", model.StatusConfirmed, model.StatusPending, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setConfirmed, setCancelled := transitionTimestamps(tt.current, tt.next)
			assert.Equal(t, tt.wantConfirmed, setConfirmed, "confirmed_at")
			assert.Equal(t, tt.wantCancelled, setCancelled, "cancelled_at")
		})
	}
}
