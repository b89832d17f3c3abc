package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullGrid() map[string]bool {
	grid := make(map[string]bool)
	for _, slot := range slotGrid(DefaultStartHour, DefaultEndHour, DefaultSlotMinutes) {
		grid[slot] = true
	}
	return grid
}

func TestGenerateWeekdaysOnly(t *testing.T) {
	store := NewStore()
	store.Generate(30, DefaultStartHour, DefaultEndHour, DefaultSlotMinutes, 0.8)

	snapshot := store.Snapshot()
	require.NotEmpty(t, snapshot)

	for date := range snapshot {
		day, err := time.Parse(DateLayout, date)
		require.NoError(t, err)
		assert.NotEqual(t, time.Saturday, day.Weekday(), "weekend date %s in calendar", date)
		assert.NotEqual(t, time.Sunday, day.Weekday(), "weekend date %s in calendar", date)
	}
}

func TestGenerateSlotsSubsetOfGrid(t *testing.T) {
	store := NewStore()
	store.Generate(30, DefaultStartHour, DefaultEndHour, DefaultSlotMinutes, 0.8)

	grid := fullGrid()
	for date, slots := range store.Snapshot() {
		// 16-slot grid at 80% occupancy leaves 3 open slots per day.
		assert.Len(t, slots, 3, "unexpected open slot count for %s", date)
		for _, slot := range slots {
			assert.True(t, grid[slot], "slot %s on %s is not on the business-hours grid", slot, date)
		}
	}
}

func TestGenerateReplacesMap(t *testing.T) {
	store := NewStore()
	store.Generate(30, DefaultStartHour, DefaultEndHour, DefaultSlotMinutes, 0.8)
	store.Generate(7, DefaultStartHour, DefaultEndHour, DefaultSlotMinutes, 0.0)

	for date, slots := range store.Snapshot() {
		day, err := time.Parse(DateLayout, date)
		require.NoError(t, err)
		assert.True(t, day.Before(time.Now().AddDate(0, 0, 7)), "date %s beyond new horizon", date)
		assert.Len(t, slots, 16)
	}
}

func TestAvailableSlotsFullyOpenDay(t *testing.T) {
	store := NewStore()
	store.Generate(30, DefaultStartHour, DefaultEndHour, DefaultSlotMinutes, 0.0)

	// Find any weekday key and sample it.
	var date string
	for d := range store.Snapshot() {
		date = d
		break
	}
	require.NotEmpty(t, date)

	slots := store.AvailableSlots(date, 3)
	require.Len(t, slots, 3)

	grid := fullGrid()
	seen := make(map[string]bool)
	for _, slot := range slots {
		assert.True(t, grid[slot])
		assert.False(t, seen[slot], "duplicate slot %s returned", slot)
		seen[slot] = true
	}
}

func TestAvailableSlotsDoesNotReserve(t *testing.T) {
	store := NewStore()
	store.Generate(7, DefaultStartHour, DefaultEndHour, DefaultSlotMinutes, 0.0)

	var date string
	for d := range store.Snapshot() {
		date = d
		break
	}

	store.AvailableSlots(date, 3)
	store.AvailableSlots(date, 3)
	assert.Len(t, store.Snapshot()[date], 16, "display sampling must not remove slots")
}

func TestAvailableSlotsUnknownDate(t *testing.T) {
	store := NewStore()
	store.Generate(7, DefaultStartHour, DefaultEndHour, DefaultSlotMinutes, 0.8)
	assert.Empty(t, store.AvailableSlots("1999-01-01", 3))
}

func TestAvailableSlotsReturnsAllWhenFewerThanCount(t *testing.T) {
	store := NewStore()
	store.Generate(7, DefaultStartHour, DefaultEndHour, DefaultSlotMinutes, 0.8)

	for date, open := range store.Snapshot() {
		got := store.AvailableSlots(date, 10)
		assert.ElementsMatch(t, open, got)
		break
	}
}

func TestBookFirstAvailable(t *testing.T) {
	store := NewStore()
	appt := store.BookFirstAvailable("+15551234567")

	day, err := time.Parse(DateLayout, appt.Date)
	require.NoError(t, err)

	assert.Greater(t, appt.Date, time.Now().Format(DateLayout), "appointment must be strictly after today")
	assert.NotEqual(t, time.Saturday, day.Weekday())
	assert.NotEqual(t, time.Sunday, day.Weekday())
	assert.Contains(t, reminderTimes, appt.Time)

	require.Len(t, store.Appointments(), 1)
}

func TestBookFirstAvailableOverwrites(t *testing.T) {
	store := NewStore()
	store.BookFirstAvailable("+15551234567")
	second := store.BookFirstAvailable("+15551234567")

	appts := store.Appointments()
	require.Len(t, appts, 1)
	assert.Equal(t, second, appts["+15551234567"])
}
