// File: services/calendar/calendar.go
package calendar

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"remindly/models"
	"remindly/utils"

	"go.uber.org/zap"
)

// Business-hours grid defaults: 09:00-17:00 in 30-minute slots, weekdays only.
const (
	DefaultStartHour   = 9
	DefaultEndHour     = 17
	DefaultSlotMinutes = 30

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// reminderTimes is the fixed candidate set used by the mock booking path
// that seeds the first reminder message.
var reminderTimes = []string{"09:00", "10:30", "14:00", "15:30"}

// Store owns the availability map (date -> open slots) and the appointment
// map (sender -> booked appointment). Availability is read-mostly after
// Generate; all access goes through the store's lock.
type Store struct {
	mu           sync.RWMutex
	availability map[string][]string
	appointments map[string]models.Appointment
}

func NewStore() *Store {
	return &Store{
		availability: make(map[string][]string),
		appointments: make(map[string]models.Appointment),
	}
}

// Generate populates the availability map for every weekday within the
// horizon starting today. For each day it computes the full slot grid and
// keeps (1 - occupancy) of it, sampled without replacement; the remainder is
// treated as already booked. Re-invocation replaces the entire map.
func (s *Store) Generate(horizonDays, startHour, endHour, slotMinutes int, occupancy float64) {
	logger := utils.GetLogger()

	grid := slotGrid(startHour, endHour, slotMinutes)
	openCount := int(float64(len(grid)) * (1 - occupancy))

	availability := make(map[string][]string)
	start := time.Now()
	for i := 0; i < horizonDays; i++ {
		day := start.AddDate(0, 0, i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		availability[day.Format(DateLayout)] = sampleSlots(grid, openCount)
	}

	s.mu.Lock()
	s.availability = availability
	s.mu.Unlock()

	logger.Info("Generated availability calendar",
		zap.Int("businessDays", len(availability)),
		zap.Int("slotsPerDay", openCount))
}

// AvailableSlots returns up to count open slots for the given date, sampled
// without replacement when the day has more than count entries. This is a
// display sampling, not a reservation; nothing is removed from the map.
// Unknown dates yield an empty result.
func (s *Store) AvailableSlots(date string, count int) []string {
	s.mu.RLock()
	slots, ok := s.availability[date]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if len(slots) <= count {
		out := make([]string, len(slots))
		copy(out, slots)
		return out
	}
	return sampleSlots(slots, count)
}

// BookFirstAvailable writes a mock appointment for the sender on the next
// weekday after today, at one of the fixed candidate times, overwriting any
// prior record. It deliberately does not consult the availability map; the
// record only seeds the initial reminder message.
func (s *Store) BookFirstAvailable(sender string) models.Appointment {
	day := time.Now().AddDate(0, 0, 1)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}

	appt := models.Appointment{
		Date: day.Format(DateLayout),
		Time: reminderTimes[rand.Intn(len(reminderTimes))],
	}

	s.mu.Lock()
	s.appointments[sender] = appt
	s.mu.Unlock()
	return appt
}

// Snapshot returns a copy of the full availability map.
func (s *Store) Snapshot() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.availability))
	for date, slots := range s.availability {
		cp := make([]string, len(slots))
		copy(cp, slots)
		out[date] = cp
	}
	return out
}

// Appointments returns a copy of the appointment map.
func (s *Store) Appointments() map[string]models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.Appointment, len(s.appointments))
	for sender, appt := range s.appointments {
		out[sender] = appt
	}
	return out
}

// slotGrid builds the ordered grid of slot keys between the business hours.
func slotGrid(startHour, endHour, slotMinutes int) []string {
	var grid []string
	for minutes := startHour * 60; minutes < endHour*60; minutes += slotMinutes {
		grid = append(grid, fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
	}
	return grid
}

// sampleSlots picks n distinct entries from slots and returns them sorted.
func sampleSlots(slots []string, n int) []string {
	if n >= len(slots) {
		n = len(slots)
	}
	picked := make([]string, 0, n)
	for _, idx := range rand.Perm(len(slots))[:n] {
		picked = append(picked, slots[idx])
	}
	sort.Strings(picked)
	return picked
}
