package handlers

import (
	"net/http"

	"remindly/services/calendar"

	"github.com/gin-gonic/gin"
)

// CalendarHandler exposes the read-only query surface over the calendar
// store: booked appointments, the full availability map, and single dates.
type CalendarHandler struct {
	Store *calendar.Store
}

func NewCalendarHandler(store *calendar.Store) *CalendarHandler {
	return &CalendarHandler{Store: store}
}

func (h *CalendarHandler) GetAppointmentsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"appointments": h.Store.Appointments()})
}

func (h *CalendarHandler) GetCalendarHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"calendar": h.Store.Snapshot()})
}

func (h *CalendarHandler) GetCalendarDateHandler(c *gin.Context) {
	date := c.Param("date")
	snapshot := h.Store.Snapshot()
	slots, ok := snapshot[date]
	if !ok {
		c.JSON(http.StatusOK, gin.H{"error": "Date not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "available_slots": slots})
}
