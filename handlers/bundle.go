package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the handlers wired in main so the routes package
// only depends on this one type.
type HandlerBundle struct {
	// Webhook endpoint.
	HandleSMSWebhook gin.HandlerFunc

	// Read-only query surface.
	GetAppointmentsHandler gin.HandlerFunc
	GetCalendarHandler     gin.HandlerFunc
	GetCalendarDateHandler gin.HandlerFunc
}
