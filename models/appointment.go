package models

// Appointment is a booked consultation slot, keyed by the sender's phone
// number in the calendar store. At most one active appointment per sender;
// re-booking overwrites the prior record.
type Appointment struct {
	Date string `json:"date"` // business day, "2006-01-02"
	Time string `json:"time"` // grid slot, "15:04"
}
