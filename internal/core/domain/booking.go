package domain

import (
	"github.com/suchimauz/hospital-booking-engine/internal/core/json_types"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
)

// Booking - подтвержденная запись на прием.
// Переходы COMPLETED и NO_SHOW делает только сервер, клиент их лишь наблюдает.
type Booking struct {
	ID              int64                `json:"id"`
	BookingTime     json_types.DateTime  `json:"bookingTime"`
	Status          BookingStatus        `json:"status"`
	PatientNotes    string               `json:"patientNotes,omitempty"`
	AmountPaid      float64              `json:"amountPaid,omitempty"`
	AppointmentDate json_types.Date      `json:"appointmentDate"`
	AppointmentTime json_types.TimeOfDay `json:"appointmentTime"`
	Doctor          DoctorSummary        `json:"doctor"`
	Hospital        Hospital             `json:"hospital"`
}

// BookingRequest - тело POST /bookings
type BookingRequest struct {
	SlotID       int64  `json:"slotId"`
	UserID       int64  `json:"userId"`
	PatientNotes string `json:"patientNotes,omitempty"`
}
