package domain

import "github.com/courtflow/CourtFlow-BookingService/pkg/types"

// Default operating policy values
const (
	DefaultOpenTime               = types.TimeString("08:00")
	DefaultCloseTime              = types.TimeString("23:00")
	DefaultSlotGranularityMinutes = 60
	DefaultSessionDurationMinutes = 90
	DefaultAdvanceBookingDays     = 14
	DefaultCancellationFeeRate    = 0.0
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 15
	MaxSlotGranularityMinutes = 120
	MinSessionDurationMinutes = 30
	MaxSessionDurationMinutes = 240
	MinAdvanceBookingDays     = 0
	MaxAdvanceBookingDays     = 365
	MinCourtCapacity          = 2
	MaxCourtCapacity          = 8
	MaxCourtNameLength        = 100
	MaxCancelReasonLength     = 500
	MaxParticipantEmailLength = 254
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
