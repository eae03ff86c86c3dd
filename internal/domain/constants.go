package domain

// Business validation constants
const (
	MaxSlotLabelLength = 10
	MaxNameLength      = 100
	MaxEmailLength     = 254
	MaxRFIDTagLength   = 64
)

// Time format constants
const (
	DateTimeFormat = "2006-01-02 15:04"
)
