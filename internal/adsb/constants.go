package adsb

// ADS-B 6-bit character set: space, A-Z, 0-9
// This is the standard character set used in ADS-B callsign encoding
const ADSBCharset = "@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_ !\"#$%&'()*+,-./0123456789:;<=>?"

// Message lengths in bytes
const (
	ShortMessageBytes = 7  // 56 bits
	LongMessageBytes  = 14 // 112 bits
)

// Downlink formats the analyzer dispatches on
const (
	DFShortAirAir    = 0
	DFAltitudeReply  = 4
	DFIdentityReply  = 5
	DFAllCallReply   = 11
	DFLongAirAir     = 16
	DFExtSquitter    = 17
	DFNonTransponder = 18
	DFMilitary       = 19
	DFCommBAltitude  = 20
	DFCommBIdentity  = 21
	DFCommD          = 24
)

// Extended squitter type codes
const (
	TCIdentificationMin   = 1
	TCIdentificationMax   = 4
	TCSurfacePositionMin  = 5
	TCSurfacePositionMax  = 8
	TCAirbornePositionMin = 9
	TCAirbornePositionMax = 18
	TCAirborneVelocity    = 19
	TCGNSSPositionMin     = 20
	TCGNSSPositionMax     = 22
	TCAircraftStatus      = 28
	TCTargetState         = 29
	TCOperationStatus     = 31
)

// CPR decoding constants
const (
	CPR_LAT_BITS = 17
	CPR_LON_BITS = 17
	CPR_LAT_MAX  = 131072 // 2^17
	CPR_LON_MAX  = 131072 // 2^17
)

// Squawk code bit manipulation constants
const (
	SquawkA4A2A1Mask = 0x07 // Mask for A4 A2 A1 bits
	SquawkB4B2B1Mask = 0x07 // Mask for B4 B2 B1 bits
	SquawkC4C2C1Mask = 0x07 // Mask for C4 C2 C1 bits
	SquawkD4D2D1Mask = 0x07 // Mask for D4 D2 D1 bits

	SquawkA4A2A1Shift = 12 // Shift for A4 A2 A1 bits in Gillham order
	SquawkB4B2B1Shift = 8  // Shift for B4 B2 B1 bits in Gillham order
	SquawkC4C2C1Shift = 4  // Shift for C4 C2 C1 bits in Gillham order
	SquawkD4D2D1Shift = 0  // Shift for D4 D2 D1 bits in Gillham order

	SquawkAMultiplier = 1000 // Multiplier for A digit
	SquawkBMultiplier = 100  // Multiplier for B digit
	SquawkCMultiplier = 10   // Multiplier for C digit
	SquawkDMultiplier = 1    // Multiplier for D digit
)

// Target state mode characters, as carried in TC29 subtype 1
const (
	ModeCharAutopilot    = 'U'
	ModeCharVNAV         = 'M'
	ModeCharAltitudeHold = '/'
	ModeCharApproach     = 'P'
	ModeCharTCAS         = 'T'
	ModeCharLNAV         = 'F'
)
