package adsb

// MaxMessageBytes caps the payload kept for a framed message
const MaxMessageBytes = 32

// Message represents one framed Mode S message read from a capture log
type Message struct {
	Timestamp float64 // seconds since the Unix epoch, sub-second precision
	Data      []byte  // raw payload, at most MaxMessageBytes
	Digits    int     // hex digits of the payload before truncation
}

// BitLength returns the payload length in bits as written in the capture line
func (msg *Message) BitLength() int {
	if msg.Digits > 0 {
		return msg.Digits * 4
	}
	return len(msg.Data) * 8
}

// Parity identifies the even/odd CPR frame format
type Parity uint8

const (
	ParityEven Parity = 0
	ParityOdd  Parity = 1
)

// CPRFrame represents a CPR encoded position frame
type CPRFrame struct {
	LatCPR    uint32
	LonCPR    uint32
	FFlag     Parity
	Timestamp float64
}

// Position represents decoded lat/lon coordinates
type Position struct {
	Latitude  float64
	Longitude float64
}

// Velocity holds the fields of an airborne velocity squitter (TC19).
// Each Has* flag reports whether the matching field was present.
type Velocity struct {
	Speed           float64 // knots, ground speed or airspeed depending on Source
	HasSpeed        bool
	Heading         float64 // degrees, track for ground speed subtypes
	HasHeading      bool
	VerticalRate    int // ft/min
	HasVerticalRate bool
	Source          string // "GS", "IAS" or "TAS"
}

// TargetState holds the selected altitude and autopilot modes of a TC29 squitter
type TargetState struct {
	SelectedAltitude int    // feet
	Source           string // "MCP/FCU" or "FMS"
	Modes            string // mode characters, see ModeChar* constants
}

// DownlinkFormat returns the DF of a payload, capped at 24 since DF24 only uses two bits.
// It returns -1 for an empty payload.
func DownlinkFormat(data []byte) int {
	if len(data) == 0 {
		return -1
	}
	df := int(data[0]>>3) & 0x1F
	if df > DFCommD {
		df = DFCommD
	}
	return df
}

// IsExtendedSquitter reports whether df carries an ADS-B ME field
func IsExtendedSquitter(df int) bool {
	return df == DFExtSquitter || df == DFNonTransponder
}

// TypeCode extracts the ME type code of an extended squitter
func TypeCode(data []byte) (int, bool) {
	if !IsExtendedSquitter(DownlinkFormat(data)) || len(data) < 5 {
		return 0, false
	}
	return int(data[4]>>3) & 0x1F, true
}

// meField returns the 56-bit ME field of an extended squitter
func meField(data []byte) ([]byte, bool) {
	if !IsExtendedSquitter(DownlinkFormat(data)) || len(data) < 11 {
		return nil, false
	}
	return data[4:11], true
}
