package adsb

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Decoder turns raw Mode S payloads into semantic fields.
// Every method reports absence with ok=false; none of them return errors.
type Decoder struct {
	logger  *logrus.Logger
	verbose bool
	cpr     *CPRDecoder
}

// NewDecoder creates a new field decoder
func NewDecoder(logger *logrus.Logger, verbose bool) *Decoder {
	return &Decoder{
		logger:  logger,
		verbose: verbose,
		cpr:     NewCPRDecoder(logger, verbose),
	}
}

// Format returns the downlink format of a payload
func (d *Decoder) Format(data []byte) (int, bool) {
	df := DownlinkFormat(data)
	return df, df >= 0
}

// Address returns the ICAO address as six upper-case hex digits.
// Squitters carry it in the AA field, surveillance replies overlay it on the parity field.
func (d *Decoder) Address(data []byte) (string, bool) {
	df := DownlinkFormat(data)

	switch df {
	case DFAllCallReply, DFExtSquitter, DFNonTransponder:
		if len(data) < 4 {
			return "", false
		}
		return fmt.Sprintf("%02X%02X%02X", data[1], data[2], data[3]), true

	case DFShortAirAir, DFAltitudeReply, DFIdentityReply, DFLongAirAir, DFCommBAltitude, DFCommBIdentity:
		addr, ok := RecoverAddress(data)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%06X", addr), true
	}

	return "", false
}

// TypeCode returns the ME type code of an extended squitter
func (d *Decoder) TypeCode(data []byte) (int, bool) {
	return TypeCode(data)
}

// Altitude returns the barometric altitude in feet
func (d *Decoder) Altitude(data []byte, df int) (int, bool) {
	return ExtractAltitude(data, df)
}

// Squawk returns the four digit Mode A code
func (d *Decoder) Squawk(data []byte, df int) (string, bool) {
	return ExtractSquawk(data, df)
}

// Velocity returns the airborne velocity fields of a TC19 squitter
func (d *Decoder) Velocity(data []byte) (Velocity, bool) {
	v, ok := ExtractVelocity(data)
	if ok && d.verbose {
		d.logger.Debugf("Velocity: speed=%.0f heading=%.2f vrate=%d source=%s",
			v.Speed, v.Heading, v.VerticalRate, v.Source)
	}
	return v, ok
}

// TargetState returns the selected altitude and mode characters of a TC29 squitter
func (d *Decoder) TargetState(data []byte) (TargetState, bool) {
	return ExtractTargetState(data)
}

// AltitudeDiff returns the GNSS minus barometric altitude difference in feet
func (d *Decoder) AltitudeDiff(data []byte) (int, bool) {
	return ExtractAltitudeDifference(data)
}

// BaroSetting returns the barometric pressure setting in hPa
func (d *Decoder) BaroSetting(data []byte) (float64, bool) {
	return ExtractBaroSetting(data)
}

// Callsign returns the identification callsign, trailing padding removed
func (d *Decoder) Callsign(data []byte) (string, bool) {
	return ExtractCallsign(data)
}

// CPRParity returns the even/odd flag of an airborne position squitter
func (d *Decoder) CPRParity(data []byte) (Parity, bool) {
	return ExtractCPRParity(data)
}

// ResolvePosition decodes a global airborne position from an even and an odd frame
func (d *Decoder) ResolvePosition(even, odd []byte, tEven, tOdd float64) (Position, bool) {
	evenFrame, ok := ExtractCPRFrame(even, tEven)
	if !ok || evenFrame.FFlag != ParityEven {
		return Position{}, false
	}
	oddFrame, ok := ExtractCPRFrame(odd, tOdd)
	if !ok || oddFrame.FFlag != ParityOdd {
		return Position{}, false
	}
	return d.cpr.DecodeGlobal(evenFrame, oddFrame)
}
