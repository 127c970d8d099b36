package adsb

import (
	"fmt"
	"math"
	"strings"
)

// getBits extracts bits from data using 1-based indexing (like dump1090)
func getBits(data []byte, firstBit, lastBit int) uint32 {
	if firstBit < 1 || lastBit < firstBit || lastBit-firstBit >= 32 {
		return 0
	}

	fbi := firstBit - 1
	lbi := lastBit - 1
	nbi := lastBit - firstBit + 1

	fby := fbi / 8
	lby := lbi / 8

	if lby >= len(data) {
		return 0
	}

	shift := 7 - (lbi % 8)
	topMask := uint8(0xFF >> (fbi % 8))

	var result uint64
	for i := fby; i <= lby; i++ {
		if i == fby {
			result = uint64(data[i] & topMask)
		} else {
			result = (result << 8) | uint64(data[i])
		}
	}

	return uint32((result >> shift) & ((1 << nbi) - 1))
}

// decodeID13Field reorders a 13-bit identity field into Gillham 0xABCD order
func decodeID13Field(id13 uint32) uint32 {
	var hexGillham uint32

	if id13&0x1000 != 0 {
		hexGillham |= 0x0010 // C1
	}
	if id13&0x0800 != 0 {
		hexGillham |= 0x1000 // A1
	}
	if id13&0x0400 != 0 {
		hexGillham |= 0x0020 // C2
	}
	if id13&0x0200 != 0 {
		hexGillham |= 0x2000 // A2
	}
	if id13&0x0100 != 0 {
		hexGillham |= 0x0040 // C4
	}
	if id13&0x0080 != 0 {
		hexGillham |= 0x4000 // A4
	}
	if id13&0x0020 != 0 {
		hexGillham |= 0x0100 // B1
	}
	if id13&0x0010 != 0 {
		hexGillham |= 0x0001 // D1
	}
	if id13&0x0008 != 0 {
		hexGillham |= 0x0200 // B2
	}
	if id13&0x0004 != 0 {
		hexGillham |= 0x0002 // D2
	}
	if id13&0x0002 != 0 {
		hexGillham |= 0x0400 // B4
	}
	if id13&0x0001 != 0 {
		hexGillham |= 0x0004 // D4
	}

	return hexGillham
}

// modeAToModeC converts a Gillham-ordered code into 100 ft altitude increments
func modeAToModeC(modeA uint32) (int, bool) {
	var fiveHundreds, oneHundreds uint32

	if modeA&0xFFFF8889 != 0 || modeA&0x000000F0 == 0 {
		return 0, false
	}

	if modeA&0x0010 != 0 {
		oneHundreds ^= 0x007 // C1
	}
	if modeA&0x0020 != 0 {
		oneHundreds ^= 0x003 // C2
	}
	if modeA&0x0040 != 0 {
		oneHundreds ^= 0x001 // C4
	}

	// Remove 7s from oneHundreds (make 7->5 and 5->7)
	if oneHundreds&5 == 5 {
		oneHundreds ^= 2
	}
	if oneHundreds > 5 {
		return 0, false
	}

	if modeA&0x0002 != 0 {
		fiveHundreds ^= 0x0FF // D2
	}
	if modeA&0x0004 != 0 {
		fiveHundreds ^= 0x07F // D4
	}
	if modeA&0x1000 != 0 {
		fiveHundreds ^= 0x03F // A1
	}
	if modeA&0x2000 != 0 {
		fiveHundreds ^= 0x01F // A2
	}
	if modeA&0x4000 != 0 {
		fiveHundreds ^= 0x00F // A4
	}
	if modeA&0x0100 != 0 {
		fiveHundreds ^= 0x007 // B1
	}
	if modeA&0x0200 != 0 {
		fiveHundreds ^= 0x003 // B2
	}
	if modeA&0x0400 != 0 {
		fiveHundreds ^= 0x001 // B4
	}

	if fiveHundreds&1 != 0 {
		oneHundreds = 6 - oneHundreds
	}

	return int(fiveHundreds*5+oneHundreds) - 13, true
}

// decodeAC13Field decodes the 13-bit altitude code of surveillance replies
func decodeAC13Field(ac13 uint32) (int, bool) {
	if ac13 == 0 {
		return 0, false
	}

	mBit := ac13&0x0040 != 0
	qBit := ac13&0x0010 != 0

	if mBit {
		// Metric altitude: remaining 12 bits in metres
		n := ((ac13 & 0x1F80) >> 1) | (ac13 & 0x003F)
		return int(math.Round(float64(n) * 3.28084)), true
	}

	if qBit {
		n := ((ac13 & 0x1F80) >> 2) | ((ac13 & 0x0020) >> 1) | (ac13 & 0x000F)
		return int(n)*25 - 1000, true
	}

	n, ok := modeAToModeC(decodeID13Field(ac13))
	if !ok {
		return 0, false
	}
	return n * 100, true
}

// decodeAC12Field decodes the 12-bit altitude code of airborne position squitters
func decodeAC12Field(ac12 uint32) (int, bool) {
	if ac12 == 0 {
		return 0, false
	}

	if ac12&0x10 != 0 {
		// N is the 11 bit integer resulting from the removal of bit Q
		n := ((ac12 & 0x0FE0) >> 1) | (ac12 & 0x000F)
		return int(n)*25 - 1000, true
	}

	// Make N a 13 bit Gillham coded altitude by inserting M=0 at bit 6
	n13 := ((ac12 & 0x0FC0) << 1) | (ac12 & 0x003F)
	n, ok := modeAToModeC(decodeID13Field(n13))
	if !ok {
		return 0, false
	}
	return n * 100, true
}

// ExtractAltitude extracts barometric altitude from airborne position squitters
// (TC 9-18) and from altitude-bearing surveillance replies (DF0/4/16/20)
func ExtractAltitude(data []byte, df int) (int, bool) {
	switch df {
	case DFExtSquitter, DFNonTransponder:
		tc, ok := TypeCode(data)
		if !ok || tc < TCAirbornePositionMin || tc > TCAirbornePositionMax {
			return 0, false
		}
		me, ok := meField(data)
		if !ok {
			return 0, false
		}
		return decodeAC12Field(getBits(me, 9, 20))

	case DFShortAirAir, DFAltitudeReply, DFLongAirAir, DFCommBAltitude:
		if len(data) < ShortMessageBytes {
			return 0, false
		}
		return decodeAC13Field(getBits(data, 20, 32))
	}

	return 0, false
}

// ExtractSquawk extracts the Mode A code from identity replies (DF5/21)
func ExtractSquawk(data []byte, df int) (string, bool) {
	if df != DFIdentityReply && df != DFCommBIdentity {
		return "", false
	}
	if len(data) < ShortMessageBytes {
		return "", false
	}

	gillham := decodeID13Field(getBits(data, 20, 32))

	squawk := 0
	squawk += int((gillham>>SquawkA4A2A1Shift)&SquawkA4A2A1Mask) * SquawkAMultiplier
	squawk += int((gillham>>SquawkB4B2B1Shift)&SquawkB4B2B1Mask) * SquawkBMultiplier
	squawk += int((gillham>>SquawkC4C2C1Shift)&SquawkC4C2C1Mask) * SquawkCMultiplier
	squawk += int((gillham>>SquawkD4D2D1Shift)&SquawkD4D2D1Mask) * SquawkDMultiplier

	return fmt.Sprintf("%04d", squawk), true
}

// ExtractVelocity extracts speed, heading and vertical rate from airborne velocity squitters
func ExtractVelocity(data []byte) (Velocity, bool) {
	tc, ok := TypeCode(data)
	if !ok || tc != TCAirborneVelocity {
		return Velocity{}, false
	}
	me, ok := meField(data)
	if !ok {
		return Velocity{}, false
	}

	subtype := int(getBits(me, 6, 8))
	var v Velocity

	switch subtype {
	case 1, 2:
		v.Source = "GS"
		ewRaw := int(getBits(me, 15, 24))
		nsRaw := int(getBits(me, 26, 35))

		if ewRaw != 0 && nsRaw != 0 {
			scale := 1
			if subtype == 2 {
				scale = 4
			}
			ewVel := (ewRaw - 1) * scale
			if getBits(me, 14, 14) != 0 {
				ewVel = -ewVel
			}
			nsVel := (nsRaw - 1) * scale
			if getBits(me, 25, 25) != 0 {
				nsVel = -nsVel
			}

			v.Speed = math.Round(math.Sqrt(float64(nsVel*nsVel + ewVel*ewVel)))
			v.HasSpeed = true

			track := math.Atan2(float64(ewVel), float64(nsVel)) * 180.0 / math.Pi
			if track < 0 {
				track += 360
			}
			v.Heading = math.Round(track*100) / 100
			v.HasHeading = true
		}

	case 3, 4:
		v.Source = "IAS"
		if getBits(me, 25, 25) != 0 {
			v.Source = "TAS"
		}

		if getBits(me, 14, 14) != 0 {
			heading := float64(getBits(me, 15, 24)) * 360.0 / 1024.0
			v.Heading = math.Round(heading*100) / 100
			v.HasHeading = true
		}

		airspeedRaw := int(getBits(me, 26, 35))
		if airspeedRaw != 0 {
			scale := 1
			if subtype == 4 {
				scale = 4
			}
			v.Speed = float64((airspeedRaw - 1) * scale)
			v.HasSpeed = true
		}

	default:
		return Velocity{}, false
	}

	vrRaw := int(getBits(me, 38, 46))
	if vrRaw != 0 {
		v.VerticalRate = (vrRaw - 1) * 64
		if getBits(me, 37, 37) != 0 {
			v.VerticalRate = -v.VerticalRate
		}
		v.HasVerticalRate = true
	}

	return v, true
}

// ExtractAltitudeDifference extracts the GNSS minus barometric altitude difference of a TC19 squitter
func ExtractAltitudeDifference(data []byte) (int, bool) {
	tc, ok := TypeCode(data)
	if !ok || tc != TCAirborneVelocity {
		return 0, false
	}
	me, ok := meField(data)
	if !ok {
		return 0, false
	}

	raw := int(getBits(me, 50, 56))
	if raw == 0 || raw == 127 {
		return 0, false
	}

	diff := (raw - 1) * 25
	if getBits(me, 49, 49) != 0 {
		diff = -diff
	}
	return diff, true
}

// targetStateME returns the ME field of a TC29 subtype 1 (DO-260B) squitter
func targetStateME(data []byte) ([]byte, bool) {
	tc, ok := TypeCode(data)
	if !ok || tc != TCTargetState {
		return nil, false
	}
	me, ok := meField(data)
	if !ok {
		return nil, false
	}
	if getBits(me, 6, 7) != 1 {
		return nil, false
	}
	return me, true
}

// ExtractTargetState extracts the selected altitude and autopilot mode characters of a target state squitter
func ExtractTargetState(data []byte) (TargetState, bool) {
	me, ok := targetStateME(data)
	if !ok {
		return TargetState{}, false
	}

	raw := int(getBits(me, 10, 20))
	if raw == 0 {
		return TargetState{}, false
	}

	ts := TargetState{
		SelectedAltitude: (raw - 1) * 32,
		Source:           "MCP/FCU",
	}
	if getBits(me, 9, 9) != 0 {
		ts.Source = "FMS"
	}

	// Mode bits are only meaningful when the status bit is set
	if getBits(me, 47, 47) != 0 {
		var modes strings.Builder
		flags := []struct {
			bit  int
			char byte
		}{
			{48, ModeCharAutopilot},
			{49, ModeCharVNAV},
			{50, ModeCharAltitudeHold},
			{52, ModeCharApproach},
			{53, ModeCharTCAS},
			{54, ModeCharLNAV},
		}
		for _, f := range flags {
			if getBits(me, f.bit, f.bit) != 0 {
				modes.WriteByte(f.char)
			}
		}
		ts.Modes = modes.String()
	}

	return ts, true
}

// ExtractBaroSetting extracts the barometric pressure setting (hPa) of a target state squitter
func ExtractBaroSetting(data []byte) (float64, bool) {
	me, ok := targetStateME(data)
	if !ok {
		return 0, false
	}

	raw := getBits(me, 21, 29)
	if raw == 0 {
		return 0, false
	}
	return math.Round((float64(raw-1)*0.8+800)*10) / 10, true
}

// ExtractCallsign extracts callsign from aircraft identification message (dump1090 style)
func ExtractCallsign(data []byte) (string, bool) {
	tc, ok := TypeCode(data)
	if !ok || tc < TCIdentificationMin || tc > TCIdentificationMax {
		return "", false
	}
	me, ok := meField(data)
	if !ok {
		return "", false
	}

	var callsign [8]byte
	for i := range callsign {
		first := 9 + i*6
		callsign[i] = ADSBCharset[getBits(me, first, first+5)]
	}

	result := strings.TrimSpace(string(callsign[:]))
	if result == "" {
		return "", false
	}
	return result, true
}

// ExtractCPRParity returns the even/odd format flag of an airborne position squitter
func ExtractCPRParity(data []byte) (Parity, bool) {
	tc, ok := TypeCode(data)
	if !ok || tc < TCAirbornePositionMin || tc > TCAirbornePositionMax {
		return ParityEven, false
	}
	me, ok := meField(data)
	if !ok {
		return ParityEven, false
	}
	return Parity(getBits(me, 22, 22)), true
}
