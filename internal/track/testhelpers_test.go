package track

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"squitterlog/internal/adsb"
)

const (
	evenPositionHex = "8D40621D58C382D690C8AC2863A7"
	oddPositionHex  = "8D40621D58C386435CC412692AD6"
	identHex        = "8D4840D6202CC371C32CE0576098"
	velocityHex     = "8D485020994409940838175B284F"
	targetStateHex  = "8DA05629EA21485CBF3F8CADAEEB"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func line(ts float64, payload string) string {
	return fmt.Sprintf("%.6f %s", ts, payload)
}

// withParity appends the CRC of header, overlaid with addr
func withParity(header []byte, addr uint32) string {
	ap := adsb.CalculateCRC(header) ^ addr
	full := append(append([]byte{}, header...), byte(ap>>16), byte(ap>>8), byte(ap))
	return strings.ToUpper(hex.EncodeToString(full))
}

// squitterHex builds a DF17 squitter from a 56-bit ME field
func squitterHex(icao uint32, me uint64) string {
	header := []byte{0x8D, byte(icao >> 16), byte(icao >> 8), byte(icao)}
	for shift := 48; shift >= 0; shift -= 8 {
		header = append(header, byte(me>>shift))
	}
	return withParity(header, 0)
}

// meBits shifts value so that it ends at ME bit last (1-based)
func meBits(last int, value uint64) uint64 {
	return value << (56 - last)
}

// identificationHex builds a DF17 TC4 squitter carrying callsign
func identificationHex(icao uint32, callsign string) string {
	me := meBits(5, adsb.TCIdentificationMax)
	padded := fmt.Sprintf("%-8s", callsign)
	for i, c := range padded {
		idx := strings.IndexRune(adsb.ADSBCharset, c)
		me |= meBits(14+6*i, uint64(idx))
	}
	return squitterHex(icao, me)
}

// targetStateHexFor builds a TC29 subtype 1 squitter with the autopilot mode engaged
func targetStateHexFor(icao uint32, selRaw, baroRaw uint64) string {
	me := meBits(5, adsb.TCTargetState) | meBits(7, 1) |
		meBits(20, selRaw) | meBits(29, baroRaw) |
		meBits(47, 1) | meBits(48, 1)
	return squitterHex(icao, me)
}

// velocityHexFor builds a TC19 subtype 1 squitter carrying only an altitude difference
func velocityHexFor(icao uint32, diffRaw uint64, below bool) string {
	me := meBits(5, adsb.TCAirborneVelocity) | meBits(8, 1) | meBits(56, diffRaw)
	if below {
		me |= meBits(49, 1)
	}
	return squitterHex(icao, me)
}

// fixedFieldDecoder reports the same altitude and squawk for every message
type fixedFieldDecoder struct {
	*adsb.Decoder
	altitude int
	squawk   string
}

func (d *fixedFieldDecoder) Altitude([]byte, int) (int, bool) {
	return d.altitude, true
}

func (d *fixedFieldDecoder) Squawk([]byte, int) (string, bool) {
	return d.squawk, d.squawk != ""
}

// countingDecoder records position resolution attempts
type countingDecoder struct {
	*adsb.Decoder
	calls  int
	refuse bool
}

func (d *countingDecoder) ResolvePosition(even, odd []byte, tEven, tOdd float64) (adsb.Position, bool) {
	d.calls++
	if d.refuse {
		return adsb.Position{}, false
	}
	return d.Decoder.ResolvePosition(even, odd, tEven, tOdd)
}

func newCountingDecoder(refuse bool) *countingDecoder {
	return &countingDecoder{Decoder: adsb.NewDecoder(quietLogger(), false), refuse: refuse}
}
