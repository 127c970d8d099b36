package adsb

import (
	"encoding/hex"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	evenPositionHex = "8D40621D58C382D690C8AC2863A7"
	oddPositionHex  = "8D40621D58C386435CC412692AD6"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	data, err := hex.DecodeString(s)
	require.NoError(t, err)
	return data
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// TestNewCPRDecoder tests the CPR decoder constructor
func TestNewCPRDecoder(t *testing.T) {
	decoder := NewCPRDecoder(quietLogger(), false)
	assert.NotNil(t, decoder)
}

// TestCPRNFunction tests the NL (Number of Longitude Zones) function
func TestCPRNFunction(t *testing.T) {
	decoder := NewCPRDecoder(quietLogger(), false)

	tests := []struct {
		name     string
		latitude float64
		fflag    int
		expected int
	}{
		{name: "Equator, even frame", latitude: 0.0, fflag: 0, expected: 59},
		{name: "Equator, odd frame", latitude: 0.0, fflag: 1, expected: 58},
		{name: "Latitude 52, even frame", latitude: 52.25, fflag: 0, expected: 36},
		{name: "Pole, odd frame clamps to one", latitude: 89.0, fflag: 1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, decoder.cprNFunction(tt.latitude, tt.fflag))
		})
	}
}

// TestCPRDlonFunction tests the Dlon (longitude zone width) function
func TestCPRDlonFunction(t *testing.T) {
	decoder := NewCPRDecoder(quietLogger(), false)

	assert.InDelta(t, 360.0/59.0, decoder.cprDlonFunction(0, 0), 1e-9)
	assert.InDelta(t, 360.0/58.0, decoder.cprDlonFunction(0, 1), 1e-9)
	assert.InDelta(t, 360.0, decoder.cprDlonFunction(89.5, 1), 1e-9)
}

func TestCPRModInt(t *testing.T) {
	assert.Equal(t, 2, cprModInt(5, 3))
	assert.Equal(t, 1, cprModInt(-5, 3))
	assert.Equal(t, 0, cprModInt(-6, 3))
}

func TestExtractCPRFrame(t *testing.T) {
	even, ok := ExtractCPRFrame(mustHex(t, evenPositionHex), 10)
	require.True(t, ok)
	assert.Equal(t, ParityEven, even.FFlag)
	assert.Equal(t, uint32(93000), even.LatCPR)
	assert.Equal(t, uint32(51372), even.LonCPR)
	assert.Equal(t, 10.0, even.Timestamp)

	odd, ok := ExtractCPRFrame(mustHex(t, oddPositionHex), 11)
	require.True(t, ok)
	assert.Equal(t, ParityOdd, odd.FFlag)
	assert.Equal(t, uint32(74158), odd.LatCPR)
	assert.Equal(t, uint32(50194), odd.LonCPR)

	_, ok = ExtractCPRFrame(mustHex(t, "5D4840D6"), 0)
	assert.False(t, ok)
}

// TestDecodeGlobal tests decoding of a real even/odd frame pair
func TestDecodeGlobal(t *testing.T) {
	decoder := NewCPRDecoder(quietLogger(), true)

	tests := []struct {
		name  string
		tEven float64
		tOdd  float64
		lat   float64
		lon   float64
	}{
		{name: "even frame newest", tEven: 1457996402, tOdd: 1457996400, lat: 52.25720, lon: 3.91937},
		{name: "odd frame newest", tEven: 1457996400, tOdd: 1457996402, lat: 52.26578, lon: 3.93891},
		{name: "same timestamp uses odd frame", tEven: 1457996400, tOdd: 1457996400, lat: 52.26578, lon: 3.93891},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			even, ok := ExtractCPRFrame(mustHex(t, evenPositionHex), tt.tEven)
			require.True(t, ok)
			odd, ok := ExtractCPRFrame(mustHex(t, oddPositionHex), tt.tOdd)
			require.True(t, ok)

			pos, ok := decoder.DecodeGlobal(even, odd)
			require.True(t, ok)
			assert.InDelta(t, tt.lat, pos.Latitude, 1e-4)
			assert.InDelta(t, tt.lon, pos.Longitude, 1e-4)
		})
	}
}

func TestDecodeGlobalRejectsZoneMismatch(t *testing.T) {
	decoder := NewCPRDecoder(quietLogger(), false)

	// Latitudes on either side of an NL boundary
	even := CPRFrame{LatCPR: 0, LonCPR: 0, FFlag: ParityEven, Timestamp: 1}
	odd := CPRFrame{LatCPR: 31279, LonCPR: 0, FFlag: ParityOdd, Timestamp: 2}

	_, ok := decoder.DecodeGlobal(even, odd)
	assert.False(t, ok)
}

// TestCPRConstants tests CPR-related constants
func TestCPRConstants(t *testing.T) {
	assert.Equal(t, 131072, CPR_LAT_MAX)
	assert.Equal(t, 131072, CPR_LON_MAX)
	assert.Equal(t, 17, CPR_LAT_BITS)
}
