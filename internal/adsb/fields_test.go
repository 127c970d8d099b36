package adsb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBits(t *testing.T) {
	data := []byte{0xA5, 0x3C}

	assert.Equal(t, uint32(0x1), getBits(data, 1, 1))
	assert.Equal(t, uint32(0xA), getBits(data, 1, 4))
	assert.Equal(t, uint32(0x53), getBits(data, 5, 12))
	assert.Equal(t, uint32(0xA53C), getBits(data, 1, 16))
	assert.Equal(t, uint32(0), getBits(data, 9, 17), "past the end")
	assert.Equal(t, uint32(0), getBits(data, 0, 3), "bits are 1-based")
}

func TestExtractAltitude(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		df       int
		expected int
		ok       bool
	}{
		{name: "DF17 Q-bit", msg: "8D40621D58C382D690C8AC2863A7", df: 17, expected: 38000, ok: true},
		{name: "DF17 Gillham", msg: "8D48441258228000000000000000", df: 17, expected: 1000, ok: true},
		{name: "DF20 Q-bit", msg: "A02014B400000000000000F9D514", df: 20, expected: 32300, ok: true},
		{name: "DF4 Gillham", msg: "20000428000000", df: 4, expected: 1000, ok: true},
		{name: "DF4 zero field", msg: "20000000000000", df: 4, ok: false},
		{name: "DF17 identification has no altitude", msg: "8D4840D6202CC371C32CE0576098", df: 17, ok: false},
		{name: "DF5 has no altitude", msg: "2A00516D492B80", df: 5, ok: false},
		{name: "DF4 too short", msg: "200004", df: 4, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alt, ok := ExtractAltitude(mustHex(t, tt.msg), tt.df)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, alt)
			}
		})
	}
}

func TestDecodeAC13Metric(t *testing.T) {
	// M bit set, 12-bit metre value of 100
	ac13 := uint32(((100 & 0xFC0) << 1) | 0x40 | (100 & 0x3F))
	alt, ok := decodeAC13Field(ac13)
	require.True(t, ok)
	assert.Equal(t, 328, alt)
}

func TestModeAToModeCRejectsInvalid(t *testing.T) {
	_, ok := modeAToModeC(0x0000)
	assert.False(t, ok, "no C bits set")
	_, ok = modeAToModeC(0x0011)
	assert.False(t, ok, "D1 set")
}

func TestExtractSquawk(t *testing.T) {
	squawk, ok := ExtractSquawk(mustHex(t, "2A00516D492B80"), DFIdentityReply)
	require.True(t, ok)
	assert.Equal(t, "0356", squawk)

	_, ok = ExtractSquawk(mustHex(t, "20000428000000"), DFAltitudeReply)
	assert.False(t, ok)
}

func TestExtractVelocity(t *testing.T) {
	t.Run("ground speed", func(t *testing.T) {
		v, ok := ExtractVelocity(mustHex(t, "8D485020994409940838175B284F"))
		require.True(t, ok)
		assert.True(t, v.HasSpeed)
		assert.Equal(t, 159.0, v.Speed)
		assert.True(t, v.HasHeading)
		assert.InDelta(t, 182.88, v.Heading, 1e-9)
		assert.True(t, v.HasVerticalRate)
		assert.Equal(t, -832, v.VerticalRate)
		assert.Equal(t, "GS", v.Source)
	})

	t.Run("true airspeed", func(t *testing.T) {
		v, ok := ExtractVelocity(mustHex(t, "8DA05F219B06B6AF189400CBC33F"))
		require.True(t, ok)
		assert.Equal(t, 375.0, v.Speed)
		assert.InDelta(t, 243.98, v.Heading, 1e-9)
		assert.Equal(t, -2304, v.VerticalRate)
		assert.Equal(t, "TAS", v.Source)
	})

	t.Run("not a velocity squitter", func(t *testing.T) {
		_, ok := ExtractVelocity(mustHex(t, "8D4840D6202CC371C32CE0576098"))
		assert.False(t, ok)
	})
}

func TestExtractAltitudeDifference(t *testing.T) {
	diff, ok := ExtractAltitudeDifference(mustHex(t, "8D485020994409940838175B284F"))
	require.True(t, ok)
	assert.Equal(t, 550, diff)

	_, ok = ExtractAltitudeDifference(mustHex(t, evenPositionHex))
	assert.False(t, ok)
}

func TestExtractTargetState(t *testing.T) {
	ts, ok := ExtractTargetState(mustHex(t, "8DA05629EA21485CBF3F8CADAEEB"))
	require.True(t, ok)
	assert.Equal(t, 16992, ts.SelectedAltitude)
	assert.Equal(t, "MCP/FCU", ts.Source)
	assert.Equal(t, "UMTF", ts.Modes)

	ts, ok = ExtractTargetState(mustHex(t, "8D4CA251EA465878013C08A20B69"))
	require.True(t, ok)
	assert.Equal(t, 35968, ts.SelectedAltitude)
	assert.Empty(t, ts.Modes, "mode status bit clear")

	_, ok = ExtractTargetState(mustHex(t, evenPositionHex))
	assert.False(t, ok)
}

func TestExtractBaroSetting(t *testing.T) {
	baro, ok := ExtractBaroSetting(mustHex(t, "8DA05629EA21485CBF3F8CADAEEB"))
	require.True(t, ok)
	assert.InDelta(t, 1012.8, baro, 1e-9)

	baro, ok = ExtractBaroSetting(mustHex(t, "8D4CA251EA465878013C08A20B69"))
	require.True(t, ok)
	assert.InDelta(t, 1016.0, baro, 1e-9)
}

func TestExtractCallsign(t *testing.T) {
	callsign, ok := ExtractCallsign(mustHex(t, "8D4840D6202CC371C32CE0576098"))
	require.True(t, ok)
	assert.Equal(t, "KLM1023", callsign)

	_, ok = ExtractCallsign(mustHex(t, evenPositionHex))
	assert.False(t, ok)
}

func TestExtractCPRParity(t *testing.T) {
	p, ok := ExtractCPRParity(mustHex(t, evenPositionHex))
	require.True(t, ok)
	assert.Equal(t, ParityEven, p)

	p, ok = ExtractCPRParity(mustHex(t, oddPositionHex))
	require.True(t, ok)
	assert.Equal(t, ParityOdd, p)

	_, ok = ExtractCPRParity(mustHex(t, "8D485020994409940838175B284F"))
	assert.False(t, ok)
}
