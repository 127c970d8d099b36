package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squitterlog/internal/adsb"
)

func newTestAggregator(dec FieldDecoder, opts Options) *Aggregator {
	return NewAggregator(dec, quietLogger(), opts)
}

func TestCPRPairResolvesOnceAndClears(t *testing.T) {
	dec := newCountingDecoder(false)
	agg := newTestAggregator(dec, Options{})

	require.True(t, agg.Ingest(line(100, evenPositionHex)))
	even, odd := agg.Positions().Pending("40621D")
	assert.True(t, even)
	assert.False(t, odd)

	require.True(t, agg.Ingest(line(101, oddPositionHex)))
	assert.Equal(t, 1, dec.calls)

	even, odd = agg.Positions().Pending("40621D")
	assert.False(t, even)
	assert.False(t, odd)

	rec, ok := agg.Record("40621d")
	require.True(t, ok)
	require.Len(t, rec.Positions, 1)
	assert.Equal(t, 101.0, rec.Positions[0].Time)
	assert.InDelta(t, 52.26578, rec.Positions[0].Position.Lat, 1e-4)
	assert.InDelta(t, 3.93891, rec.Positions[0].Position.Long, 1e-4)
}

func TestCPRPairClearsOnFailedResolution(t *testing.T) {
	dec := newCountingDecoder(true)
	agg := newTestAggregator(dec, Options{})

	agg.Ingest(line(100, evenPositionHex))
	agg.Ingest(line(105, oddPositionHex))

	assert.Equal(t, 1, dec.calls)
	even, odd := agg.Positions().Pending("40621D")
	assert.False(t, even)
	assert.False(t, odd)

	rec, _ := agg.Record("40621D")
	assert.Empty(t, rec.Positions)
}

func TestCPRPairOutsideWindowIsKept(t *testing.T) {
	dec := newCountingDecoder(false)
	agg := newTestAggregator(dec, Options{})

	agg.Ingest(line(100, evenPositionHex))
	agg.Ingest(line(110, oddPositionHex))

	assert.Equal(t, 0, dec.calls)
	even, odd := agg.Positions().Pending("40621D")
	assert.True(t, even)
	assert.True(t, odd)

	// A fresh even frame replaces the stale one and pairs with the odd frame
	agg.Ingest(line(111, evenPositionHex))
	assert.Equal(t, 1, dec.calls)
}

func TestAggregatorSeriesFromSquitters(t *testing.T) {
	agg := newTestAggregator(adsb.NewDecoder(quietLogger(), false), Options{})

	agg.Ingest(line(10, identHex))
	agg.Ingest(line(11, velocityHex))
	agg.Ingest(line(12, targetStateHex))
	agg.Ingest(line(13, evenPositionHex))

	ident, ok := agg.Record("4840D6")
	require.True(t, ok)
	assert.Equal(t, "KLM1023", ident.Callsign)
	assert.Equal(t, []float64{10}, ident.Timestamps(CategoryIdentification))
	assert.Equal(t, []string{"DF17(L)"}, ident.Formats())

	vel, ok := agg.Record("485020")
	require.True(t, ok)
	assert.Equal(t, []Sample{{Time: 11, Value: 159}}, vel.GroundSpeed)
	require.Len(t, vel.Course, 1)
	assert.InDelta(t, 182.88, vel.Course[0].Value, 1e-9)
	assert.Equal(t, []Sample{{Time: 11, Value: 550}}, vel.AltitudeDiff)
	assert.Empty(t, vel.GNSSAltitude, "no barometric altitude to fuse with")
	assert.Equal(t, []float64{11}, vel.Timestamps(CategoryVelocity))

	ts, ok := agg.Record("A05629")
	require.True(t, ok)
	assert.Equal(t, []Sample{{Time: 12, Value: 16992}}, ts.SelectedAltitude)
	require.Len(t, ts.BaroSetting, 1)
	assert.InDelta(t, 1012.8, ts.BaroSetting[0].Value, 1e-9)
	assert.Equal(t, []string{"AP", "LNAV", "TCAS", "VNAV"}, ts.Modes())

	pos, ok := agg.Record("40621D")
	require.True(t, ok)
	assert.Equal(t, []Sample{{Time: 13, Value: 38000}}, pos.BaroAltitude)
	assert.Equal(t, []float64{13}, pos.Timestamps(CategoryAirbornePosition))

	stats := agg.Stats()
	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 4, stats.Messages)
	assert.Equal(t, 0, stats.CorruptSquitters)
}

func TestAggregatorModeUnionIsIdempotent(t *testing.T) {
	agg := newTestAggregator(adsb.NewDecoder(quietLogger(), false), Options{})

	agg.Ingest(line(1, targetStateHex))
	rec, _ := agg.Record("A05629")
	once := rec.Modes()

	agg.Ingest(line(2, targetStateHex))
	assert.Equal(t, once, rec.Modes())
	assert.Len(t, rec.SelectedAltitude, 2)
}

func TestAggregatorLegacyReplies(t *testing.T) {
	agg := newTestAggregator(adsb.NewDecoder(quietLogger(), false), Options{})

	altitudeReply := withParity([]byte{0x20, 0x00, 0x04, 0x28}, 0xABCDEF)
	identityReply := withParity([]byte{0x2A, 0x00, 0x51, 0x6D}, 0xABCDEF)

	require.True(t, agg.Ingest(line(5, altitudeReply)))
	require.True(t, agg.Ingest(line(6, identityReply)))
	require.True(t, agg.Ingest(line(7, "5DABCDEF000000")))

	rec, ok := agg.Record("ABCDEF")
	require.True(t, ok)
	assert.Equal(t, []Sample{{Time: 5, Value: 1000}}, rec.BaroAltitude)
	assert.Equal(t, "0356", rec.Squawk)
	assert.Equal(t, "SQ:0356", rec.Identity())
	assert.Equal(t, []string{"DF11(S)", "DF4(S)", "DF5(S)"}, rec.Formats())
	assert.Equal(t, []float64{7}, rec.Timestamps(CategoryAcquisition))
	assert.Equal(t, 5.0, rec.FirstSeen)
	assert.Equal(t, 7.0, rec.LastSeen)
	assert.False(t, rec.HasExtendedSquitter())
}

func TestAggregatorCallsignFirstWins(t *testing.T) {
	agg := newTestAggregator(adsb.NewDecoder(quietLogger(), false), Options{})

	agg.Ingest(line(1, identificationHex(0x4840D6, "AB-12")))
	agg.Ingest(line(2, identHex))

	rec, ok := agg.Record("4840D6")
	require.True(t, ok)
	assert.Equal(t, "AB12", rec.Callsign)
	assert.Equal(t, []float64{1, 2}, rec.Timestamps(CategoryIdentification))
}

func TestAggregatorTargetFilter(t *testing.T) {
	agg := newTestAggregator(adsb.NewDecoder(quietLogger(), false), Options{TargetAircraft: "4840d6"})

	assert.False(t, agg.Ingest(line(1, evenPositionHex)))
	assert.True(t, agg.Ingest(line(2, identHex)))

	_, ok := agg.Record("40621D")
	assert.False(t, ok)
	assert.Len(t, agg.Aircraft(), 1)
	assert.Equal(t, 1, agg.Stats().Filtered)
}

func TestAggregatorSkipsUnusableLines(t *testing.T) {
	agg := newTestAggregator(adsb.NewDecoder(quietLogger(), false), Options{})

	assert.False(t, agg.Ingest("garbage"))
	assert.False(t, agg.Ingest("1.0 XYZ"))
	assert.False(t, agg.Ingest("1.0 9D4840D6202CC371C32CE0576098"), "DF19 has no address")
	assert.False(t, agg.Ingest("1.0 20"), "too short for address recovery")
	assert.Empty(t, agg.Aircraft())

	stats := agg.Stats()
	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 2, stats.Framed)
	assert.Equal(t, 0, stats.Messages)
}

func TestAggregatorCountsCorruptSquitters(t *testing.T) {
	agg := newTestAggregator(adsb.NewDecoder(quietLogger(), false), Options{})

	agg.Ingest(line(1, "8D4840D6202CC371C32CE0576099"))
	assert.Equal(t, 1, agg.Stats().CorruptSquitters)
}

func TestAggregatorIsDeterministic(t *testing.T) {
	lines := []string{
		line(100, evenPositionHex),
		line(100.5, identHex),
		line(101, oddPositionHex),
		line(101.2, velocityHex),
		line(102, targetStateHex),
		line(103, "5D3C6DD0C8B1A1"),
	}

	run := func() []*Record {
		agg := newTestAggregator(adsb.NewDecoder(quietLogger(), false), Options{})
		for _, l := range lines {
			agg.Ingest(l)
		}
		return agg.Aircraft()
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)

	addresses := make([]string, 0, len(first))
	for _, rec := range first {
		addresses = append(addresses, rec.Address)
	}
	assert.Equal(t, []string{"3C6DD0", "40621D", "4840D6", "485020", "A05629"}, addresses)
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		df       int
		bits     int
		expected string
	}{
		{df: 17, bits: 112, expected: "DF17(L)"},
		{df: 11, bits: 112, expected: "DF11(S)"},
		{df: 24, bits: 56, expected: "DF24(L)"},
		{df: 1, bits: 56, expected: "DF1(S)"},
		{df: 2, bits: 112, expected: "DF2(L)"},
		{df: 3, bits: 60, expected: "DF3(?)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatLabel(tt.df, tt.bits))
		})
	}
}
