package track

// FusionWindowSeconds is the largest age of a barometric altitude that is fused with a difference report
const FusionWindowSeconds = 5.0

type baroSlot struct {
	timestamp float64
	altitude  int
}

// AltitudeFuser derives GNSS altitude from the last barometric altitude and
// the reported GNSS minus baro difference
type AltitudeFuser struct {
	last map[string]baroSlot
}

// NewAltitudeFuser creates a new altitude fuser
func NewAltitudeFuser() *AltitudeFuser {
	return &AltitudeFuser{last: make(map[string]baroSlot)}
}

// ObserveBaro records a plausible barometric altitude
func (f *AltitudeFuser) ObserveBaro(rec *Record, ts float64, altitude int) {
	rec.BaroAltitude = append(rec.BaroAltitude, Sample{Time: ts, Value: float64(altitude)})
	f.last[rec.Address] = baroSlot{timestamp: ts, altitude: altitude}
}

// ObserveDifference records a plausible altitude difference and emits a
// GNSS-derived sample when a barometric altitude younger than FusionWindowSeconds exists
func (f *AltitudeFuser) ObserveDifference(rec *Record, ts float64, diff int) {
	rec.AltitudeDiff = append(rec.AltitudeDiff, Sample{Time: ts, Value: float64(diff)})

	baro, ok := f.last[rec.Address]
	if !ok {
		return
	}

	age := ts - baro.timestamp
	if age < 0 {
		age = -age
	}
	if age < FusionWindowSeconds {
		rec.GNSSAltitude = append(rec.GNSSAltitude, Sample{Time: ts, Value: float64(baro.altitude + diff)})
	}
}
