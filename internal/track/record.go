package track

import (
	"sort"

	"github.com/skypies/geo"

	"squitterlog/internal/adsb"
)

// Sample is one timestamped value of a time series
type Sample struct {
	Time  float64
	Value float64
}

// Fix is one resolved position
type Fix struct {
	Time     float64
	Position geo.Latlong
}

// Record holds everything aggregated for one ICAO address.
// Series keep arrival order and are only ever appended to.
type Record struct {
	Address  string
	Callsign string
	Squawk   string

	BaroAltitude     []Sample // feet
	GNSSAltitude     []Sample // feet, baro + difference
	GroundSpeed      []Sample // knots
	Course           []Sample // degrees
	VerticalRate     []Sample // ft/min
	Positions        []Fix
	SelectedAltitude []Sample // feet
	AltitudeDiff     []Sample // feet
	BaroSetting      []Sample // hPa

	FirstSeen float64
	LastSeen  float64

	modes      map[string]struct{}
	formats    map[string]struct{}
	timestamps [numCategories][]float64
	seen       bool
}

func newRecord(address string) *Record {
	return &Record{
		Address: address,
		modes:   make(map[string]struct{}),
		formats: make(map[string]struct{}),
	}
}

// observe widens the first/last seen watermark
func (r *Record) observe(ts float64) {
	if !r.seen {
		r.FirstSeen, r.LastSeen, r.seen = ts, ts, true
		return
	}
	if ts < r.FirstSeen {
		r.FirstSeen = ts
	}
	if ts > r.LastSeen {
		r.LastSeen = ts
	}
}

func (r *Record) addFormat(label string) {
	r.formats[label] = struct{}{}
}

func (r *Record) addModes(labels []string) {
	for _, l := range labels {
		r.modes[l] = struct{}{}
	}
}

func (r *Record) addTimestamp(c Category, ts float64) {
	r.timestamps[c] = append(r.timestamps[c], ts)
}

// Formats returns the observed format labels, sorted
func (r *Record) Formats() []string {
	return sortedKeys(r.formats)
}

// Modes returns the accumulated autopilot mode labels, sorted
func (r *Record) Modes() []string {
	return sortedKeys(r.modes)
}

// HasFormat reports whether a label was observed
func (r *Record) HasFormat(label string) bool {
	_, ok := r.formats[label]
	return ok
}

// HasExtendedSquitter reports whether the aircraft sent any DF17 or DF18 message
func (r *Record) HasExtendedSquitter() bool {
	return r.HasFormat(FormatLabel(adsb.DFExtSquitter, 0)) || r.HasFormat(FormatLabel(adsb.DFNonTransponder, 0))
}

// Timestamps returns the arrival times of messages in category c
func (r *Record) Timestamps(c Category) []float64 {
	if c < 0 || c >= numCategories {
		return nil
	}
	return r.timestamps[c]
}

// Identity returns the callsign, else "SQ:<squawk>", else "N/A"
func (r *Record) Identity() string {
	switch {
	case r.Callsign != "":
		return r.Callsign
	case r.Squawk != "":
		return "SQ:" + r.Squawk
	}
	return "N/A"
}

// TrackLengthKM returns the great-circle length of the resolved position track
func (r *Record) TrackLengthKM() float64 {
	var total float64
	for i := 1; i < len(r.Positions); i++ {
		total += r.Positions[i-1].Position.DistKM(r.Positions[i].Position)
	}
	return total
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
