package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"squitterlog/internal/track"
)

// Column limits of the format list
const (
	maxFormatsWidth = 22
	formatsKeep     = 19
)

// Row summarises one retained aircraft
type Row struct {
	Address  string   `json:"icao"`
	Identity string   `json:"identity"`
	Formats  string   `json:"formats"`
	Modes    []string `json:"modes,omitempty"`

	FirstSeen float64 `json:"first_seen"`
	LastSeen  float64 `json:"last_seen"`
	First     string  `json:"first"`
	Last      string  `json:"last"`

	HasPosition         bool `json:"pos"`
	HasCourse           bool `json:"hdg"`
	HasSelectedAltitude bool `json:"sel"`
	HasAltitudeDiff     bool `json:"dif"`
	HasBaroSetting      bool `json:"bar"`
	HasGNSSAltitude     bool `json:"gns"`

	Fixes   int     `json:"fixes"`
	TrackKM float64 `json:"track_km"`
}

// Summary is the report of one capture file
type Summary struct {
	Total       int   `json:"total"`
	FilteredOut int   `json:"filtered_out"`
	Retained    int   `json:"retained"`
	Rows        []Row `json:"rows"`
}

// Build summarises the kept records; all is the full aircraft set before filtering
func Build(all, kept []*track.Record) Summary {
	s := Summary{
		Total:       len(all),
		FilteredOut: len(all) - len(kept),
		Retained:    len(kept),
		Rows:        make([]Row, 0, len(kept)),
	}

	for _, rec := range kept {
		s.Rows = append(s.Rows, buildRow(rec))
	}
	sortRows(s.Rows)
	return s
}

func buildRow(rec *track.Record) Row {
	return Row{
		Address:             rec.Address,
		Identity:            rec.Identity(),
		Formats:             joinFormats(rec.Formats()),
		Modes:               rec.Modes(),
		FirstSeen:           rec.FirstSeen,
		LastSeen:            rec.LastSeen,
		First:               FormatTimestamp(rec.FirstSeen),
		Last:                FormatLastSeen(rec.FirstSeen, rec.LastSeen),
		HasPosition:         len(rec.Positions) > 0,
		HasCourse:           len(rec.Course) > 0,
		HasSelectedAltitude: len(rec.SelectedAltitude) > 0,
		HasAltitudeDiff:     len(rec.AltitudeDiff) > 0,
		HasBaroSetting:      len(rec.BaroSetting) > 0,
		HasGNSSAltitude:     len(rec.GNSSAltitude) > 0,
		Fixes:               len(rec.Positions),
		TrackKM:             rec.TrackLengthKM(),
	}
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Address < rows[j].Address
	})
}

// joinFormats joins sorted labels with commas, truncated to the table column
func joinFormats(labels []string) string {
	joined := strings.Join(labels, ",")
	if len(joined) > maxFormatsWidth {
		return joined[:formatsKeep] + "..."
	}
	return joined
}

// FormatTimestamp renders epoch seconds as "YYYY-MM-DD HH:MM:SS.nnnnnnnnn" in UTC
func FormatTimestamp(ts float64) string {
	return secondsUTC(ts).Format("2006-01-02 15:04:05") + "." + nanoDigits(ts)
}

// FormatLastSeen renders last like FormatTimestamp, dropping the date when it equals first's date
func FormatLastSeen(first, last float64) string {
	f, l := secondsUTC(first), secondsUTC(last)
	if f.Year() == l.Year() && f.YearDay() == l.YearDay() {
		return l.Format("15:04:05") + "." + nanoDigits(last)
	}
	return FormatTimestamp(last)
}

func secondsUTC(ts float64) time.Time {
	return time.Unix(int64(ts), 0).UTC()
}

// nanoDigits returns the nine fractional digits of ts printed with %.9f
func nanoDigits(ts float64) string {
	s := strconv.FormatFloat(ts, 'f', 9, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return "000000000"
}

// Flag renders a presence flag as "+" or "-"
func Flag(present bool) string {
	if present {
		return "+"
	}
	return "-"
}

// Digest returns the SHA-256 of the retained rows, hex encoded
func (s Summary) Digest() string {
	h := sha256.New()
	fmt.Fprintf(h, "%d/%d/%d\n", s.Total, s.FilteredOut, s.Retained)
	for _, r := range s.Rows {
		fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s%s%s%s%s%s|%d\n",
			r.Address, r.Identity, r.Formats, r.First, r.Last,
			Flag(r.HasPosition), Flag(r.HasCourse), Flag(r.HasSelectedAltitude),
			Flag(r.HasAltitudeDiff), Flag(r.HasBaroSetting), Flag(r.HasGNSSAltitude),
			r.Fixes)
	}
	return hex.EncodeToString(h.Sum(nil))
}
