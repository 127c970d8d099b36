package track

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"squitterlog/internal/adsb"
	"squitterlog/internal/capture"
)

// Plausibility ranges; values outside are dropped
const (
	MinBaroAltitude     = -2000
	MaxBaroAltitude     = 60000
	MinSelectedAltitude = -2000
	MaxSelectedAltitude = 50000
	MinAltitudeDiff     = -2500
	MaxAltitudeDiff     = 2500
	MinBaroSetting      = 800.0
	MaxBaroSetting      = 1100.0
)

// Options configures an Aggregator
type Options struct {
	// TargetAircraft restricts aggregation to one ICAO address when set
	TargetAircraft string
	Verbose        bool
}

// Stats counts ingestion outcomes
type Stats struct {
	Lines            int // lines offered to Ingest
	Framed           int // lines that framed into a payload
	Messages         int // messages attributed to an aircraft
	Filtered         int // messages dropped by the aircraft filter
	CorruptSquitters int // extended squitters with a non-zero parity syndrome
}

// Aggregator correlates decoded messages into per-aircraft records
type Aggregator struct {
	decoder   FieldDecoder
	logger    *logrus.Logger
	verbose   bool
	target    string
	records   map[string]*Record
	positions *PositionResolver
	altitudes *AltitudeFuser
	stats     Stats
}

// NewAggregator creates a new aggregator
func NewAggregator(decoder FieldDecoder, logger *logrus.Logger, opts Options) *Aggregator {
	return &Aggregator{
		decoder:   decoder,
		logger:    logger,
		verbose:   opts.Verbose,
		target:    strings.ToUpper(strings.TrimSpace(opts.TargetAircraft)),
		records:   make(map[string]*Record),
		positions: NewPositionResolver(decoder, logger, opts.Verbose),
		altitudes: NewAltitudeFuser(),
	}
}

// Ingest frames one capture line and folds it into the aircraft state.
// It reports whether the line contributed to an aircraft record.
func (a *Aggregator) Ingest(line string) bool {
	a.stats.Lines++

	msg, ok := capture.ParseLine(line)
	if !ok {
		return false
	}
	a.stats.Framed++

	return a.IngestMessage(msg)
}

// IngestMessage folds one framed message into the aircraft state
func (a *Aggregator) IngestMessage(msg adsb.Message) bool {
	// A malformed payload must not abort the run
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithFields(logrus.Fields{
				"timestamp": msg.Timestamp,
				"panic":     fmt.Sprint(r),
			}).Debug("Dropped message fields after decode failure")
		}
	}()

	address, ok := a.decoder.Address(msg.Data)
	if !ok {
		return false
	}
	df, ok := a.decoder.Format(msg.Data)
	if !ok {
		return false
	}

	if a.target != "" && address != a.target {
		a.stats.Filtered++
		return false
	}
	a.stats.Messages++

	rec := a.record(address)
	rec.addFormat(FormatLabel(df, msg.BitLength()))
	rec.observe(msg.Timestamp)

	if df == adsb.DFAllCallReply {
		rec.addTimestamp(CategoryAcquisition, msg.Timestamp)
	}

	a.ingestFields(rec, msg, df)
	return true
}

func (a *Aggregator) ingestFields(rec *Record, msg adsb.Message, df int) {
	data, ts := msg.Data, msg.Timestamp

	if alt, ok := a.decoder.Altitude(data, df); ok && alt >= MinBaroAltitude && alt <= MaxBaroAltitude {
		a.altitudes.ObserveBaro(rec, ts, alt)
	}

	if squawk, ok := a.decoder.Squawk(data, df); ok && validSquawk(squawk) {
		rec.Squawk = squawk
	}

	if !adsb.IsExtendedSquitter(df) {
		return
	}

	if !adsb.ParityValid(data) {
		a.stats.CorruptSquitters++
	}

	tc, ok := a.decoder.TypeCode(data)
	if !ok {
		return
	}
	if cat, ok := CategoryForTypeCode(tc); ok {
		rec.addTimestamp(cat, ts)
	}

	switch {
	case tc >= adsb.TCAirbornePositionMin && tc <= adsb.TCAirbornePositionMax:
		a.positions.Observe(rec, data, ts)

	case tc == adsb.TCAirborneVelocity:
		if v, ok := a.decoder.Velocity(data); ok {
			if v.HasSpeed {
				rec.GroundSpeed = append(rec.GroundSpeed, Sample{Time: ts, Value: v.Speed})
			}
			if v.HasHeading {
				rec.Course = append(rec.Course, Sample{Time: ts, Value: v.Heading})
			}
			if v.HasVerticalRate {
				rec.VerticalRate = append(rec.VerticalRate, Sample{Time: ts, Value: float64(v.VerticalRate)})
			}
		}
		if diff, ok := a.decoder.AltitudeDiff(data); ok && diff >= MinAltitudeDiff && diff <= MaxAltitudeDiff {
			a.altitudes.ObserveDifference(rec, ts, diff)
		}

	case tc >= adsb.TCIdentificationMin && tc <= adsb.TCIdentificationMax:
		if rec.Callsign != "" {
			return
		}
		if callsign, ok := a.decoder.Callsign(data); ok {
			rec.Callsign = sanitizeCallsign(callsign)
		}

	case tc == adsb.TCTargetState:
		if state, ok := a.decoder.TargetState(data); ok &&
			state.SelectedAltitude >= MinSelectedAltitude && state.SelectedAltitude <= MaxSelectedAltitude {
			rec.SelectedAltitude = append(rec.SelectedAltitude, Sample{Time: ts, Value: float64(state.SelectedAltitude)})
			rec.addModes(ModeLabels(state.Modes))
		}
		if baro, ok := a.decoder.BaroSetting(data); ok && baro >= MinBaroSetting && baro <= MaxBaroSetting {
			rec.BaroSetting = append(rec.BaroSetting, Sample{Time: ts, Value: baro})
		}
	}
}

func (a *Aggregator) record(address string) *Record {
	rec, ok := a.records[address]
	if !ok {
		rec = newRecord(address)
		a.records[address] = rec
		if a.verbose {
			a.logger.WithField("icao", address).Debug("New aircraft")
		}
	}
	return rec
}

// Record returns the record of one address
func (a *Aggregator) Record(address string) (*Record, bool) {
	rec, ok := a.records[strings.ToUpper(address)]
	return rec, ok
}

// Aircraft returns all records sorted by address
func (a *Aggregator) Aircraft() []*Record {
	records := make([]*Record, 0, len(a.records))
	for _, rec := range a.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Address < records[j].Address
	})
	return records
}

// Stats returns the ingestion counters
func (a *Aggregator) Stats() Stats {
	return a.stats
}

// Positions returns the position resolver, for inspection of pending frames
func (a *Aggregator) Positions() *PositionResolver {
	return a.positions
}

// FormatLabel builds the "DF<n>(S|L|?)" label of a downlink format.
// Formats without a fixed length are classified by payload bit length.
func FormatLabel(df, bits int) string {
	var length string
	switch df {
	case 0, 4, 5, 11:
		length = "S"
	case 16, 17, 18, 19, 20, 21, 24:
		length = "L"
	default:
		switch bits {
		case adsb.ShortMessageBytes * 8:
			length = "S"
		case adsb.LongMessageBytes * 8:
			length = "L"
		default:
			length = "?"
		}
	}
	return fmt.Sprintf("DF%d(%s)", df, length)
}

func sanitizeCallsign(callsign string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, callsign)
}

// validSquawk accepts four octal digits
func validSquawk(squawk string) bool {
	if len(squawk) != 4 {
		return false
	}
	for _, c := range squawk {
		if c < '0' || c > '7' {
			return false
		}
	}
	return true
}
