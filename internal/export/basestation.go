package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"squitterlog/internal/track"
)

// BaseStation message types
const (
	BaseStationMSG = "MSG" // Transmission
)

// BaseStation transmission types
const (
	TransmissionES_ID_CAT       = 1 // Extended Squitter Aircraft ID and Category
	TransmissionES_AIRBORNE     = 3 // Extended Squitter Airborne Position
	TransmissionES_VELOCITY     = 4 // Extended Squitter Airborne Velocity
	TransmissionSURVEILLANCE    = 5 // Surveillance Alt, Squawk change
	TransmissionSURVEILLANCE_ID = 6 // Surveillance ID change
)

// BaseStationMessage represents a BaseStation format message
type BaseStationMessage struct {
	MessageType      string
	TransmissionType int
	SessionID        int
	AircraftID       int
	HexIdent         string
	FlightID         int
	Generated        time.Time
	Logged           time.Time
	Callsign         string
	Altitude         string
	GroundSpeed      string
	Track            string
	Latitude         string
	Longitude        string
	VerticalRate     string
	Squawk           string
	Alert            string
	Emergency        string
	SPI              string
	IsOnGround       string
}

// Writer replays aggregated aircraft series as BaseStation (SBS-1) lines
type Writer struct {
	out        *bufio.Writer
	logger     *logrus.Logger
	sessionID  int
	aircraftID int
}

// NewWriter creates a new BaseStation writer
func NewWriter(w io.Writer, logger *logrus.Logger) *Writer {
	return &Writer{
		out:       bufio.NewWriter(w),
		logger:    logger,
		sessionID: 1,
	}
}

// WriteAircraft writes every series sample of rec in timestamp order and
// returns the number of lines written
func (w *Writer) WriteAircraft(rec *track.Record) (int, error) {
	if rec == nil {
		return 0, fmt.Errorf("record cannot be nil")
	}

	w.aircraftID++
	messages := w.convertRecord(rec)

	for _, msg := range messages {
		if _, err := w.out.WriteString(formatCSV(msg) + "\n"); err != nil {
			return 0, fmt.Errorf("failed to write BaseStation line: %w", err)
		}
	}

	w.logger.WithFields(logrus.Fields{
		"icao":  rec.Address,
		"lines": len(messages),
	}).Debug("Exported aircraft")

	return len(messages), nil
}

// Flush writes buffered lines to the underlying writer
func (w *Writer) Flush() error {
	return w.out.Flush()
}

// convertRecord builds the BaseStation messages of one aircraft, sorted by time
func (w *Writer) convertRecord(rec *track.Record) []*BaseStationMessage {
	var messages []*BaseStationMessage

	if rec.Callsign != "" {
		at := rec.FirstSeen
		if ts := rec.Timestamps(track.CategoryIdentification); len(ts) > 0 {
			at = ts[0]
		}
		msg := w.newMessage(rec, TransmissionES_ID_CAT, at)
		msg.Callsign = rec.Callsign
		messages = append(messages, msg)
	}

	for _, fix := range rec.Positions {
		msg := w.newMessage(rec, TransmissionES_AIRBORNE, fix.Time)
		msg.Latitude = fmt.Sprintf("%.6f", fix.Position.Lat)
		msg.Longitude = fmt.Sprintf("%.6f", fix.Position.Long)
		if alt, ok := nearest(rec.BaroAltitude, fix.Time); ok {
			msg.Altitude = strconv.Itoa(int(alt))
		}
		messages = append(messages, msg)
	}

	courses := make(map[float64]float64, len(rec.Course))
	for _, c := range rec.Course {
		courses[c.Time] = c.Value
	}
	rates := make(map[float64]float64, len(rec.VerticalRate))
	for _, r := range rec.VerticalRate {
		rates[r.Time] = r.Value
	}
	for _, s := range rec.GroundSpeed {
		msg := w.newMessage(rec, TransmissionES_VELOCITY, s.Time)
		msg.GroundSpeed = strconv.Itoa(int(s.Value))
		if course, ok := courses[s.Time]; ok {
			msg.Track = fmt.Sprintf("%.1f", course)
		}
		if rate, ok := rates[s.Time]; ok {
			msg.VerticalRate = strconv.Itoa(int(rate))
		}
		messages = append(messages, msg)
	}

	for _, s := range rec.BaroAltitude {
		msg := w.newMessage(rec, TransmissionSURVEILLANCE, s.Time)
		msg.Altitude = strconv.Itoa(int(s.Value))
		messages = append(messages, msg)
	}

	if rec.Squawk != "" {
		msg := w.newMessage(rec, TransmissionSURVEILLANCE_ID, rec.LastSeen)
		msg.Squawk = rec.Squawk
		messages = append(messages, msg)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Generated.Before(messages[j].Generated)
	})
	return messages
}

func (w *Writer) newMessage(rec *track.Record, transmission int, ts float64) *BaseStationMessage {
	at := epochToTime(ts)
	return &BaseStationMessage{
		MessageType:      BaseStationMSG,
		TransmissionType: transmission,
		SessionID:        w.sessionID,
		AircraftID:       w.aircraftID,
		HexIdent:         rec.Address,
		FlightID:         w.aircraftID,
		Generated:        at,
		Logged:           at,
	}
}

// nearest returns the value of the sample closest in time to ts
func nearest(samples []track.Sample, ts float64) (float64, bool) {
	best, found := 0.0, false
	bestGap := math.Inf(1)
	for _, s := range samples {
		if gap := math.Abs(s.Time - ts); gap < bestGap {
			best, bestGap, found = s.Value, gap, true
		}
	}
	return best, found
}

func epochToTime(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// formatCSV formats a BaseStation message as CSV
func formatCSV(msg *BaseStationMessage) string {
	fields := []string{
		msg.MessageType,
		strconv.Itoa(msg.TransmissionType),
		strconv.Itoa(msg.SessionID),
		strconv.Itoa(msg.AircraftID),
		msg.HexIdent,
		strconv.Itoa(msg.FlightID),
		msg.Generated.Format("2006/01/02"),
		msg.Generated.Format("15:04:05.000"),
		msg.Logged.Format("2006/01/02"),
		msg.Logged.Format("15:04:05.000"),
		msg.Callsign,
		msg.Altitude,
		msg.GroundSpeed,
		msg.Track,
		msg.Latitude,
		msg.Longitude,
		msg.VerticalRate,
		msg.Squawk,
		msg.Alert,
		msg.Emergency,
		msg.SPI,
		msg.IsOnGround,
	}

	return strings.Join(fields, ",")
}
