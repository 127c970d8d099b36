package track

import (
	"github.com/sirupsen/logrus"
	"github.com/skypies/geo"

	"squitterlog/internal/adsb"
)

// PairWindowSeconds is the largest even/odd frame gap that is still paired
const PairWindowSeconds = 10.0

type cprSlot struct {
	data      []byte
	timestamp float64
	set       bool
}

// PositionResolver pairs even and odd airborne position frames per aircraft
type PositionResolver struct {
	decoder FieldDecoder
	logger  *logrus.Logger
	verbose bool
	pairs   map[string]*[2]cprSlot
}

// NewPositionResolver creates a new position resolver
func NewPositionResolver(decoder FieldDecoder, logger *logrus.Logger, verbose bool) *PositionResolver {
	return &PositionResolver{
		decoder: decoder,
		logger:  logger,
		verbose: verbose,
		pairs:   make(map[string]*[2]cprSlot),
	}
}

// Observe buffers an airborne position frame and resolves the pair once both
// parities are present within PairWindowSeconds. Both slots are cleared after
// every resolution attempt; a wider gap leaves them untouched.
func (p *PositionResolver) Observe(rec *Record, data []byte, ts float64) {
	parity, ok := p.decoder.CPRParity(data)
	if !ok {
		return
	}

	slots, ok := p.pairs[rec.Address]
	if !ok {
		slots = &[2]cprSlot{}
		p.pairs[rec.Address] = slots
	}
	slots[parity] = cprSlot{data: data, timestamp: ts, set: true}

	even, odd := slots[adsb.ParityEven], slots[adsb.ParityOdd]
	if !even.set || !odd.set {
		return
	}

	gap := even.timestamp - odd.timestamp
	if gap < 0 {
		gap = -gap
	}
	if gap >= PairWindowSeconds {
		return
	}

	pos, ok := p.decoder.ResolvePosition(even.data, odd.data, even.timestamp, odd.timestamp)
	if ok {
		rec.Positions = append(rec.Positions, Fix{
			Time:     ts,
			Position: geo.Latlong{Lat: pos.Latitude, Long: pos.Longitude},
		})
	} else if p.verbose {
		p.logger.WithFields(logrus.Fields{
			"icao": rec.Address,
			"gap":  gap,
		}).Debug("CPR pair did not resolve")
	}

	*slots = [2]cprSlot{}
}

// Pending reports which parities are buffered for an address
func (p *PositionResolver) Pending(address string) (even, odd bool) {
	slots, ok := p.pairs[address]
	if !ok {
		return false, false
	}
	return slots[adsb.ParityEven].set, slots[adsb.ParityOdd].set
}
