package track

import "squitterlog/internal/adsb"

// FieldDecoder extracts semantic fields from raw payloads.
// A false ok means the field is absent; decoders never fail harder than that.
type FieldDecoder interface {
	Format(data []byte) (int, bool)
	Address(data []byte) (string, bool)
	TypeCode(data []byte) (int, bool)
	Altitude(data []byte, df int) (int, bool)
	Squawk(data []byte, df int) (string, bool)
	Velocity(data []byte) (adsb.Velocity, bool)
	TargetState(data []byte) (adsb.TargetState, bool)
	AltitudeDiff(data []byte) (int, bool)
	BaroSetting(data []byte) (float64, bool)
	Callsign(data []byte) (string, bool)
	CPRParity(data []byte) (adsb.Parity, bool)
	ResolvePosition(even, odd []byte, tEven, tOdd float64) (adsb.Position, bool)
}

var _ FieldDecoder = (*adsb.Decoder)(nil)
