package capture

import (
	"encoding/hex"
	"strconv"
	"strings"

	"squitterlog/internal/adsb"
)

// ParseLine frames one capture log line into a timestamped payload.
//
// A line is "<epoch seconds> [DF|UF] <hex...>"; hex groups may be split by
// whitespace. Malformed lines are reported with ok=false and are never errors.
func ParseLine(line string) (adsb.Message, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return adsb.Message{}, false
	}

	timestamp, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return adsb.Message{}, false
	}

	start := 1
	if len(fields) >= 3 && (strings.EqualFold(fields[1], "DF") || strings.EqualFold(fields[1], "UF")) {
		start = 2
	}

	payload := strings.ToUpper(strings.Join(fields[start:], ""))
	if payload == "" || !isHex(payload) {
		return adsb.Message{}, false
	}

	data := decodeHex(payload)
	if len(data) > adsb.MaxMessageBytes {
		data = data[:adsb.MaxMessageBytes]
	}

	return adsb.Message{Timestamp: timestamp, Data: data, Digits: len(payload)}, true
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

// decodeHex decodes pairs of hex digits; a trailing odd digit becomes its own byte
func decodeHex(s string) []byte {
	even := len(s) &^ 1
	data := make([]byte, even/2, (len(s)+1)/2)
	// Input is validated hex, the error can only be nil
	_, _ = hex.Decode(data, []byte(s[:even]))

	if even < len(s) {
		v, _ := strconv.ParseUint(s[even:], 16, 8)
		data = append(data, byte(v))
	}
	return data
}
