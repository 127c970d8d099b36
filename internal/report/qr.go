package report

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DigestToQR creates a QR code PNG encoding a hex digest
func DigestToQR(digest string, size int) ([]byte, error) {
	normalized := strings.ToUpper(strings.TrimSpace(digest))
	if normalized == "" {
		return nil, fmt.Errorf("digest is empty")
	}
	if size <= 0 {
		size = 128
	}
	return qrcode.Encode(normalized, qrcode.Medium, size)
}
