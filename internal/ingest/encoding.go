package ingest

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText returns the input as valid UTF-8. Field exports out of older
// Windows tooling arrive as cp1252; anything that is not already valid UTF-8
// is decoded as such.
func decodeText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
