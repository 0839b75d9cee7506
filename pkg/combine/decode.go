// File: pkg/combine/decode.go
package combine

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// LossyEncoding names the fallback used when no configured encoding decodes a file.
const LossyEncoding = "lossy"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts file bytes to text by trying each encoding in order and
// returns the text together with the name of the encoding that succeeded.
// When every encoding fails the bytes are read as UTF-8 and each invalid byte
// becomes U+FFFD; the returned name is then LossyEncoding.
//
// The order is a heuristic. A legacy single-byte encoding accepts almost any
// input, so the first one listed wins for anything that is not UTF-8.
func Decode(data []byte, encodings []string) (string, string) {
	for _, name := range encodings {
		if text, ok := decodeStrict(data, name); ok {
			return text, name
		}
	}
	return decodeLossy(data), LossyEncoding
}

// ValidateEncodings reports the first name that does not identify a known encoding.
func ValidateEncodings(encodings []string) error {
	for _, name := range encodings {
		if _, err := lookupEncoding(name); err != nil {
			return err
		}
	}
	return nil
}

// decodeStrict decodes data with the named encoding and rejects any result
// that needed replacement characters.
func decodeStrict(data []byte, name string) (string, bool) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", false
	}
	if enc == nil {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", false
		}
		return string(data), true
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(decoded) || bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", false
	}
	return string(decoded), true
}

// lookupEncoding resolves an encoding name. UTF-8 resolves to nil because it
// is validated in place. UTF-16 requires a byte order mark so that arbitrary
// even-length input is not mistaken for it. Latin-1 names map to ISO 8859-1,
// which defines every byte; the WHATWG index would alias them to windows-1252.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return nil, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

func decodeLossy(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			b.WriteRune(utf8.RuneError)
			data = data[1:]
			continue
		}
		b.Write(data[:size])
		data = data[size:]
	}
	return b.String()
}
