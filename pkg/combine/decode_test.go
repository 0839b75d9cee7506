package combine_test

import (
	"testing"

	"code2text/pkg/combine"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	defaults := []string{"utf-8", "utf-16", "windows-1252", "latin1"}

	tests := []struct {
		name         string
		data         []byte
		encodings    []string
		wantText     string
		wantEncoding string
	}{
		{
			name:         "valid utf-8",
			data:         []byte("héllo\n"),
			encodings:    defaults,
			wantText:     "héllo\n",
			wantEncoding: "utf-8",
		},
		{
			name:         "utf-8 byte order mark is dropped",
			data:         []byte("\xEF\xBB\xBFpackage main\n"),
			encodings:    defaults,
			wantText:     "package main\n",
			wantEncoding: "utf-8",
		},
		{
			name:         "utf-16 with little-endian byte order mark",
			data:         []byte("\xFF\xFEh\x00i\x00"),
			encodings:    defaults,
			wantText:     "hi",
			wantEncoding: "utf-16",
		},
		{
			name:         "utf-16 without byte order mark is rejected",
			data:         []byte("hi"),
			encodings:    []string{"utf-16", "utf-8"},
			wantText:     "hi",
			wantEncoding: "utf-8",
		},
		{
			name:         "latin-1 bytes fall through to windows-1252",
			data:         []byte("caf\xE9"),
			encodings:    defaults,
			wantText:     "café",
			wantEncoding: "windows-1252",
		},
		{
			name:         "bytes undefined in windows-1252 fall through to latin1",
			data:         []byte("a\x81b"),
			encodings:    defaults,
			wantText:     "a\u0081b",
			wantEncoding: "latin1",
		},
		{
			name:         "iso-8859-1 is not aliased to windows-1252",
			data:         []byte("\x80"),
			encodings:    []string{"iso-8859-1"},
			wantText:     "\u0080",
			wantEncoding: "iso-8859-1",
		},
		{
			name:         "undecodable bytes are replaced",
			data:         []byte("caf\xE9\xFF!"),
			encodings:    []string{"utf-8"},
			wantText:     "caf\uFFFD\uFFFD!",
			wantEncoding: combine.LossyEncoding,
		},
		{
			name:         "no encodings configured",
			data:         []byte("plain"),
			encodings:    nil,
			wantText:     "plain",
			wantEncoding: combine.LossyEncoding,
		},
		{
			name:         "empty input",
			data:         nil,
			encodings:    defaults,
			wantText:     "",
			wantEncoding: "utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, encoding := combine.Decode(tt.data, tt.encodings)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantEncoding, encoding)
		})
	}
}

func TestValidateEncodings(t *testing.T) {
	assert.NoError(t, combine.ValidateEncodings([]string{"utf-8", "UTF-16", "latin1", "iso-8859-1", "shift_jis"}))
	assert.ErrorContains(t, combine.ValidateEncodings([]string{"utf-8", "klingon"}), "klingon")
}
