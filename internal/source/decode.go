package source

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16BEBOM = []byte{0xFE, 0xFF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	crlf       = []byte("\r\n")
	lf         = []byte("\n")
)

// Decode turns raw document bytes into stored content: a UTF-8 BOM is
// dropped, UTF-16 with a BOM is transcoded and "\r\n" becomes "\n". A lone
// '\r' is kept.
func Decode(raw []byte) ([]byte, FileFlags, error) {
	var flags FileFlags
	switch {
	case bytes.HasPrefix(raw, utf8BOM):
		raw = raw[len(utf8BOM):]
		flags |= FileHadBOM
	case bytes.HasPrefix(raw, utf16BEBOM), bytes.HasPrefix(raw, utf16LEBOM):
		// порядок байт берётся из BOM, сам BOM декодер съедает
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, raw)
		if err != nil {
			return nil, 0, fmt.Errorf("decode UTF-16: %w", err)
		}
		raw = out
		flags |= FileHadBOM | FileTranscoded
	}
	if bytes.Contains(raw, crlf) {
		raw = bytes.ReplaceAll(raw, crlf, lf)
		flags |= FileNormalizedCRLF
	}
	return raw, flags, nil
}
