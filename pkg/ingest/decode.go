package ingest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type decoder struct {
	name   string
	decode func([]byte) (string, error)
}

// fallbackDecoders is tried in order; the first decoder that succeeds
// wins. The set mirrors the encodings real-world SMS/CSV exports show up
// in: utf-8, utf-8 with BOM, Windows-1252 and Latin-1.
var fallbackDecoders = []decoder{
	{name: "utf-8", decode: decodeUTF8},
	{name: "utf-8-sig", decode: decodeUTF8SIG},
	{name: "cp1252", decode: decodeCharmap(charmap.Windows1252)},
	{name: "latin-1", decode: decodeCharmap(charmap.ISO8859_1)},
}

// decodeText converts raw bytes to a string using the ordered encoding
// fallback. Exhausting the list is a decode failure.
func decodeText(content []byte) (string, error) {
	var lastErr error
	for _, d := range fallbackDecoders {
		text, err := d.decode(content)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w: %v", domain.ErrDecode, lastErr)
}

func decodeUTF8(content []byte) (string, error) {
	if bytes.HasPrefix(content, utf8BOM) {
		return "", fmt.Errorf("utf-8: unexpected byte order mark")
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("utf-8: invalid byte sequence")
	}
	return string(content), nil
}

func decodeUTF8SIG(content []byte) (string, error) {
	trimmed := bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(trimmed) {
		return "", fmt.Errorf("utf-8-sig: invalid byte sequence")
	}
	return string(trimmed), nil
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(content []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(content)
		if err != nil {
			return "", fmt.Errorf("%s: %w", cm.String(), err)
		}
		return string(out), nil
	}
}
