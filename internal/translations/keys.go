package translations

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/goliatone/go-l10n/internal/domain"
)

// ErrUnsupportedFormat is returned when a spreadsheet key cannot be mapped
// back onto a stored entity key.
var ErrUnsupportedFormat = errors.New("translations: unsupported resource format")

const xliffSeparator = "\x00"

// ExportKey renders a stored entity key for spreadsheets. JSON keys are stored
// as array literals and exported dot-joined; XLIFF keys keep the segment after
// the last null byte.
func ExportKey(format domain.Format, key string) string {
	switch domain.NormalizeFormat(string(format)) {
	case domain.FormatJSON:
		var parts []string
		if err := json.Unmarshal([]byte(key), &parts); err != nil || len(parts) == 0 {
			return key
		}
		return strings.Join(parts, ".")
	case domain.FormatXLIFF:
		if idx := strings.LastIndex(key, xliffSeparator); idx >= 0 {
			return key[idx+len(xliffSeparator):]
		}
		return key
	default:
		return key
	}
}

// LookupKeys returns the stored key candidates for a spreadsheet key. JSON
// keys are rebuilt as array literals in both the spaced and compact forms.
func LookupKeys(format domain.Format, key string) ([]string, error) {
	switch domain.NormalizeFormat(string(format)) {
	case domain.FormatPO, domain.FormatXML:
		return []string{key}, nil
	case domain.FormatJSON:
		parts := strings.Split(key, ".")
		spaced, err := encodeKeyParts(parts, ", ")
		if err != nil {
			return nil, err
		}
		compact, err := encodeKeyParts(parts, ",")
		if err != nil {
			return nil, err
		}
		if spaced == compact {
			return []string{spaced}, nil
		}
		return []string{spaced, compact}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func encodeKeyParts(parts []string, separator string) (string, error) {
	encoded := make([]string, 0, len(parts))
	for _, part := range parts {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(part); err != nil {
			return "", err
		}
		encoded = append(encoded, strings.TrimSuffix(buf.String(), "\n"))
	}
	return "[" + strings.Join(encoded, separator) + "]", nil
}
