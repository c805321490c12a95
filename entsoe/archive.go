package entsoe

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// The platform wraps large responses in a ZIP archive whose entries may
// themselves be ZIP archives. Observed server behavior never nests deeper
// than two levels, so traversal is fixed at that depth rather than
// recursive.
const archiveNestingLimit = 2

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// UnwrapPayloads turns a raw API response into the decoded XML payloads it
// carries. Responses declared (or byte-signature sniffed) as ZIP archives
// are descended up to archiveNestingLimit levels; XML responses are decoded
// directly. Any other content type, or a malformed archive, yields zero
// payloads and a logged warning.
func UnwrapPayloads(logger *slog.Logger, body []byte, contentType string) []string {
	switch {
	case strings.Contains(contentType, "application/zip") || bytes.HasPrefix(body, zipMagic):
		return unzipPayloads(logger, body)

	case strings.Contains(contentType, "application/xml") || strings.Contains(contentType, "text/xml"):
		return []string{DecodeText(body)}

	default:
		logger.Warn("unexpected content type from api",
			slog.String("contentType", contentType),
			slog.Int("bodyLength", len(body)))
		return nil
	}
}

func unzipPayloads(logger *slog.Logger, body []byte) []string {
	outer, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		logger.Warn("response looked like a zip archive but is not valid", slog.Any("error", err))
		return nil
	}

	var payloads []string
	for _, entry := range outer.File {
		data, err := readZipEntry(entry)
		if err != nil {
			logger.Warn("failed to read archive entry",
				slog.String("entry", entry.Name), slog.Any("error", err))
			continue
		}

		name := strings.ToLower(entry.Name)
		switch {
		case strings.HasSuffix(name, ".zip"):
			inner, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				logger.Warn("nested archive entry is not a valid zip",
					slog.String("entry", entry.Name), slog.Any("error", err))
				continue
			}
			for _, innerEntry := range inner.File {
				if !strings.HasSuffix(strings.ToLower(innerEntry.Name), ".xml") {
					continue
				}
				innerData, err := readZipEntry(innerEntry)
				if err != nil {
					logger.Warn("failed to read nested archive entry",
						slog.String("entry", innerEntry.Name), slog.Any("error", err))
					continue
				}
				payloads = append(payloads, DecodeText(innerData))
			}

		case strings.HasSuffix(name, ".xml"):
			payloads = append(payloads, DecodeText(data))
		}
	}

	return payloads
}

func readZipEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// DecodeText decodes payload bytes as strict UTF-8, falling back to a lossy
// ISO 8859-1 decode. Some mirrors of the platform serve Latin-1 documents
// without declaring it.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}
	return string(decoded)
}

// IsEmptyMarker reports whether a decoded payload is the platform's
// "no matching data" or acknowledgement-with-reason response. Such payloads
// are a valid empty result, not an error, and must not be parsed further.
func IsEmptyMarker(payload string) bool {
	return strings.Contains(payload, "NoMatchingData") || strings.Contains(payload, "Error_Reason")
}
