package decoder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"docsum/internal/domain"

	"github.com/gogs/chardet"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	defaultEncoding = "utf-8"
	byteOrderMark   = "\ufeff"
	jsonIndent      = "  "
)

// textDecoder handles formats that are plain text on the wire.
type textDecoder struct {
	log *slog.Logger
}

func (d *textDecoder) decodePlain(data []byte, meta *domain.Metadata) (string, error) {
	text, enc := d.decodeLenient(data)
	meta.Encoding = enc

	return text, nil
}

func (d *textDecoder) decodeJSON(data []byte, meta *domain.Metadata) (string, error) {
	text, enc := d.decodeLenient(data)
	meta.Encoding = enc

	if !gjson.Valid(text) {
		return "", kindError(ErrInvalidJSON, errors.New("document does not parse"))
	}

	// Zero width puts every array element on its own line.
	out := pretty.PrettyOptions([]byte(text), &pretty.Options{
		Indent: jsonIndent,
	})

	return strings.TrimSpace(string(out)), nil
}

func (d *textDecoder) decodeCSV(data []byte, meta *domain.Metadata) (string, error) {
	text, enc := d.decodeLenient(data)
	meta.Encoding = enc

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var lines []string
	for {
		start := r.InputOffset()
		row, err := r.Read()

		// Blank lines are kept as empty rows.
		for range blankLines(text[start:r.InputOffset()]) {
			lines = append(lines, "")
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", kindError(ErrInvalidCSV, err)
		}

		lines = append(lines, strings.Join(row, "\t"))
	}

	return strings.Join(lines, "\n"), nil
}

// blankLines counts the line breaks that open consumed, before any other
// character.
func blankLines(consumed string) int {
	n := 0
	for _, c := range consumed {
		switch c {
		case '\n':
			n++
		case '\r':
		default:
			return n
		}
	}

	return n
}

// decodeLenient never fails: undetectable or unknown encodings fall back
// to UTF-8 with invalid sequences replaced.
func (d *textDecoder) decodeLenient(data []byte) (string, string) {
	name, err := detectEncoding(data)
	if err != nil {
		d.log.Debug("Failed to detect encoding so UTF-8 will be used",
			"error", err,
			"byteSize", len(data))

		return lossyUTF8(data), defaultEncoding
	}

	if name == defaultEncoding {
		return lossyUTF8(data), defaultEncoding
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		d.log.Debug("Unknown encoding so UTF-8 will be used",
			"error", err,
			"encoding", name)

		return lossyUTF8(data), defaultEncoding
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		d.log.Debug("Failed to decode text so UTF-8 will be used",
			"error", err,
			"encoding", name)

		return lossyUTF8(data), defaultEncoding
	}

	return lossyUTF8(out), name
}

func detectEncoding(data []byte) (string, error) {
	if len(data) == 0 || utf8.Valid(data) {
		return defaultEncoding, nil
	}

	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}

	name := strings.ToLower(strings.TrimSpace(res.Charset))
	if name == "" {
		return "", errors.New("detect charset: empty result")
	}

	return name, nil
}

func lossyUTF8(data []byte) string {
	return strings.TrimPrefix(strings.ToValidUTF8(string(data), "\uFFFD"), byteOrderMark)
}
