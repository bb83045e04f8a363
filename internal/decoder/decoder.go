// Package decoder converts uploaded file bytes into plain text.
package decoder

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"docsum/internal/domain"
)

const fingerprintLength = 12

//nolint:gochecknoglobals // Lookup table.
var extensionKinds = map[string]domain.SourceKind{
	".txt":  domain.KindPlainText,
	".md":   domain.KindMarkdown,
	".log":  domain.KindLog,
	".json": domain.KindJSON,
	".csv":  domain.KindCSV,
	".html": domain.KindHTML,
	".htm":  domain.KindHTML,
	".pdf":  domain.KindPDF,
	".docx": domain.KindDOCX,
}

// Decoder extracts text from raw bytes. Implementations may fill
// format-specific fields of meta (encoding, page count).
type Decoder interface {
	Decode(data []byte, meta *domain.Metadata) (string, error)
}

type DecoderFunc func(data []byte, meta *domain.Metadata) (string, error)

func (f DecoderFunc) Decode(data []byte, meta *domain.Metadata) (string, error) {
	return f(data, meta)
}

type Option func(*Registry)

// WithDecoder replaces the decoder used for kind.
func WithDecoder(kind domain.SourceKind, d Decoder) Option {
	return func(r *Registry) {
		r.decoders[kind] = d
	}
}

// WithoutKind leaves kind without a decoder, so decoding it fails with
// ErrMissingOptionalDependency.
func WithoutKind(kind domain.SourceKind) Option {
	return func(r *Registry) {
		delete(r.decoders, kind)
	}
}

type Capability struct {
	Extension string
	Kind      domain.SourceKind
	Available bool
}

type Registry struct {
	decoders map[domain.SourceKind]Decoder
	log      *slog.Logger
}

func NewRegistry(log *slog.Logger, opts ...Option) *Registry {
	text := &textDecoder{log: log}

	r := &Registry{
		decoders: map[domain.SourceKind]Decoder{
			domain.KindPlainText: DecoderFunc(text.decodePlain),
			domain.KindMarkdown:  DecoderFunc(text.decodePlain),
			domain.KindLog:       DecoderFunc(text.decodePlain),
			domain.KindJSON:      DecoderFunc(text.decodeJSON),
			domain.KindCSV:       DecoderFunc(text.decodeCSV),
			domain.KindHTML:      DecoderFunc(decodeHTML),
			domain.KindPDF:       &pdfDecoder{log: log},
			domain.KindDOCX:      DecoderFunc(decodeDOCX),
		},
		log: log,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// KindFromName maps a filename to its source kind by extension.
func KindFromName(name string) (domain.SourceKind, bool) {
	kind, ok := extensionKinds[strings.ToLower(filepath.Ext(name))]
	return kind, ok
}

// Fingerprint is a short hex digest of raw bytes used for display and audit.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}

func (r *Registry) Decode(name string, data []byte) (domain.ExtractedText, error) {
	kind, ok := KindFromName(name)
	if !ok {
		return domain.ExtractedText{}, &Error{
			Kind:     ErrUnsupportedFormat,
			Filename: name,
			Err:      errors.New("extension " + strings.ToLower(filepath.Ext(name))),
		}
	}

	d, ok := r.decoders[kind]
	if !ok {
		return domain.ExtractedText{}, &Error{Kind: ErrMissingOptionalDependency, Filename: name}
	}

	meta := domain.Metadata{
		Filename:    name,
		Kind:        kind,
		ByteSize:    len(data),
		Fingerprint: Fingerprint(data),
	}

	text, err := d.Decode(data, &meta)
	if err != nil {
		var decodeErr *Error
		if errors.As(err, &decodeErr) {
			decodeErr.Filename = name
			return domain.ExtractedText{}, decodeErr
		}

		return domain.ExtractedText{}, &Error{Kind: ErrCorruptDocument, Filename: name, Err: err}
	}

	if strings.TrimSpace(text) == "" {
		return domain.ExtractedText{}, &Error{Kind: ErrEmptyContent, Filename: name}
	}

	r.log.Debug("File is decoded",
		"filename", name,
		"kind", kind,
		"byteSize", meta.ByteSize,
		"encoding", meta.Encoding,
		"pageCount", meta.PageCount,
		"fingerprint", meta.Fingerprint,
		"textLen", len(text))

	return domain.ExtractedText{Text: text, Meta: meta}, nil
}

// Capabilities lists every supported extension, sorted, with whether a
// decoder is registered for it.
func (r *Registry) Capabilities() []Capability {
	exts := make([]string, 0, len(extensionKinds))
	for ext := range extensionKinds {
		exts = append(exts, ext)
	}
	slices.Sort(exts)

	caps := make([]Capability, 0, len(exts))
	for _, ext := range exts {
		kind := extensionKinds[ext]
		_, ok := r.decoders[kind]
		caps = append(caps, Capability{Extension: ext, Kind: kind, Available: ok})
	}

	return caps
}
