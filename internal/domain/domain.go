package domain

type SourceKind string

const (
	KindPlainText SourceKind = "plain-text"
	KindMarkdown  SourceKind = "markdown"
	KindLog       SourceKind = "log"
	KindJSON      SourceKind = "json"
	KindCSV       SourceKind = "csv"
	KindHTML      SourceKind = "html"
	KindPDF       SourceKind = "pdf"
	KindDOCX      SourceKind = "docx"
	KindWebPage   SourceKind = "web-page"
)

// SourceDocument is one uploaded file. It is consumed once by decoding.
type SourceDocument struct {
	Name string
	Data []byte
}

// Metadata describes where an ExtractedText came from.
type Metadata struct {
	Filename string     `json:"filename"           yaml:"filename"`
	Kind     SourceKind `json:"kind"               yaml:"kind"`
	ByteSize int        `json:"byteSize"           yaml:"byteSize"`
	// Encoding is empty when the format carries no text encoding (PDF, DOCX).
	Encoding string `json:"encoding,omitempty"  yaml:"encoding,omitempty"`
	// PageCount is set for PDFs only.
	PageCount   int    `json:"pageCount,omitempty" yaml:"pageCount,omitempty"`
	Fingerprint string `json:"fingerprint"        yaml:"fingerprint"`
}

type ExtractedText struct {
	Text string
	Meta Metadata
}

type SummaryResult struct {
	SourceName string   `json:"sourceName" yaml:"sourceName"`
	Summary    string   `json:"summary"    yaml:"summary"`
	Meta       Metadata `json:"meta"       yaml:"meta"`
}
