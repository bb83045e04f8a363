package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"docsum/internal/domain"

	"github.com/ledongthuc/pdf"
)

type pdfDecoder struct {
	log *slog.Logger
}

// Decode joins the text of every non-empty page. The reader tries an empty
// password on encrypted documents; if that does not open them the document
// is treated the same as one without a text layer.
func (d *pdfDecoder) Decode(data []byte, meta *domain.Metadata) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = kindError(ErrCorruptDocument, fmt.Errorf("read PDF: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return "", kindError(ErrEncryptedOrImageOnly, err)
		}

		return "", kindError(ErrCorruptDocument, fmt.Errorf("open PDF: %w", err))
	}

	if !reader.Trailer().Key("Encrypt").IsNull() {
		d.log.Debug("PDF is encrypted and opened with an empty password",
			"filename", meta.Filename)
	}

	pageCount := reader.NumPage()
	meta.PageCount = pageCount

	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			d.log.Warn("Failed to extract PDF page text",
				"error", pageErr,
				"filename", meta.Filename,
				"page", i)

			continue
		}

		if trimmed := strings.TrimSpace(pageText); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}

	if len(pages) == 0 {
		return "", kindError(ErrEncryptedOrImageOnly, fmt.Errorf("%d pages without text", pageCount))
	}

	return strings.Join(pages, "\n\n"), nil
}
