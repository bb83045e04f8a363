package decoder

import (
	"bytes"
	"fmt"

	"docsum/internal/domain"
	"docsum/internal/htmltext"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

//nolint:gochecknoglobals // Constant list.
var htmlNonContentTags = []string{"script", "style", "footer", "nav", "aside"}

func decodeHTML(data []byte, meta *domain.Metadata) (string, error) {
	enc, name, _ := charset.DetermineEncoding(data, "text/html")
	meta.Encoding = name

	doc, err := goquery.NewDocumentFromReader(
		transform.NewReader(bytes.NewReader(data), enc.NewDecoder()),
	)
	if err != nil {
		return "", kindError(ErrCorruptDocument, fmt.Errorf("parse markup: %w", err))
	}

	htmltext.Remove(doc.Selection, htmlNonContentTags...)

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	return htmltext.Paragraphs(body), nil
}
