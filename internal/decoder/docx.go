package decoder

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"docsum/internal/domain"
)

const (
	docxMainPart = "word/document.xml"
	wordMLNS     = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

type docxBody struct {
	paragraphs []string
	// tables holds top-level tables as rows of cell texts.
	tables [][][]string
}

func decodeDOCX(data []byte, _ *domain.Metadata) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", kindError(ErrCorruptDocument, fmt.Errorf("open archive: %w", err))
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxMainPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", kindError(ErrCorruptDocument, errors.New(docxMainPart+" is missing"))
	}

	rc, err := part.Open()
	if err != nil {
		return "", kindError(ErrCorruptDocument, fmt.Errorf("open %s: %w", docxMainPart, err))
	}
	defer rc.Close()

	body, err := parseDocumentXML(rc)
	if err != nil {
		return "", kindError(ErrCorruptDocument, fmt.Errorf("parse %s: %w", docxMainPart, err))
	}

	paragraphs := make([]string, 0, len(body.paragraphs))
	for _, p := range body.paragraphs {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	text := strings.Join(paragraphs, "\n\n")

	if strings.TrimSpace(text) == "" && len(body.tables) > 0 {
		var rows []string
		for _, table := range body.tables {
			for _, row := range table {
				rows = append(rows, strings.Join(row, "\t"))
			}
		}
		text = strings.Join(rows, "\n")
	}

	if strings.TrimSpace(text) == "" {
		return "", kindError(ErrEmptyContent, errors.New("no paragraphs or table text"))
	}

	return text, nil
}

// parseDocumentXML collects body-level paragraphs and top-level tables.
// Paragraphs inside tables only contribute to cell text. Text box content
// is skipped so the enclosing paragraph keeps its own runs.
func parseDocumentXML(r io.Reader) (docxBody, error) {
	var (
		body      docxBody
		stack     []string
		tblDepth  int
		boxDepth  int
		para      *strings.Builder
		inText    bool
		cellParas []string
		row       []string
		table     [][]string
	)

	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return body, nil
		}
		if err != nil {
			return docxBody{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, t.Name.Local)

			if t.Name.Space != wordMLNS {
				continue
			}
			if t.Name.Local == "txbxContent" {
				boxDepth++
				continue
			}
			if boxDepth > 0 {
				continue
			}

			switch t.Name.Local {
			case "tbl":
				tblDepth++
				if tblDepth == 1 {
					table = nil
				}
			case "tr":
				if tblDepth == 1 {
					row = nil
				}
			case "tc":
				if tblDepth == 1 {
					cellParas = nil
				}
			case "p":
				para = &strings.Builder{}
			case "t":
				inText = true
			case "tab":
				if para != nil && parent == "r" {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if para != nil && parent == "r" {
					para.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText && para != nil {
				para.Write(t)
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

			if t.Name.Space != wordMLNS {
				continue
			}
			if t.Name.Local == "txbxContent" {
				boxDepth--
				continue
			}
			if boxDepth > 0 {
				continue
			}

			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if para == nil {
					continue
				}
				text := para.String()
				para = nil

				switch tblDepth {
				case 0:
					body.paragraphs = append(body.paragraphs, text)
				case 1:
					cellParas = append(cellParas, text)
				}
			case "tc":
				if tblDepth == 1 {
					row = append(row, strings.Join(cellParas, "\n"))
				}
			case "tr":
				if tblDepth == 1 {
					table = append(table, row)
				}
			case "tbl":
				if tblDepth == 1 {
					body.tables = append(body.tables, table)
				}
				tblDepth--
			}
		}
	}
}
