package render

import (
	"bytes"
	"testing"

	"docsum/internal/decoder"
	"docsum/internal/domain"
	"docsum/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

func fileReport() Report {
	return Report{
		JobID: "job-1",
		State: "completed",
		Results: session.Results{
			Items: []domain.SummaryResult{
				{
					SourceName: "notes.txt",
					Summary:    "Short notes.",
					Meta:       domain.Metadata{Filename: "notes.txt", Kind: domain.KindPlainText, ByteSize: 1536},
				},
				{
					SourceName: "data.csv",
					Summary:    "A table.",
					Meta:       domain.Metadata{Filename: "data.csv", Kind: domain.KindCSV, ByteSize: 12},
				},
			},
			Overall:  "Both files together.",
			Selected: session.NoSelection,
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, fileReport()))

	out := buf.String()
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "1.5 KiB")
	assert.Contains(t, out, "12 B")
	assert.Contains(t, out, "Overall summary\n\nBoth files together.")
	assert.NotContains(t, out, "Selected:")
}

func TestWriteTextSelected(t *testing.T) {
	r := fileReport()
	r.Results.Selected = 1

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, r))

	assert.Contains(t, buf.String(), "Selected: data.csv\n\nA table.")
}

func TestWriteTextWebsite(t *testing.T) {
	r := Report{Results: session.Results{
		WebsiteURL: "https://example.com",
		Website:    "A page.",
		Selected:   session.NoSelection,
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, r))

	assert.Equal(t, "Website summary (https://example.com)\n\nA page.\n", buf.String())
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, Report{Results: session.Empty()}))

	assert.Equal(t, "No results.\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, fileReport()))

	out := buf.String()
	require.True(t, gjson.Valid(out))
	assert.Equal(t, "job-1", gjson.Get(out, "jobId").String())
	assert.Equal(t, "data.csv", gjson.Get(out, "results.items.1.sourceName").String())
	assert.Equal(t, "csv", gjson.Get(out, "results.items.1.meta.kind").String())
	assert.Equal(t, "Both files together.", gjson.Get(out, "results.overall").String())
	assert.False(t, gjson.Get(out, "results.website").Exists())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, fileReport()))

	var decoded Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, fileReport(), decoded)
}

func TestCapabilities(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Capabilities(&buf, []decoder.Capability{
		{Extension: ".pdf", Kind: domain.KindPDF, Available: true},
		{Extension: ".docx", Kind: domain.KindDOCX, Available: false},
	}))

	out := buf.String()
	assert.Contains(t, out, ".pdf")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "no")
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "0 B", humanBytes(0))
	assert.Equal(t, "1023 B", humanBytes(1023))
	assert.Equal(t, "1.0 KiB", humanBytes(1024))
	assert.Equal(t, "10.0 MiB", humanBytes(10<<20))
}
