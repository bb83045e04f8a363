package htmltext

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}

	return doc
}

func TestRemoveDropsSubtrees(t *testing.T) {
	doc := mustDoc(t, `<body><nav>menu</nav><p>kept</p><script>var x;</script><aside>ad</aside></body>`)

	Remove(doc.Selection, "script", "nav", "aside")

	if got := Words(doc.Selection); got != "kept" {
		t.Fatalf("unexpected text after remove: %q", got)
	}
}

func TestWordsCollapsesWhitespace(t *testing.T) {
	doc := mustDoc(t, "<p>Hello\n\n   <b>big</b>\tworld</p><p>again</p>")

	if got := Words(doc.Selection); got != "Hello big world again" {
		t.Fatalf("unexpected words: %q", got)
	}
}

func TestWordsSkipsComments(t *testing.T) {
	doc := mustDoc(t, "<p>visible<!-- hidden --></p>")

	if got := Words(doc.Selection); got != "visible" {
		t.Fatalf("expected comment to be skipped, got %q", got)
	}
}

func TestParagraphsSeparatesBlocks(t *testing.T) {
	doc := mustDoc(t, `<body><h1>Title</h1><p>First <em>para</em>graph.</p><div>Second
		block</div><ul><li>one</li><li>two</li></ul></body>`)

	want := "Title\n\nFirst paragraph.\n\nSecond block\n\none\n\ntwo"
	if got := Paragraphs(doc.Find("body")); got != want {
		t.Fatalf("unexpected paragraphs:\n got %q\nwant %q", got, want)
	}
}

func TestParagraphsTableCells(t *testing.T) {
	doc := mustDoc(t, `<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>`)

	if got := Paragraphs(doc.Selection); got != "a b\n\nc d" {
		t.Fatalf("unexpected table text: %q", got)
	}
}

func TestParagraphsEmpty(t *testing.T) {
	doc := mustDoc(t, `<body>   <div> </div></body>`)

	if got := Paragraphs(doc.Selection); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}
