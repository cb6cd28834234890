package ingest

import (
	"strings"
	"testing"
)

func TestText_SplitsOnParagraphs(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."

	chunks := TextWithSize(text, "notes.txt", 40)

	if len(chunks) < 2 {
		t.Fatalf("chunks = %+v, want at least 2", chunks)
	}
	for i, c := range chunks {
		if c.Metadata["source"] != "notes.txt" {
			t.Errorf("chunk %d source = %v", i, c.Metadata["source"])
		}
		if c.Metadata["index"] != i {
			t.Errorf("chunk %d index = %v", i, c.Metadata["index"])
		}
	}
}

func TestText_KeepsSmallTextWhole(t *testing.T) {
	chunks := Text("Short text.", "a")
	if len(chunks) != 1 || chunks[0].Text != "Short text." {
		t.Errorf("chunks = %+v", chunks)
	}
}

func TestText_OversizedParagraphKeptWhole(t *testing.T) {
	long := strings.Repeat("word ", 100)
	chunks := TextWithSize(long, "a", 50)

	if len(chunks) != 1 {
		t.Fatalf("chunks = %+v, want the paragraph kept whole", chunks)
	}
}

func TestText_EmptyInput(t *testing.T) {
	if chunks := Text("   \n\n  ", "a"); len(chunks) != 0 {
		t.Errorf("chunks = %+v, want none", chunks)
	}
}

func TestHTML(t *testing.T) {
	html := `<html><body><h1>Goroutines</h1><p>They are lightweight.</p><p>They are cheap to start.</p></body></html>`

	chunks, err := HTML(html, "page.html")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}

	all := ""
	for _, c := range chunks {
		all += c.Text + "\n"
	}
	if !strings.Contains(all, "Goroutines") || !strings.Contains(all, "lightweight") {
		t.Errorf("converted text = %q", all)
	}
	if strings.Contains(all, "<p>") {
		t.Error("html tags survived conversion")
	}
}

func TestSplitParagraphs_WindowsLineEndings(t *testing.T) {
	got := splitParagraphs("one\r\n\r\ntwo")
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("paragraphs = %v", got)
	}
}
