package frontmatter

import "testing"

func TestSplit_FrontmatterAndBody(t *testing.T) {
	fm, body := Split("---\ntitle: X\ndate: Y\n---\nBODY")
	if fm["title"] != "X" || fm["date"] != "Y" {
		t.Errorf("frontmatter = %v, want title=X date=Y", fm)
	}
	if body != "BODY" {
		t.Errorf("body = %q, want %q", body, "BODY")
	}
}

func TestSplit_NoMarker(t *testing.T) {
	input := "# Heading\nJust text.\n"
	fm, body := Split(input)
	if fm != nil {
		t.Errorf("expected nil frontmatter, got %v", fm)
	}
	if body != input {
		t.Errorf("body = %q, want whole input", body)
	}
}

func TestSplit_MissingClosingMarker(t *testing.T) {
	input := "---\ntitle: X\nno closing marker here"
	fm, body := Split(input)
	if fm != nil {
		t.Errorf("expected nil frontmatter, got %v", fm)
	}
	if body != input {
		t.Errorf("body = %q, want whole input", body)
	}
}

func TestSplit_MalformedLinesSkipped(t *testing.T) {
	fm, body := Split("---\ntitle: X\nnot a pair\n: empty key\nauthor: Y\n---\nbody")
	if len(fm) != 2 || fm["title"] != "X" || fm["author"] != "Y" {
		t.Errorf("frontmatter = %v, want only title and author", fm)
	}
	if body != "body" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_QuoteStripping(t *testing.T) {
	fm, _ := Split("---\ntitle: \"Quoted Title\"\nauthor: 'Jody'\n---\n")
	if fm["title"] != "Quoted Title" {
		t.Errorf("title = %q, want %q", fm["title"], "Quoted Title")
	}
	if fm["author"] != "Jody" {
		t.Errorf("author = %q, want %q", fm["author"], "Jody")
	}
}

func TestSplit_ValueWithColon(t *testing.T) {
	fm, _ := Split("---\nlink: https://example.com/a\n---\n")
	if fm["link"] != "https://example.com/a" {
		t.Errorf("link = %q", fm["link"])
	}
}

func TestSplit_CRLF(t *testing.T) {
	fm, body := Split("---\r\ntitle: X\r\n---\r\nBODY")
	if fm["title"] != "X" {
		t.Errorf("frontmatter = %v", fm)
	}
	if body != "BODY" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_LeadingBlankLines(t *testing.T) {
	fm, body := Split("\n\n---\ntitle: X\n---\nBODY")
	if fm["title"] != "X" {
		t.Errorf("frontmatter = %v", fm)
	}
	if body != "BODY" {
		t.Errorf("body = %q", body)
	}
}
