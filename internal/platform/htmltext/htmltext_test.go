package htmltext

import "testing"

func TestText_StripsTagsAndKeepsBreaks(t *testing.T) {
	in := "The <i>Survey Corps</i> ventures out.<br>Eren follows.<br><br>(Source: Crunchyroll)"
	want := "The Survey Corps ventures out.\nEren follows.\n\n(Source: Crunchyroll)"
	if got := Text(in); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestText_Empty(t *testing.T) {
	if got := Text("   "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestText_PlainPassesThrough(t *testing.T) {
	if got := Text("  plain words "); got != "plain words" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTitle(t *testing.T) {
	page := []byte("<!DOCTYPE html><html><head><title> 503 Service Unavailable </title></head><body>down</body></html>")
	if got := Title(page); got != "503 Service Unavailable" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := Title([]byte("<html><body>no title</body></html>")); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}
