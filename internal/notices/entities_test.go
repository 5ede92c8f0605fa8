package notices

import "testing"

func TestDecodeEntities_Named(t *testing.T) {
	cases := map[string]string{
		"&amp;":            "&",
		"&lt;tag&gt;":      "<tag>",
		"&quot;quoted&quot;": `"quoted"`,
		"&apos;s":          "'s",
		"a&nbsp;b":         "a b",
	}
	for in, want := range cases {
		if got := decodeEntityString(in); got != want {
			t.Fatalf("decode(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestDecodeEntities_Numeric(t *testing.T) {
	if got := decodeEntityString("&#65;"); got != "A" {
		t.Fatalf("expected A, got %q", got)
	}
	if got := decodeEntityString("&#x41;"); got != "A" {
		t.Fatalf("expected A, got %q", got)
	}
	if got := decodeEntityString("&#x2019;s"); got != "’s" {
		t.Fatalf("expected right quote, got %q", got)
	}
}

func TestDecodeEntities_UnknownNamedLeftIntact(t *testing.T) {
	if got := decodeEntityString("&unknown;"); got != "&unknown;" {
		t.Fatalf("expected unchanged, got %q", got)
	}
}

func TestDecodeEntities_InvalidCodePointLeftIntact(t *testing.T) {
	for _, in := range []string{"&#99999999999999999999;", "&#xFFFFFFFFFF;"} {
		if got := decodeEntityString(in); got != in {
			t.Fatalf("decode(%q): expected unchanged, got %q", in, got)
		}
	}
}

func TestDecodeEntities_NumericBeforeNamed(t *testing.T) {
	// The named pass must not re-process output of itself: &amp;#65;
	// decodes the amp but leaves the resulting &#65; alone.
	if got := decodeEntityString("&amp;#65;"); got != "&#65;" {
		t.Fatalf("expected &#65;, got %q", got)
	}
}

func TestDecodeEntities_PlainTextUnchanged(t *testing.T) {
	for _, s := range []string{"NHS Trust procurement", "", "a & b"} {
		if got := decodeEntityString(s); got != s {
			t.Fatalf("decode(%q): expected unchanged, got %q", s, got)
		}
	}
}

func TestDecodeEntities_NilAndEmpty(t *testing.T) {
	if DecodeEntities(nil) != nil {
		t.Fatal("expected nil in, nil out")
	}
	empty := ""
	if got := DecodeEntities(&empty); got == nil || *got != "" {
		t.Fatal("expected empty string unchanged")
	}
}
