package notices

import "testing"

func TestIsAuthorityMatch(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Greater Manchester NHS Trust", true},
		{"nhs supply chain", true},
		{"NHS", true},
		{"Barts National Health Service procurement hub", true},
		{"Acme Widgets Ltd", false},
		// "nhs" appears only inside another word; the boundary check must hold.
		{"Cornhshire", false},
		{"", false},
	}
	for _, tc := range cases {
		text := tc.text
		if got := IsAuthorityMatch(&text); got != tc.want {
			t.Fatalf("IsAuthorityMatch(%q): expected %v, got %v", tc.text, tc.want, got)
		}
	}
}

func TestIsAuthorityMatch_Nil(t *testing.T) {
	if IsAuthorityMatch(nil) {
		t.Fatal("expected nil input to be false")
	}
}
