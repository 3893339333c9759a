package storage

import "testing"

func TestNormalizeTextCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Super Fund", want: "Super Fund"},
		{name: "padded", input: "  Super Fund  ", want: "Super Fund"},
		{name: "inner runs", input: "Super \t Fund", want: "Super Fund"},
		{name: "newlines", input: "Super\nFund", want: "Super Fund"},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := normalizeText(tc.input); got != tc.want {
				t.Fatalf("normalizeText(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeAccountNameFallback(t *testing.T) {
	t.Parallel()

	if got := normalizeAccountName("  Brokerage  ", "fallback"); got != "Brokerage" {
		t.Fatalf("normalizeAccountName() = %q, want %q", got, "Brokerage")
	}
	if got := normalizeAccountName("   ", "  Savings  account "); got != "Savings account" {
		t.Fatalf("normalizeAccountName() = %q, want %q", got, "Savings account")
	}
	if got := normalizeAccountName("", ""); got != "" {
		t.Fatalf("normalizeAccountName() = %q, want empty", got)
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	if got := placeholders(1); got != "?" {
		t.Fatalf("placeholders(1) = %q, want %q", got, "?")
	}
	if got := placeholders(3); got != "?,?,?" {
		t.Fatalf("placeholders(3) = %q, want %q", got, "?,?,?")
	}
}
