package normalize

import "testing"

func TestEmail(t *testing.T) {
	in := "  John.DOE@Example.COM  "
	want := "john.doe@example.com"
	got := Email(in)
	if got != want {
		t.Fatalf("Email(%q) = %q, want %q", in, got, want)
	}
}

func TestUsername(t *testing.T) {
	in := "Ada Lovelace"
	want := "ada_lovelace"
	got := Username(in)
	if got != want {
		t.Fatalf("Username(%q) = %q, want %q", in, got, want)
	}
}
