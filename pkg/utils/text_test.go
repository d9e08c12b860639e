package utils

import "testing"

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Hello  ", "hello"},
		{"HOSTEL Facilities", "hostel facilities"},
		{"\tthanks\n", "thanks"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Errorf("got %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestCollapseBlankLines(t *testing.T) {
	in := "  first line  \n\n\n second line\n\n"
	want := "first line\nsecond line"
	if got := CollapseBlankLines(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
