package uploads

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"leaf.jpg", "leaf.jpg"},
		{"../../etc/passwd", "passwd"},
		{"my photo (1).png", "my_photo__1_.png"},
		{"", "file"},
		{"weird\x00name.gif", "weird_name.gif"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFilename_TruncatesLongNamesKeepingExtension(t *testing.T) {
	long := ""
	for i := 0; i < 150; i++ {
		long += "a"
	}
	got := SanitizeFilename(long + ".jpeg")
	if len(got) > 100 {
		t.Errorf("sanitized name too long: %d chars", len(got))
	}
	if got[len(got)-5:] != ".jpeg" {
		t.Errorf("extension lost: %q", got)
	}
}
