package langdetect

import "testing"

func TestLinguaDetectorDetect(t *testing.T) {
	d := NewLinguaDetector()

	tests := []struct {
		text string
		want string
	}{
		{"combien font deux plus deux dans cette opération", "fr"},
		{"what is the capital city of Japan please tell me", "en"},
	}

	for _, tt := range tests {
		code, ok := d.Detect(tt.text)
		if !ok {
			t.Fatalf("Detect(%q) reported failure", tt.text)
		}
		if code != tt.want {
			t.Fatalf("Detect(%q) = %q, want %q", tt.text, code, tt.want)
		}
	}
}

func TestLinguaDetectorUnknownOnNoise(t *testing.T) {
	d := NewLinguaDetector()
	code, ok := d.Detect("1234567890")
	if ok {
		t.Skipf("detector identified digits as %q; nothing to assert", code)
	}
	if code != Unknown {
		t.Fatalf("failed detection should report %q, got %q", Unknown, code)
	}
}
