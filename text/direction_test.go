package text

import (
	"testing"
)

func TestGetCharDirection(t *testing.T) {
	tests := []struct {
		name string
		char rune
		want Direction
	}{
		{"Arabic alif", 'ا', RTL},
		{"Arabic meem", 'م', RTL},
		{"Persian peh", 'پ', RTL},
		{"Urdu gaf", 'گ', RTL},
		{"Hebrew alef", 'א', RTL},
		{"Syriac alaph", 'ܐ', RTL},
		{"Thaana haa", 'ހ', RTL},

		{"Latin A", 'A', LTR},
		{"Latin é", 'é', LTR},
		{"Cyrillic я", 'я', LTR},
		{"CJK 中", '中', LTR},

		{"Space", ' ', Neutral},
		{"Digit 5", '5', Neutral},
		{"Arabic-Indic three", '٣', Neutral},
		{"Arabic comma", '،', Neutral},
		{"Percent", '%', Neutral},
		{"Arabic fatha mark", 'َ', Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCharDirection(tt.char); got != tt.want {
				t.Errorf("GetCharDirection(%q U+%04X) = %v, want %v", tt.char, tt.char, got, tt.want)
			}
		})
	}
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Direction
	}{
		{"slide title", "Quarterly Results", LTR},
		{"Arabic title", "النتائج الفصلية", RTL},
		{"Hebrew title", "תוצאות רבעוניות", RTL},
		{"Arabic with brand name", "تقرير Acme السنوي", RTL},
		{"English with Arabic word", "Revenue مرحبا growth", LTR},
		{"tie goes to LTR", "ab يب", LTR},
		{"percentages", "45% - 12.5%", Neutral},
		{"Arabic-Indic figures", "٢٠٢٤", Neutral},
		{"empty", "", Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDirection(tt.text); got != tt.want {
				t.Errorf("DetectDirection(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestProfileOf(t *testing.T) {
	p := ProfileOf("Q3 نتائج")
	if p != (Profile{LTR: 1, RTL: 5}) {
		t.Errorf("ProfileOf() = %+v, want {LTR:1 RTL:5}", p)
	}
	if got := p.RTLShare(); got < 0.83 || got > 0.84 {
		t.Errorf("RTLShare() = %v, want 5/6", got)
	}
	if got := (Profile{}).RTLShare(); got != 0 {
		t.Errorf("empty RTLShare() = %v, want 0", got)
	}
}

func TestIsRTL(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"مرحبا بالعالم", true},
		{"2024", true},
		{"", true},
		{"Hello", false},
		{"Revenue مرحبا growth", false},
	}

	for _, tt := range tests {
		if got := IsRTL(tt.text); got != tt.want {
			t.Errorf("IsRTL(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestDirectionString(t *testing.T) {
	if LTR.String() != "LTR" || RTL.String() != "RTL" || Neutral.String() != "Neutral" {
		t.Errorf("unexpected Direction strings: %v %v %v", LTR, RTL, Neutral)
	}
	if Direction(42).String() != "Unknown" {
		t.Errorf("Direction(42).String() = %q, want Unknown", Direction(42).String())
	}
}
