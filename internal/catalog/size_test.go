package catalog

import "testing"

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"22x12", "22x12"},
		{" 22X12 ", "22x12"},
		{"22 x 60", "22x60"},
		{"11×24", "11x24"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeSize(tt.input); got != tt.want {
			t.Errorf("NormalizeSize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		token string
		want  Family
	}{
		{"22x12", FamilyDTF},
		{"11x300", FamilyUV},
		{"33x12", FamilyNone},
		{"", FamilyNone},
	}
	for _, tt := range tests {
		if got := FamilyOf(tt.token); got != tt.want {
			t.Errorf("FamilyOf(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		token      string
		wantWidth  string
		wantLength string
		wantOK     bool
	}{
		{"22x120", "22", "120", true},
		{"11x12", "11", "12", true},
		{"22x", "", "", false},
		{"x12", "", "", false},
		{"22by12", "", "", false},
		{"22x1.5", "", "", false},
	}
	for _, tt := range tests {
		w, l, ok := ParseSize(tt.token)
		if w != tt.wantWidth || l != tt.wantLength || ok != tt.wantOK {
			t.Errorf("ParseSize(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.token, w, l, ok, tt.wantWidth, tt.wantLength, tt.wantOK)
		}
	}
}

func TestFamilyLabels(t *testing.T) {
	if FamilyDTF.Sheet() != "DTF Gang Sheet" || FamilyDTF.Surface() != "fabrics" {
		t.Errorf("unexpected DTF labels %q / %q", FamilyDTF.Sheet(), FamilyDTF.Surface())
	}
	if FamilyUV.Sheet() != "UV DTF Gang Sheet" || FamilyUV.Surface() != "hard surfaces" {
		t.Errorf("unexpected UV labels %q / %q", FamilyUV.Sheet(), FamilyUV.Surface())
	}
	if FamilyNone.Prefix() != "" || FamilyNone.String() != "none" {
		t.Error("FamilyNone should have no prefix")
	}
}
