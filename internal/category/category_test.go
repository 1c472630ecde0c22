package category

import "testing"

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		want Colour
	}{
		{"Energy", "#FF9914"},
		{"  energy ", "#FF9914"},
		{"Money and finance", "#06A77D"},
		{"Money & Finance", "#06A77D"},
		{"", Neutral},
	}
	for _, tt := range tests {
		if got := For(tt.name); got != tt.want {
			t.Errorf("For(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestForUnknownIsStable(t *testing.T) {
	a := For("Space economics")
	b := For("space  Economics")
	if a != b {
		t.Errorf("unknown category colour not stable: %s vs %s", a, b)
	}
	found := false
	for _, c := range fallback {
		if c == a {
			found = true
		}
	}
	if !found {
		t.Errorf("expected fallback palette colour, got %s", a)
	}
	if Known("Space economics") {
		t.Error("Space economics should not be known")
	}
	if !Known("health") {
		t.Error("health should be known")
	}
}

func TestResolve(t *testing.T) {
	names := []string{"Energy", "Education & skills", "Money & finance", "Trade & migration", "Trust & society"}
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"energy", "Energy", false},
		{"money and finance", "Money & finance", false},
		{"edu", "Education & skills", false},
		{"tr", "", true},
		{"weather", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.input, names)
		if (err != nil) != tt.wantErr {
			t.Errorf("Resolve(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
