package phase

import "testing"

func TestSentinelIsNotValid(t *testing.T) {
	if None.Valid() {
		t.Fatalf("sentinel must not be a valid phase")
	}
	if ID(200).Valid() {
		t.Fatalf("out-of-range id must not be valid")
	}
	for _, id := range All() {
		if !id.Valid() {
			t.Fatalf("phase %s reported invalid", id)
		}
	}
}

func TestRootWorkClassification(t *testing.T) {
	rootWork := map[ID]bool{
		ScanRoots:        true,
		InitEvac:         true,
		FinalUpdateRefs:  true,
		UpdateRoots:      true,
		DegenUpdateRoots: true,
		FullRoots:        true,
	}
	for _, id := range All() {
		want := rootWork[id]
		if got := id.IsRootWork(); got != want {
			t.Errorf("%s: IsRootWork = %v, want %v", id, got, want)
		}
	}
	if None.IsRootWork() {
		t.Errorf("sentinel must not be root work")
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, id := range All() {
		got, err := Parse(id.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", id.String(), err)
		}
		if got != id {
			t.Fatalf("Parse(%q) = %v, want %v", id.String(), got, id)
		}
	}

	if _, err := Parse("definitely_not_a_phase"); err == nil {
		t.Fatalf("expected error for unknown phase name")
	}
	if _, err := Parse("none"); err == nil {
		t.Fatalf("the sentinel must not parse as a phase")
	}
}
