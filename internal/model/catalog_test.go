package model

import "testing"

func TestLookupTheme(t *testing.T) {
	theme, ok := LookupTheme("Art & Creativity")
	if !ok {
		t.Fatal("expected Art & Creativity to be in the catalog")
	}
	if theme.Description != "quotes about artistic expression and creativity" {
		t.Errorf("unexpected description: %q", theme.Description)
	}

	if _, ok := LookupTheme("art & creativity"); ok {
		t.Error("expected lookup to be case-sensitive")
	}
}

func TestCatalogsAreConsistent(t *testing.T) {
	if len(Themes) != 5 {
		t.Errorf("expected 5 themes, got %d", len(Themes))
	}
	for _, th := range Themes {
		if _, ok := LookupTheme(th.Label); !ok {
			t.Errorf("theme %q not found by label", th.Label)
		}
	}

	for _, era := range Eras {
		if !ValidEra(era) {
			t.Errorf("era %q should be valid", era)
		}
	}
	if ValidEra("1700s") {
		t.Error("expected unknown era to be invalid")
	}
}
