package tzdata

import (
	"strings"
	"testing"
)

func TestResolveLinks(t *testing.T) {
	t.Run("alias attaches to existing zone", func(t *testing.T) {
		input := "Zone America/New_York -5:00 US E%sT\n" +
			"Link America/New_York US/Eastern\n"

		p := NewParser(NewNopLogger())
		if err := p.ParseFile("northamerica", strings.NewReader(input)); err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		p.ResolveLinks()

		zone := p.Zones()["America/New_York"]
		if len(zone.Aliases) != 1 || zone.Aliases[0] != "US/Eastern" {
			t.Errorf("Aliases = %v, want [US/Eastern]", zone.Aliases)
		}
		if _, ok := p.Zones()["US/Eastern"]; ok {
			t.Error("alias must not become a top-level zone")
		}
	})

	t.Run("link before zone definition resolves after all files", func(t *testing.T) {
		p := NewParser(NewNopLogger())
		if err := p.ParseFile("backward", strings.NewReader("Link Asia/Seoul ROK\n")); err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		if err := p.ParseFile("asia", strings.NewReader("Zone Asia/Seoul 9:00 - KST\n")); err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		p.ResolveLinks()

		zone := p.Zones()["Asia/Seoul"]
		if len(zone.Aliases) != 1 || zone.Aliases[0] != "ROK" {
			t.Errorf("Aliases = %v, want [ROK]", zone.Aliases)
		}
		if len(zone.Transitions) != 1 {
			t.Errorf("Transitions = %d, want 1", len(zone.Transitions))
		}
	})

	t.Run("dangling target creates placeholder zone", func(t *testing.T) {
		p := NewParser(NewNopLogger())
		if err := p.ParseFile("backward", strings.NewReader("Link Atlantis/Lost Old/Name\n")); err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		p.ResolveLinks()

		zone, ok := p.Zones()["Atlantis/Lost"]
		if !ok {
			t.Fatal("placeholder zone not created for dangling link target")
		}
		if len(zone.Transitions) != 0 {
			t.Errorf("placeholder Transitions = %d, want 0", len(zone.Transitions))
		}
		if len(zone.Aliases) != 1 || zone.Aliases[0] != "Old/Name" {
			t.Errorf("placeholder Aliases = %v, want [Old/Name]", zone.Aliases)
		}
	})

	t.Run("aliases keep link encounter order", func(t *testing.T) {
		input := "Zone Asia/Seoul 9:00 - KST\n" +
			"Link Asia/Seoul ROK\n" +
			"Link Asia/Seoul Korea/Seoul\n"

		p := NewParser(NewNopLogger())
		if err := p.ParseFile("asia", strings.NewReader(input)); err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		p.ResolveLinks()

		got := p.Zones()["Asia/Seoul"].Aliases
		if len(got) != 2 || got[0] != "ROK" || got[1] != "Korea/Seoul" {
			t.Errorf("Aliases = %v, want [ROK Korea/Seoul]", got)
		}
	})

	t.Run("link record does not disturb current zone", func(t *testing.T) {
		input := "Zone Asia/Seoul 8:30 - KST 1948 Aug 15\n" +
			"Link Asia/Seoul ROK\n" +
			"9:00 - KST\n"

		p := NewParser(NewNopLogger())
		if err := p.ParseFile("asia", strings.NewReader(input)); err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}

		if n := len(p.Zones()["Asia/Seoul"].Transitions); n != 2 {
			t.Errorf("Transitions = %d, want 2 (continuation after Link must still attach)", n)
		}
	})
}
