package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const replaceYAML = `
settings:
  - key: dayNightSeconds
    title: Day/Night Seconds
    bin: GAMEPLAY
    type: int
    default: 30
    min: 15
    max: 300
  - key: hardcoreMode
    title: Hardcore Mode
    bin: GAMEPLAY
    type: bool
    default: false
    help: Removes the approach warning and shortens meetings.
`

const extendYAML = `
extend: true
settings:
  - key: hardcoreMode
    title: Hardcore Mode
    bin: GAMEPLAY
    type: bool
    default: false
  - key: dayNightSeconds
    title: Day/Night Seconds
    bin: GAMEPLAY
    type: int
    default: 30
    min: 15
    max: 300
`

func TestParse_Replace(t *testing.T) {
	defs, err := Parse([]byte(replaceYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs[0].Key != "dayNightSeconds" || defs[0].Default != 30 {
		t.Errorf("unexpected first definition %+v", defs[0])
	}
	if defs[0].Min == nil || *defs[0].Min != 15 {
		t.Errorf("expected min 15, got %v", defs[0].Min)
	}
}

func TestParse_Extend(t *testing.T) {
	defs, err := Parse([]byte(extendYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	builtin := len(DefaultCatalog())
	if len(defs) != builtin+1 {
		t.Fatalf("expected %d definitions, got %d", builtin+1, len(defs))
	}

	// The file entry overrides the built-in dayNightSeconds default.
	var found bool
	for _, d := range defs {
		if d.Key == "dayNightSeconds" {
			found = true
			if d.Default != 30 {
				t.Errorf("expected overridden default 30, got %v", d.Default)
			}
		}
	}
	if !found {
		t.Error("expected dayNightSeconds in extended catalog")
	}
}

func TestParse_InvalidDefinition(t *testing.T) {
	bad := `
settings:
  - key: broken
    bin: NOWHERE
    type: bool
    default: true
`
	if _, err := Parse([]byte(bad)); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestParse_BadYAML(t *testing.T) {
	if _, err := Parse([]byte("settings: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := os.WriteFile(path, []byte(replaceYAML), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	defs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(defs) != 2 {
		t.Errorf("expected 2 definitions, got %d", len(defs))
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReplaceDefinitions_CarriesValues(t *testing.T) {
	s := newTestStore(t)

	mustUpdate(t, s, "dayNightSeconds", 60)
	mustUpdate(t, s, "voiceChat", false)

	// New catalog keeps dayNightSeconds (60 still in range), drops
	// voiceChat, and introduces hardcoreMode.
	s.ReplaceDefinitions([]Definition{
		{Key: "dayNightSeconds", Title: "Day/Night Seconds", Bin: BinGameplay, Type: TypeInt, Default: 30, Min: f(15), Max: f(300)},
		{Key: "hardcoreMode", Title: "Hardcore Mode", Bin: BinGameplay, Type: TypeBool, Default: false},
	})

	if v, _ := s.Value("dayNightSeconds"); v != 60 {
		t.Errorf("expected carried value 60, got %v", v)
	}
	if _, ok := s.Value("voiceChat"); ok {
		t.Error("expected voiceChat to be gone")
	}
	if v, _ := s.Value("hardcoreMode"); v != false {
		t.Errorf("expected hardcoreMode default false, got %v", v)
	}
}

func TestReplaceDefinitions_ResetsInvalidValues(t *testing.T) {
	s := newTestStore(t)

	mustUpdate(t, s, "dayNightSeconds", 60)

	// 60 is above the new maximum, so the value resets to the default.
	s.ReplaceDefinitions([]Definition{
		{Key: "dayNightSeconds", Title: "Day/Night Seconds", Bin: BinGameplay, Type: TypeInt, Default: 30, Min: f(15), Max: f(50)},
	})

	if v, _ := s.Value("dayNightSeconds"); v != 30 {
		t.Errorf("expected reset to 30, got %v", v)
	}
}
