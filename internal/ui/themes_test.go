package ui

import (
	"os"
	"path/filepath"
	"testing"
)

// These tests toggle the package-level color state and do not run in parallel.

func TestSetColorSwitchesBothPalettes(t *testing.T) {
	defer SetColor(SetColor(true))

	if GetCurrentTheme() != ColorTheme || GetCurrentTUITheme() != ColorTUITheme {
		t.Fatal("color on should select the colored palettes")
	}
	if was := SetColor(false); !was {
		t.Error("SetColor should report the previous state")
	}
	if GetCurrentTheme() != NoColorTheme || GetCurrentTUITheme() != NoColorTUITheme {
		t.Error("color off should select the colorless palettes")
	}
	if th := GetCurrentTheme(); th.Error+th.Reset != "" {
		t.Errorf("colorless theme must not emit escapes, got %q", th.Error+th.Reset)
	}
}

func TestColorThemeSequences(t *testing.T) {
	if ColorTheme.Primary != "\033[38;5;208m" {
		t.Errorf("Primary = %q", ColorTheme.Primary)
	}
	if ColorTheme.Reset != "\033[0m" {
		t.Errorf("Reset = %q", ColorTheme.Reset)
	}
}

func TestInitTheme(t *testing.T) {
	defer SetColor(SetColor(true))

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	InitTheme(false, f)
	if GetCurrentTheme().Name != "none" {
		t.Error("a regular file is not a terminal; color must be off")
	}

	SetColor(true)
	InitTheme(true, os.Stdout)
	if GetCurrentTheme() != NoColorTheme {
		t.Error("--no-color must disable colors")
	}
	if IsTerminal(nil) {
		t.Error("nil file is not a terminal")
	}
}

func TestColorEnabledHonorsNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(os.Stdout) {
		t.Error("NO_COLOR must disable colors")
	}
}
