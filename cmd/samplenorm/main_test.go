package main

import (
	"strings"
	"testing"
)

func TestConfirmBackup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"yes uppercase", "YES\n", true},
		{"yes padded", "  yes  \n", true},
		{"no", "no\n", false},
		{"y is not enough", "y\n", false},
		{"empty line", "\n", false},
		{"closed stdin", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			got := confirmBackup(strings.NewReader(tt.input), &out, "/samples")
			if got != tt.want {
				t.Errorf("confirmBackup(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "backup") {
				t.Error("prompt should mention a backup")
			}
		})
	}
}

func TestRootCommand_RequiresTarget(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when no target folder is given")
	}
}

func TestRootCommand_RejectsUnknownFlag(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--bogus"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for an unknown flag")
	}
}

func TestRootCommand_RejectsExtraArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"a", "b"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for extra positional args")
	}
}
