package rcon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripColors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "plain text untouched",
			in:   "Success",
			out:  "Success",
		},
		{
			name: "single codes",
			in:   "§a§lSuccess§r",
			out:  "Success",
		},
		{
			name: "uppercase code",
			in:   "§ASuccess",
			out:  "Success",
		},
		{
			name: "hex color",
			in:   "§x§f§f§0§0§0§0Alert",
			out:  "Alert",
		},
		{
			name: "hex color then style code",
			in:   "§x§1§2§a§b§c§d§lBold",
			out:  "Bold",
		},
		{
			name: "incomplete hex sequence leaves the x marker",
			in:   "§x§f§fRed",
			out:  "§xRed",
		},
		{
			name: "mixed",
			in:   "§aGave §e100§a Rin to §bSteve",
			out:  "Gave 100 Rin to Steve",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, StripColors(tt.in))
		})
	}
}

func TestRenderPattern(t *testing.T) {
	assert.Equal(t, "gave 100 to Steve", RenderPattern("gave {amount} to {player}", "Steve", 100))
	assert.Equal(t, "no placeholders", RenderPattern("no placeholders", "Steve", 100))
}

func TestClassifyPrecedence(t *testing.T) {
	successPatterns := []string{"ok"}
	errorPatterns := []string{"fail"}

	tests := []struct {
		name     string
		response string
		success  []string
		errors   []string
		want     bool
	}{
		{
			name:     "error pattern wins over success pattern",
			response: "fail but also ok",
			success:  successPatterns,
			errors:   errorPatterns,
			want:     false,
		},
		{
			name:     "success pattern matches",
			response: "everything ok",
			success:  successPatterns,
			errors:   errorPatterns,
			want:     true,
		},
		{
			name:     "no match with success patterns configured",
			response: "nothing recognizable",
			success:  successPatterns,
			errors:   errorPatterns,
			want:     false,
		},
		{
			name:     "no match without success patterns",
			response: "nothing recognizable",
			success:  nil,
			errors:   errorPatterns,
			want:     true,
		},
		{
			name:     "error patterns checked even without success patterns",
			response: "command fail",
			success:  nil,
			errors:   errorPatterns,
			want:     false,
		},
		{
			name:     "empty response with no success patterns",
			response: "",
			success:  nil,
			errors:   errorPatterns,
			want:     true,
		},
		{
			name:     "empty response with success patterns",
			response: "",
			success:  successPatterns,
			errors:   errorPatterns,
			want:     false,
		},
		{
			name:     "case insensitive",
			response: "Everything OK",
			success:  successPatterns,
			errors:   errorPatterns,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.response, "Steve", 100, tt.success, tt.errors)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyPlaceholders(t *testing.T) {
	successPatterns := []string{"gave {amount} rin to {player}"}

	assert.True(t, Classify("§aGave §e100§a Rin to §bSteve§r!", "Steve", 100, successPatterns, nil))
	assert.False(t, Classify("Gave 50 Rin to Steve", "Steve", 100, successPatterns, nil))
	assert.False(t, Classify("Gave 100 Rin to Alex", "Steve", 100, successPatterns, nil))
}

func TestClassifyStripsResponseOnly(t *testing.T) {
	// Patterns are substituted but never color-stripped; a pattern with a
	// literal § in it can only match a response that still carries it,
	// which a stripped response never does.
	assert.True(t, Classify("§a§lSuccess§r", "Steve", 100, []string{"success"}, nil))
	assert.False(t, Classify("§a§lSuccess§r", "Steve", 100, []string{"§asuccess"}, nil))
}
