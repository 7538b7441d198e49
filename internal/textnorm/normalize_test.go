package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello", "hello"},
		{"hello,", "hello"},
		{"(Hello!)", "hello"},
		{`"quoted"`, "quoted"},
		{"'single'", "single"},
		{"#World", "#world"},
		{"#world!", "#world"},
		{"[{#Tag}]", "#tag"},
		{"mid.dle", "mid.dle"},
		{"...", ""},
		{"", ""},
		{"ПРИВЕТ!", "привет"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"Hello", "(#Tag!)", "a.b.", "''", "Straße;", "  x  "} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize not idempotent for %q", in)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "#world", "again"}, Tokenize("  hello\t#world\nagain "))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   "))
}

func TestIsTag(t *testing.T) {
	assert.True(t, IsTag("#go"))
	assert.False(t, IsTag("#"))
	assert.False(t, IsTag("go"))
	assert.False(t, IsTag(""))
}
