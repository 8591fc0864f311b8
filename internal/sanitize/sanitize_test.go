package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens_StripsQuerySyntax(t *testing.T) {
	terms := Tokens(`De uitvinding heeft betrekking op een voegplaat, voorzien van een wapening.`)
	assert.Equal(t, []string{
		"De", "uitvinding", "heeft", "betrekking", "op", "een",
		"voegplaat", "voorzien", "van", "een", "wapening",
	}, terms)
}

func TestTokens_PunctuationOnly(t *testing.T) {
	// Inputs made entirely of FTS-significant punctuation must yield
	// no terms, never an error.
	for _, input := range []string{`,(),:`, `"':-`, `...`, `( ) - - ( )`} {
		assert.Empty(t, Tokens(input), "input %q", input)
	}
}

func TestTokens_Empty(t *testing.T) {
	assert.Empty(t, Tokens(""))
	assert.Empty(t, Tokens("   \t\n  "))
}

func TestTokens_DropsNoiseTerms(t *testing.T) {
	terms := Tokens("a I x-ray of b")
	// Single-rune tokens are dropped; "x" and "ray" split at the hyphen.
	assert.Equal(t, []string{"ray", "of"}, terms)
	for _, term := range terms {
		assert.Greater(t, len([]rune(term)), 1)
	}
}

func TestTokens_PreservesOrderAndDuplicates(t *testing.T) {
	terms := Tokens("een plaat, een plaat")
	assert.Equal(t, []string{"een", "plaat", "een", "plaat"}, terms)
}

func TestTokens_Unicode(t *testing.T) {
	terms := Tokens("über straße — 第一章 çeviri")
	assert.Equal(t, []string{"über", "straße", "第一章", "çeviri"}, terms)
}

func TestTokens_SingleRuneMultibyte(t *testing.T) {
	// A single CJK rune is multiple bytes but still one rune of noise.
	assert.Empty(t, Tokens("好"))
}
