package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{MaxSize: 100, Overlap: 10, MinLength: 5}, true},
		{"zero max", Config{MaxSize: 0, Overlap: 10, MinLength: 5}, false},
		{"negative overlap", Config{MaxSize: 100, Overlap: -1, MinLength: 5}, false},
		{"overlap equals max", Config{MaxSize: 100, Overlap: 100, MinLength: 5}, false},
		{"zero min length", Config{MaxSize: 100, Overlap: 10, MinLength: 0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSplitEmptyInput(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, Split("", cfg))
	assert.Empty(t, Split("   \n\n\t  ", cfg))
}

func TestSplitShortParagraphs(t *testing.T) {
	cfg := DefaultConfig()
	text := "This is the first paragraph, long enough to keep.\n\nAnd this is the second paragraph of the document."

	chunks := Split(text, cfg)
	require.Len(t, chunks, 2)
	assert.Equal(t, "This is the first paragraph, long enough to keep.", chunks[0])
	assert.Equal(t, "And this is the second paragraph of the document.", chunks[1])
}

// A 50-char paragraph and a 3000-char paragraph with maxSize=2000/overlap=200
// yield one chunk for the first and two windows for the second.
func TestSplitMixedParagraphSizes(t *testing.T) {
	cfg := Config{MaxSize: 2000, Overlap: 200, MinLength: 20}

	first := strings.Repeat("a", 50)
	second := strings.Repeat("b", 3000)
	chunks := Split(first+"\n\n"+second, cfg)

	require.Len(t, chunks, 3)
	assert.Equal(t, first, chunks[0])
	assert.Len(t, []rune(chunks[1]), 2000)
	// Second window starts at offset 1800 and runs to the end.
	assert.Len(t, []rune(chunks[2]), 1200)
}

func TestSplitSentenceTier(t *testing.T) {
	cfg := Config{MaxSize: 100, Overlap: 10, MinLength: 20}

	// No blank lines anywhere, so the paragraph tier sees one fragment that
	// is under MinLength only if the whole text is; here the whole text
	// exceeds MinLength so the paragraph tier wins and windows it.
	text := "This is sentence one of the input. This is sentence two of the input. This is sentence three here."
	chunks := Split(text, cfg)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), cfg.MaxSize)
	}
}

// One giant word has no paragraph or sentence boundaries but must still be
// covered by the fixed-size tier.
func TestSplitFixedSizeFallback(t *testing.T) {
	cfg := Config{MaxSize: 2000, Overlap: 200, MinLength: 20}
	word := strings.Repeat("x", 10000)

	chunks := Split(word, cfg)

	// ceil(10000 / 1800) windows
	require.Len(t, chunks, 6)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), cfg.MaxSize)
		assert.GreaterOrEqual(t, len([]rune(c)), cfg.MinLength)
	}
}

func TestSplitDropsFragmentsBelowMinLength(t *testing.T) {
	cfg := Config{MaxSize: 100, Overlap: 10, MinLength: 20}

	chunks := Split("tiny\n\nThis paragraph is comfortably longer than twenty characters.", cfg)
	require.Len(t, chunks, 1)
	assert.NotContains(t, chunks[0], "tiny")
}

func TestSplitExactMaxSize(t *testing.T) {
	cfg := Config{MaxSize: 50, Overlap: 5, MinLength: 10}
	text := strings.Repeat("y", 50)

	chunks := Split(text, cfg)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitBoundsProperty(t *testing.T) {
	cfg := Config{MaxSize: 80, Overlap: 20, MinLength: 15}
	texts := []string{
		strings.Repeat("word ", 200),
		"Short one. " + strings.Repeat("Another sentence follows here. ", 30),
		strings.Repeat("p", 400) + "\n\n" + strings.Repeat("q", 33),
	}

	for _, text := range texts {
		for _, c := range Split(text, cfg) {
			n := len([]rune(c))
			assert.LessOrEqual(t, n, cfg.MaxSize)
			assert.GreaterOrEqual(t, n, cfg.MinLength)
		}
	}
}

func TestSplitUnicodeRuneCounting(t *testing.T) {
	cfg := Config{MaxSize: 30, Overlap: 5, MinLength: 5}
	text := strings.Repeat("日本語テキスト", 20) // 120 runes, no boundaries

	for _, c := range Split(text, cfg) {
		assert.LessOrEqual(t, len([]rune(c)), cfg.MaxSize)
	}
}
