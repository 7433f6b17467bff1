package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMath_Inline(t *testing.T) {
	out, err := New().Convert(`Euler: $e^{i\pi} + 1 = 0$ done`)
	require.NoError(t, err)
	assert.Contains(t, out, `<span class="math inline">\(e^{i\pi} + 1 = 0\)</span>`)
}

func TestMath_InlineDisplay(t *testing.T) {
	out, err := New().Convert(`See $$a < b$$ here`)
	require.NoError(t, err)
	assert.Contains(t, out, `<span class="math display">\[a &lt; b\]</span>`)
}

func TestMath_Block(t *testing.T) {
	out, err := New().Convert("Before\n\n$$\n\\sum_{i=0}^n i\n$$\n\nAfter")
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="math display">\[\sum_{i=0}^n i\]</div>`)
	assert.Contains(t, out, "<p>After</p>")
}

func TestMath_SingleLineBlock(t *testing.T) {
	out, err := New().Convert("$$ x = 1 $$\n\nNext")
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="math display">\[x = 1\]</div>`)
	assert.Contains(t, out, "<p>Next</p>")
}

func TestMath_NotMath(t *testing.T) {
	tests := []string{
		"costs $5 and $10",
		"a $ b $ c",
		"lonely $",
		"empty $$",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			out, err := New().Convert(src)
			require.NoError(t, err)
			assert.NotContains(t, out, "math")
		})
	}
}

func TestMath_InsideCodeSpanIsCode(t *testing.T) {
	out, err := New().Convert("`$x$`")
	require.NoError(t, err)
	assert.Contains(t, out, "<code>$x$</code>")
}

func TestClosingDelimiter(t *testing.T) {
	assert.Equal(t, 1, closingDelimiter([]byte("x$"), []byte("$"), false))
	assert.Equal(t, 3, closingDelimiter([]byte(`\$x$`), []byte("$"), false))
	assert.Equal(t, -1, closingDelimiter([]byte(" x$"), []byte("$"), false))
	assert.Equal(t, -1, closingDelimiter([]byte("x $"), []byte("$"), false))
	assert.Equal(t, 2, closingDelimiter([]byte("x $$"), []byte("$$"), true))
}
