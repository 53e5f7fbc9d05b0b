package extractor

import (
	"strings"
	"testing"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashContent(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		content := "function add(a, b) { return a + b; }"
		assert.Equal(t, HashContent(content), HashContent(content))
	})

	t.Run("ignores comments and whitespace", func(t *testing.T) {
		a := "function f(){return 1;}"
		b := "function   f ( ) {  return 1 ; }"
		c := "function f(){ /* adds */ return 1; } // trailing"

		assert.Equal(t, HashContent(a), HashContent(b))
		assert.Equal(t, HashContent(a), HashContent(c))
	})

	t.Run("different content hashes differently", func(t *testing.T) {
		assert.NotEqual(t, HashContent("function f(){return 1;}"), HashContent("function f(){return 2;}"))
	})

	t.Run("empty and comment-only content hash to empty string", func(t *testing.T) {
		assert.Equal(t, "", HashContent(""))
		assert.Equal(t, "", HashContent("   \n\t "))
		assert.Equal(t, "", HashContent("// just a comment\n/* and another */"))
	})

	t.Run("truncates long input before hashing", func(t *testing.T) {
		base := strings.Repeat("a", maxHashInput)
		assert.Equal(t, HashContent(base), HashContent(base+"tail"))
	})
}

func TestExtractPatterns(t *testing.T) {
	lex := NewLexical()

	t.Run("extracts function declarations", func(t *testing.T) {
		content := "function calculateTotal(items) {\n  return items.reduce((s, i) => s + i.price, 0);\n}\n"
		patterns := lex.ExtractPatterns(content, "src/cart.js")

		var fn *domain.Pattern
		for i := range patterns {
			if patterns[i].Type == domain.PatternFunction && patterns[i].Name == "calculateTotal" {
				fn = &patterns[i]
				break
			}
		}
		require.NotNil(t, fn)
		assert.Equal(t, "src/cart.js", fn.FilePath)
		assert.Equal(t, 1, fn.StartLine)
		assert.NotEmpty(t, fn.ContentHash)
	})

	t.Run("identical signatures in different files hash identically", func(t *testing.T) {
		content := "function calculateTotal(items) { return 0; }"
		a := lex.ExtractPatterns(content, "projectA/cart.js")
		b := lex.ExtractPatterns(content, "projectB/cart.js")

		require.NotEmpty(t, a)
		require.NotEmpty(t, b)
		assert.Equal(t, a[0].ContentHash, b[0].ContentHash)
		assert.NotEqual(t, a[0].FilePath, b[0].FilePath)
	})

	t.Run("re-running extraction yields identical patterns", func(t *testing.T) {
		content := "const useTotal = () => {\n  const [total, setTotal] = useState(0);\n  return total;\n};\n"
		first := lex.ExtractPatterns(content, "src/hooks.js")
		second := lex.ExtractPatterns(content, "src/hooks.js")
		assert.Equal(t, first, second)
	})

	t.Run("extracts imports, hooks and classes", func(t *testing.T) {
		content := `import React from 'react';
import { render } from 'react-dom';

const [count, setCount] = useState(0);

class CartService {
  total() { return 0; }
}
`
		patterns := lex.ExtractPatterns(content, "src/app.jsx")

		byType := map[domain.PatternType]int{}
		for _, p := range patterns {
			byType[p.Type]++
		}
		assert.Equal(t, 2, byType[domain.PatternImport])
		assert.Equal(t, 1, byType[domain.PatternHook])
		assert.Equal(t, 1, byType[domain.PatternClass])
	})

	t.Run("always emits one structure pattern", func(t *testing.T) {
		patterns := lex.ExtractPatterns("just some text", "notes.txt")

		structures := 0
		for _, p := range patterns {
			if p.Type == domain.PatternStructure {
				structures++
				assert.Contains(t, p.Signature, "ext:.txt")
			}
		}
		assert.Equal(t, 1, structures)
	})

	t.Run("oversized content yields no patterns", func(t *testing.T) {
		small := NewLexical(WithMaxFileBytes(100))
		patterns := small.ExtractPatterns(strings.Repeat("x", 200), "big.js")
		assert.Empty(t, patterns)
	})

	t.Run("caps matches per signature", func(t *testing.T) {
		capped := NewLexical(WithMaxMatches(5))
		var sb strings.Builder
		for i := 0; i < 20; i++ {
			sb.WriteString("import 'mod';\n")
		}
		patterns := capped.ExtractPatterns(sb.String(), "many.js")

		imports := 0
		for _, p := range patterns {
			if p.Type == domain.PatternImport {
				imports++
			}
		}
		assert.Equal(t, 5, imports)
	})
}

func TestComplexity(t *testing.T) {
	t.Run("counts branching tokens", func(t *testing.T) {
		assert.Equal(t, 1, complexity("return 1;"))
		assert.Equal(t, 3, complexity("if (a && b) { return 1; }"))
	})

	t.Run("caps at fifty", func(t *testing.T) {
		snippet := strings.Repeat("if (x) ", 100)
		assert.Equal(t, maxComplexity, complexity(snippet))
	})
}
