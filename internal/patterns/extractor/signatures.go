package extractor

import (
	"regexp"
	"sort"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
)

// Signature is one precompiled lexical rule. Each regex match yields one
// pattern of the signature's type; NameGroup selects the capture group used
// as the pattern name (0 means the whole match).
type Signature struct {
	Name      string
	Type      domain.PatternType
	Expr      *regexp.Regexp
	NameGroup int
}

var registered = map[string]Signature{}

// Register adds a signature to the extraction set. Later registrations with
// the same name replace earlier ones.
func Register(s Signature) {
	if s.Expr == nil {
		return
	}
	registered[s.Name] = s
}

// All returns the registered signatures sorted by name so extraction order
// is deterministic.
func All() []Signature {
	out := make([]Signature, 0, len(registered))
	for _, s := range registered {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func init() {
	Register(Signature{
		Name:      "function_declaration",
		Type:      domain.PatternFunction,
		Expr:      regexp.MustCompile(`function\s+(\w+)\s*\([^)]*\)`),
		NameGroup: 1,
	})
	Register(Signature{
		Name:      "function_expression",
		Type:      domain.PatternFunction,
		Expr:      regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?function\b`),
		NameGroup: 1,
	})
	Register(Signature{
		Name:      "arrow_function",
		Type:      domain.PatternFunction,
		Expr:      regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?\([^)]*\)\s*=>`),
		NameGroup: 1,
	})
	Register(Signature{
		Name:      "component_declaration",
		Type:      domain.PatternComponent,
		Expr:      regexp.MustCompile(`(?:const|function)\s+([A-Z]\w*)\s*(?:=\s*(?:\([^)]*\)|[\w,\s{}]+)\s*=>|\([^)]*\)\s*{)`),
		NameGroup: 1,
	})
	Register(Signature{
		Name:      "import_statement",
		Type:      domain.PatternImport,
		Expr:      regexp.MustCompile(`import\s+(?:[\w*{}\s,]+\s+from\s+)?['"]([^'"]+)['"]`),
		NameGroup: 1,
	})
	Register(Signature{
		Name:      "state_hook",
		Type:      domain.PatternHook,
		Expr:      regexp.MustCompile(`(?:const|let)\s*\[\s*(\w+)\s*,\s*set\w+\s*\]\s*=\s*use\w+\s*\(`),
		NameGroup: 1,
	})
	Register(Signature{
		Name:      "class_declaration",
		Type:      domain.PatternClass,
		Expr:      regexp.MustCompile(`class\s+(\w+)(?:\s+extends\s+[\w.]+)?\s*{`),
		NameGroup: 1,
	})
	Register(Signature{
		Name:      "method_signature",
		Type:      domain.PatternFunction,
		Expr:      regexp.MustCompile(`(?m)^\s*(?:async\s+)?(\w+)\s*\([^)]*\)\s*{`),
		NameGroup: 1,
	})
}
