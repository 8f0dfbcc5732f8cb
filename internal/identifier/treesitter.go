package identifier

import (
	"sync"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
)

// identifierNodeKinds are the tree-sitter node kinds that represent a bare
// identifier token across the grammars wired below. Not every grammar uses
// every kind; a lookup miss is simply not emitted.
var identifierNodeKinds = map[string]bool{
	"identifier":       true,
	"field_identifier": true,
	"type_identifier":  true,
	"property_identifier": true,
}

// grammarSet lazily builds one parser per supported filetype. Parsers are
// not safe for concurrent use by multiple goroutines at once, so each call
// to Extract holds the set's mutex around Parse.
type grammarSet struct {
	mu      sync.Mutex
	parsers map[string]*tree_sitter.Parser
}

func newGrammarSet() *grammarSet {
	gs := &grammarSet{parsers: make(map[string]*tree_sitter.Parser)}
	gs.register("cpp", tree_sitter_cpp.Language())
	gs.register("c", tree_sitter_cpp.Language())
	gs.register("go", tree_sitter_go.Language())
	gs.register("java", tree_sitter_java.Language())
	gs.register("javascript", tree_sitter_javascript.Language())
	gs.register("typescript", tree_sitter_typescript.LanguageTypescript())
	gs.register("php", tree_sitter_php.LanguagePHP())
	gs.register("python", tree_sitter_python.Language())
	gs.register("rust", tree_sitter_rust.Language())
	gs.register("cs", tree_sitter_csharp.Language())
	gs.register("zig", tree_sitter_zig.Language())
	return gs
}

func (gs *grammarSet) register(filetype string, langPtr unsafe.Pointer) {
	parser := tree_sitter.NewParser()
	lang := tree_sitter.NewLanguage(langPtr)
	if err := parser.SetLanguage(lang); err != nil {
		return
	}
	gs.parsers[filetype] = parser
}

// Supported reports whether filetype has a tree-sitter grammar wired in.
func (gs *grammarSet) Supported(filetype string) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	_, ok := gs.parsers[filetype]
	return ok
}

// Extract walks the parse tree for filetype and returns every identifier
// node's text, in document order, duplicates preserved - same contract as
// ExtractAll but grammar-aware: identifiers inside string and comment nodes
// are not visited, unlike the regex extractor which has no notion of them.
func (gs *grammarSet) Extract(filetype string, contents []byte) ([]string, bool) {
	gs.mu.Lock()
	parser, ok := gs.parsers[filetype]
	if !ok {
		gs.mu.Unlock()
		return nil, false
	}

	tree := parser.Parse(contents, nil)
	gs.mu.Unlock()
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	var out []string
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		if identifierNodeKinds[n.Kind()] {
			out = append(out, string(contents[n.StartByte():n.EndByte()]))
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(uint(i)))
		}
	}
	walk(tree.RootNode())
	return out, true
}

// Grammars is the process-wide set of tree-sitter parsers used by
// ExtractAllGrammarAware.
var Grammars = newGrammarSet()

// ExtractAllGrammarAware prefers the tree-sitter extractor for filetypes
// with a wired grammar and falls back to ExtractAll (the regex extractor)
// for everything else. This is the entry point internal/idcompleter uses
// on FileReadyToParse; it never changes behavior for a filetype the regex
// path alone would have handled.
func ExtractAllGrammarAware(reg *Registry, contents []byte, filetype string) []string {
	if toks, ok := Grammars.Extract(filetype, contents); ok {
		return toks
	}
	return ExtractAll(reg, contents, filetype)
}
