package pyparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// extractModule collects symbols defined at module top level:
// functions, classes, class methods (one level deep, named "Class.method"),
// and ALL_CAPS assignments treated as constants. Definitions created via
// inheritance, indirection, or metaprogramming are intentionally invisible
// to this syntactic pass.
func extractModule(root *sitter.Node, src []byte) []Symbol {
	var out []Symbol
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "function_definition":
			if sym, ok := functionSymbol(n, src, ""); ok {
				out = append(out, sym)
			}
		case "class_definition":
			out = append(out, classSymbols(n, src)...)
		case "decorated_definition":
			def := n.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			switch def.Type() {
			case "function_definition":
				if sym, ok := functionSymbol(def, src, ""); ok {
					out = append(out, sym)
				}
			case "class_definition":
				out = append(out, classSymbols(def, src)...)
			}
		case "expression_statement":
			if sym, ok := constantSymbol(n, src); ok {
				out = append(out, sym)
			}
		}
	}
	return out
}

// functionSymbol builds a Symbol for a function_definition node. className is
// non-empty for methods, producing a "Class.method" entry name.
func functionSymbol(n *sitter.Node, src []byte, className string) (Symbol, bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return Symbol{}, false
	}
	name := nameNode.Content(src)

	kind := KindFunction
	entryName := name
	if className != "" {
		kind = KindMethod
		entryName = className + "." + name
	}

	sig := name
	if params := n.ChildByFieldName("parameters"); params != nil {
		sig += collapseWhitespace(params.Content(src))
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		sig += " -> " + collapseWhitespace(ret.Content(src))
	}

	return Symbol{
		Name:        entryName,
		Kind:        kind,
		Line:        int(n.StartPoint().Row) + 1,
		EndLine:     int(n.EndPoint().Row) + 1,
		Signature:   sig,
		Fingerprint: fingerprint(n, src),
	}, true
}

// classSymbols emits one entry for the class itself plus one per directly
// nested method.
func classSymbols(n *sitter.Node, src []byte) []Symbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	className := nameNode.Content(src)

	out := []Symbol{{
		Name:        className,
		Kind:        KindClass,
		Line:        int(n.StartPoint().Row) + 1,
		EndLine:     int(n.EndPoint().Row) + 1,
		Signature:   "class " + className,
		Fingerprint: fingerprint(n, src),
	}}

	body := n.ChildByFieldName("body")
	if body == nil {
		return out
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		def := child
		if child.Type() == "decorated_definition" {
			def = child.ChildByFieldName("definition")
			if def == nil {
				continue
			}
		}
		if def.Type() != "function_definition" {
			continue
		}
		if sym, ok := functionSymbol(def, src, className); ok {
			out = append(out, sym)
		}
	}
	return out
}

// constantSymbol recognizes module-level assignments whose target is written
// in ALL_CAPS convention. The fingerprint covers the whole assignment so a
// value change flags references to the constant.
func constantSymbol(stmt *sitter.Node, src []byte) (Symbol, bool) {
	if stmt.NamedChildCount() != 1 {
		return Symbol{}, false
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != "assignment" {
		return Symbol{}, false
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return Symbol{}, false
	}
	name := left.Content(src)
	if !isUpperName(name) {
		return Symbol{}, false
	}

	sig := name
	if ann := assign.ChildByFieldName("type"); ann != nil {
		sig += ": " + collapseWhitespace(ann.Content(src))
	}

	return Symbol{
		Name:        name,
		Kind:        KindConstant,
		Line:        int(assign.StartPoint().Row) + 1,
		EndLine:     int(assign.EndPoint().Row) + 1,
		Signature:   sig,
		Fingerprint: fingerprint(assign, src),
	}, true
}

// isUpperName reports whether name follows the ALL_CAPS constant convention:
// at least one cased character and no lowercase.
func isUpperName(name string) bool {
	return name == strings.ToUpper(name) && name != strings.ToLower(name)
}

// collapseWhitespace squeezes runs of whitespace to a single space so
// multi-line parameter lists render as one signature line.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
