package pyparse

import (
	"crypto/sha256"
	"fmt"
	"hash"

	sitter "github.com/smacker/go-tree-sitter"
)

// fingerprint computes a structural hash of a subtree. The serialization
// walks node types plus leaf token text, skipping comment nodes, docstrings,
// and all position information. Reformatting, comment edits, and docstring
// edits therefore never change the hash; edits to the parameter list, body
// statements, or nested structure always do.
func fingerprint(n *sitter.Node, src []byte) string {
	h := sha256.New()
	writeNode(h, n, src)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func writeNode(h hash.Hash, n *sitter.Node, src []byte) {
	t := n.Type()
	if t == "comment" {
		return
	}

	fmt.Fprintf(h, "(%s", t)
	if n.ChildCount() == 0 {
		// Leaf token: the text matters (identifiers, literals, operators).
		h.Write([]byte{':'})
		h.Write([]byte(n.Content(src)))
	}

	// Only the first statement of a suite can be a docstring.
	first := t == "block" || t == "module"
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "comment" {
			continue
		}
		if first && child.IsNamed() {
			first = false
			if isDocstring(child) {
				continue
			}
		}
		writeNode(h, child, src)
	}
	h.Write([]byte{')'})
}

// isDocstring reports whether a node is an expression statement consisting of
// a single string literal.
func isDocstring(n *sitter.Node) bool {
	return n.Type() == "expression_statement" &&
		n.NamedChildCount() == 1 &&
		n.NamedChild(0).Type() == "string"
}
