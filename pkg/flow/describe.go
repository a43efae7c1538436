package flow

import (
	"fmt"
	"io"
	"strings"
)

// BranchKind classifies the children of a node.
type BranchKind int

const (
	KindLeaf BranchKind = iota
	KindSequence
	KindMultiBranch
)

func (k BranchKind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindMultiBranch:
		return "multi-branch"
	}
	return "leaf"
}

// Description is one node of a workflow tree as seen by Describe.
type Description struct {
	Node  Node
	Label string
	Depth int
	Kind  BranchKind
}

func kindOf(branches Branches) BranchKind {
	switch {
	case branches == nil:
		return KindLeaf
	case len(branches) == 1 && branches[0].Label == "":
		return KindSequence
	}
	return KindMultiBranch
}

// Describe walks the tree rooted at node depth first without executing it.
func Describe(node Node) []Description {
	var out []Description
	describe(node, "", 0, &out)
	return out
}

func describe(node Node, label string, depth int, out *[]Description) {
	var branches Branches
	if nav, ok := node.(Navigable); ok {
		branches = nav.Branches()
	}
	*out = append(*out, Description{Node: node, Label: label, Depth: depth, Kind: kindOf(branches)})
	for _, branch := range branches {
		for _, child := range branch.Nodes {
			describe(child, branch.Label, depth+1, out)
		}
	}
}

// WriteDescription prints the tree rooted at node, one indented line per node.
func WriteDescription(w io.Writer, node Node) error {
	for _, d := range Describe(node) {
		label := ""
		if d.Label != "" {
			label = "[" + d.Label + "] "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s - %s\n", strings.Repeat("  ", d.Depth), label, d.Node.Name(), d.Kind); err != nil {
			return err
		}
	}
	return nil
}
