package dice

import "strconv"

// Node is the interface for all expression AST nodes. The set of node
// types is closed: *LiteralNode, *BinaryNode, *NegateNode and *RollNode.
type Node interface {
	nodeType() string
}

// LiteralNode represents an integer literal.
type LiteralNode struct {
	Value int
}

func (n *LiteralNode) nodeType() string { return "Literal" }

// BinaryNode represents an arithmetic operation. Op is one of TokenPlus,
// TokenMinus, TokenStar or TokenSlash.
type BinaryNode struct {
	Op    TokenType
	Left  Node
	Right Node
}

func (n *BinaryNode) nodeType() string { return "Binary" }

// NegateNode represents unary minus.
type NegateNode struct {
	Operand Node
}

func (n *NegateNode) nodeType() string { return "Negate" }

// RollNode represents rolling Count dice with Sides faces, then applying
// Selectors left to right.
type RollNode struct {
	Count     Node
	Sides     Node
	Selectors []Selector
}

func (n *RollNode) nodeType() string { return "Roll" }

// SelectorKind identifies a selector applied to a roll.
type SelectorKind int

const (
	KeepHigh SelectorKind = iota
	KeepLow
	DiscardHigh
	DiscardLow
	Advantage
	Disadvantage
)

// String returns the human-readable selector name.
func (k SelectorKind) String() string {
	switch k {
	case KeepHigh:
		return "Keep Highest"
	case KeepLow:
		return "Keep Lowest"
	case DiscardHigh:
		return "Discard Highest"
	case DiscardLow:
		return "Discard Lowest"
	case Advantage:
		return "Advantage"
	case Disadvantage:
		return "Disadvantage"
	default:
		return "Unknown"
	}
}

// Code returns the canonical source code of the selector.
func (k SelectorKind) Code() string {
	switch k {
	case KeepHigh:
		return "kh"
	case KeepLow:
		return "kl"
	case DiscardHigh:
		return "dh"
	case DiscardLow:
		return "dl"
	case Advantage:
		return "adv"
	case Disadvantage:
		return "dis"
	default:
		return "?"
	}
}

// Counted reports whether the selector takes a count.
func (k SelectorKind) Counted() bool {
	return k != Advantage && k != Disadvantage
}

// Selector narrows or re-decides which dice of a roll are kept. Count is
// ignored for Advantage and Disadvantage.
type Selector struct {
	Kind  SelectorKind
	Count int
}

// String returns the selector's label, e.g. "Keep Highest 3".
func (s Selector) String() string {
	if !s.Kind.Counted() {
		return s.Kind.String()
	}
	return s.Kind.String() + " " + strconv.Itoa(s.Count)
}
