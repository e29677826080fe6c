package dice

import (
	"strconv"
	"strings"
)

const (
	precSum = iota + 1
	precTerm
	precUnary
	precAtom
)

// Format prints node in canonical source form. Parentheses appear only
// where precedence or associativity requires them, so parsing the output
// yields a tree equal to node.
func Format(node Node) string {
	var sb strings.Builder
	writeNode(&sb, node, precSum)
	return sb.String()
}

func precedence(node Node) int {
	switch n := node.(type) {
	case *BinaryNode:
		if n.Op == TokenPlus || n.Op == TokenMinus {
			return precSum
		}
		return precTerm
	case *NegateNode:
		return precUnary
	default:
		return precAtom
	}
}

func writeNode(sb *strings.Builder, node Node, minPrec int) {
	prec := precedence(node)
	if prec < minPrec {
		sb.WriteByte('(')
		defer sb.WriteByte(')')
	}

	switch n := node.(type) {
	case *LiteralNode:
		sb.WriteString(strconv.Itoa(n.Value))
	case *BinaryNode:
		writeNode(sb, n.Left, prec)
		sb.WriteString(" " + opSymbol(n.Op) + " ")
		writeNode(sb, n.Right, prec+1)
	case *NegateNode:
		sb.WriteByte('-')
		writeNode(sb, n.Operand, precUnary)
	case *RollNode:
		writeOperand(sb, n.Count)
		sb.WriteByte('d')
		writeOperand(sb, n.Sides)
		for _, sel := range n.Selectors {
			// "adv" followed by another code would lex as one word.
			if endsWithLetter(sb) {
				sb.WriteByte(' ')
			}
			sb.WriteString(sel.Kind.Code())
			if sel.Kind.Counted() {
				sb.WriteString(strconv.Itoa(sel.Count))
			}
		}
	}
}

// writeOperand prints a roll's count or sides. Anything but a non-negative
// literal is parenthesized.
func writeOperand(sb *strings.Builder, node Node) {
	if lit, ok := node.(*LiteralNode); ok && lit.Value >= 0 {
		sb.WriteString(strconv.Itoa(lit.Value))
		return
	}
	sb.WriteByte('(')
	writeNode(sb, node, precSum)
	sb.WriteByte(')')
}

func endsWithLetter(sb *strings.Builder) bool {
	s := sb.String()
	if s == "" {
		return false
	}
	c := s[len(s)-1]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func opSymbol(op TokenType) string {
	switch op {
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	default:
		return "?"
	}
}
