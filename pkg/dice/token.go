// Package dice implements the dice expression language: lexer, parser,
// evaluator and pretty-printer. It handles expressions such as
// "4d6kh3 + 2" with arithmetic, dice rolls and keep/discard/advantage
// selectors.
package dice

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenInt TokenType = iota // integer literal

	// Arithmetic
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // * or ×
	TokenSlash   // / or ÷
	TokenPercent // %

	// Brackets
	TokenLParen // ( or [
	TokenRParen // ) or ]

	// Dice
	TokenDie      // d, also discard-lowest in selector position
	TokenSelector // k, kh, kl, dh, dl, adv, ad, dis, da

	// Special
	TokenEOF // end of expression
)

// Token represents a single lexical token.
type Token struct {
	Type     TokenType
	Value    string       // raw source text
	IntVal   int          // parsed int (for TokenInt)
	Selector SelectorKind // for TokenSelector
	Pos      int          // byte offset in source
}

// String returns a debug-friendly representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenInt:
		return "INT"
	case TokenPlus:
		return "PLUS"
	case TokenMinus:
		return "MINUS"
	case TokenStar:
		return "STAR"
	case TokenSlash:
		return "SLASH"
	case TokenPercent:
		return "PERCENT"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenDie:
		return "DIE"
	case TokenSelector:
		return "SELECTOR"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// describe renders a token for error messages.
func (t Token) describe() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return t.Type.String() + " " + quote(t.Value)
}

func quote(s string) string {
	return "'" + s + "'"
}
