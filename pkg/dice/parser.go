package dice

// MaxExpressionLength is the maximum allowed length in bytes for a single
// expression.
const MaxExpressionLength = 400

// Default roll operands used when the source omits them.
const (
	DefaultCount = 1
	DefaultSides = 6
	PercentSides = 100
)

// Parser is a recursive descent parser for dice expressions.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse parses a complete dice expression.
func Parse(input string) (Node, error) {
	if len(input) > MaxExpressionLength {
		return nil, newParseError(MaxExpressionLength, TagUnexpectedToken,
			"expression exceeds maximum length of %d characters", MaxExpressionLength)
	}

	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &Parser{tokens: tokens}
	node, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Type != TokenEOF {
		if tok.Type == TokenRParen {
			return nil, newParseError(tok.Pos, TagMismatchedBrackets, "unmatched %s", quote(tok.Value))
		}
		return nil, newParseError(tok.Pos, TagUnexpectedToken, "unexpected leftover token %s", tok.describe())
	}

	return node, nil
}

// current returns the current token.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return Token{Type: TokenEOF, Pos: p.tokens[len(p.tokens)-1].Pos}
		}
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// advance consumes the current token and returns it.
func (p *Parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

// unexpected builds the error for a token that cannot start or continue
// the production named by context.
func unexpected(tok Token, context string) *Error {
	switch tok.Type {
	case TokenEOF:
		return newParseError(tok.Pos, TagUnexpectedEnd, "expected %s, got end of input", context)
	case TokenSelector:
		return newParseError(tok.Pos, TagUnexpectedToken, "selector %s must follow a roll", quote(tok.Value))
	default:
		return newParseError(tok.Pos, TagUnexpectedToken, "expected %s, got %s", context, tok.describe())
	}
}

// parseSum handles the lowest precedence operators.
// Precedence (low to high):
//
//	+, -
//	*, /
//	unary -
//	parentheses, integers, rolls
func (p *Parser) parseSum() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenPlus || p.current().Type == TokenMinus {
		op := p.advance().Type
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseTerm() (Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenStar || p.current().Type == TokenSlash {
		op := p.advance().Type
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenLParen:
		return p.parseGroup()
	case TokenMinus:
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &NegateNode{Operand: operand}, nil
	case TokenInt:
		p.advance()
		if p.current().Type != TokenDie {
			return &LiteralNode{Value: tok.IntVal}, nil
		}
		return p.parseRoll(&LiteralNode{Value: tok.IntVal})
	case TokenDie:
		return p.parseRoll(&LiteralNode{Value: DefaultCount})
	default:
		return nil, unexpected(tok, "a number, roll or '('")
	}
}

// parseGroup parses "(" sum ")" or "[" sum "]".
func (p *Parser) parseGroup() (Node, error) {
	open := p.advance()

	inner, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	closeTok := p.current()
	want := closing(open.Value)
	switch closeTok.Type {
	case TokenRParen:
		if closeTok.Value != want {
			return nil, newParseError(closeTok.Pos, TagMismatchedBrackets,
				"closing %s does not match opening %s", quote(closeTok.Value), quote(open.Value))
		}
		p.advance()
		return inner, nil
	case TokenEOF:
		return nil, newParseError(closeTok.Pos, TagUnexpectedEnd,
			"expression ended without closing %s", quote(want))
	default:
		return nil, newParseError(closeTok.Pos, TagUnexpectedToken,
			"expected %s, got %s", quote(want), closeTok.describe())
	}
}

func closing(open string) string {
	if open == "[" {
		return "]"
	}
	return ")"
}

// parseRoll parses the remainder of a roll once the die marker is current.
func (p *Parser) parseRoll(count Node) (Node, error) {
	p.advance() // consume d

	var sides Node
	switch p.current().Type {
	case TokenInt:
		sides = &LiteralNode{Value: p.advance().IntVal}
	case TokenPercent:
		p.advance()
		sides = &LiteralNode{Value: PercentSides}
	default:
		sides = &LiteralNode{Value: DefaultSides}
	}

	selectors, err := p.parseSelection()
	if err != nil {
		return nil, err
	}
	return &RollNode{Count: count, Sides: sides, Selectors: selectors}, nil
}

// parseSelection greedily parses the selector chain following a roll.
func (p *Parser) parseSelection() ([]Selector, error) {
	var selectors []Selector
	for {
		tok := p.current()
		var kind SelectorKind
		switch tok.Type {
		case TokenDie:
			kind = DiscardLow
		case TokenSelector:
			kind = tok.Selector
		default:
			return selectors, nil
		}
		p.advance()

		sel := Selector{Kind: kind, Count: 1}
		if kind.Counted() && p.current().Type == TokenInt {
			sel.Count = p.advance().IntVal
		}
		selectors = append(selectors, sel)
	}
}
