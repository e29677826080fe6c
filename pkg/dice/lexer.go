package dice

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// selectorWords maps the lowercase selector codes to their kinds. "d" is
// absent: it always lexes as TokenDie.
var selectorWords = map[string]SelectorKind{
	"k":   KeepHigh,
	"kh":  KeepHigh,
	"kl":  KeepLow,
	"dh":  DiscardHigh,
	"dl":  DiscardLow,
	"adv": Advantage,
	"ad":  Advantage,
	"dis": Disadvantage,
	"da":  Disadvantage,
}

// Lexer tokenizes a dice expression string.
type Lexer struct {
	input  string
	pos    int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the entire input and returns all tokens, ending with
// TokenEOF.
func Tokenize(input string) ([]Token, error) {
	return NewLexer(input).Tokenize()
}

// Tokenize scans the entire input and returns all tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return l.tokens, nil
}

// next returns the next token from the input.
func (l *Lexer) next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	ch, size := utf8.DecodeRuneInString(l.input[l.pos:])

	if ch >= '0' && ch <= '9' {
		return l.readInteger()
	}

	if unicode.IsLetter(ch) {
		return l.readWord()
	}

	start := l.pos
	var tt TokenType
	switch ch {
	case '+':
		tt = TokenPlus
	case '-':
		tt = TokenMinus
	case '*', '×':
		tt = TokenStar
	case '/', '÷':
		tt = TokenSlash
	case '%':
		tt = TokenPercent
	case '(', '[':
		tt = TokenLParen
	case ')', ']':
		tt = TokenRParen
	default:
		if ch == utf8.RuneError && size == 1 {
			return Token{}, newLexError(start, TagUnexpectedCharacter, "invalid UTF-8 byte 0x%02x", l.input[start])
		}
		return Token{}, newLexError(start, TagUnexpectedCharacter, "unexpected character %q", string(ch))
	}
	l.pos += size
	return Token{Type: tt, Value: l.input[start:l.pos], Pos: start}, nil
}

// readInteger reads a maximal run of decimal digits.
func (l *Lexer) readInteger() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
		l.pos++
	}

	raw := l.input[start:l.pos]
	i, err := strconv.Atoi(raw)
	if err != nil {
		return Token{}, newLexError(start, TagUnexpectedCharacter, "integer %s out of range", raw)
	}
	return Token{Type: TokenInt, Value: raw, IntVal: i, Pos: start}, nil
}

// readWord reads a maximal run of letters and classifies it as the die
// marker or a selector code.
func (l *Lexer) readWord() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) {
		ch, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsLetter(ch) {
			break
		}
		l.pos += size
	}

	raw := l.input[start:l.pos]
	word := strings.ToLower(raw)
	if word == "d" {
		return Token{Type: TokenDie, Value: raw, Pos: start}, nil
	}
	if kind, ok := selectorWords[word]; ok {
		return Token{Type: TokenSelector, Value: raw, Selector: kind, Pos: start}, nil
	}
	return Token{}, newLexError(start, TagUnexpectedCharacter, "unrecognized word %q", raw)
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(ch) {
			return
		}
		l.pos += size
	}
}
