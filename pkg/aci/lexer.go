package aci

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexical token of the ACI grammar.
type TokenKind int

const (
	LParen TokenKind = iota
	RParen
	Semicolon
	Comma
	Equals
	NotEquals
	Operator
	Word
	Quoted
)

func (k TokenKind) String() string {
	switch k {
	case LParen:
		return "lparen"
	case RParen:
		return "rparen"
	case Semicolon:
		return "semicolon"
	case Comma:
		return "comma"
	case Equals:
		return "equals"
	case NotEquals:
		return "not-equals"
	case Operator:
		return "operator"
	case Word:
		return "word"
	case Quoted:
		return "quoted"
	default:
		return "unknown"
	}
}

// Token is one lexical element. For Quoted tokens Text holds the content
// between the quotes; Pos is the byte offset of the token in the input.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

// Is reports whether the token is a word equal to kw, ignoring case.
func (t Token) Is(kw string) bool {
	return t.Kind == Word && strings.EqualFold(t.Text, kw)
}

// Tokenize splits ACI text into tokens in a single left-to-right pass.
// It never fails: an unterminated quoted string ends the stream.
func Tokenize(text string) []Token {
	var tokens []Token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			tokens = append(tokens, Token{Kind: LParen, Text: "(", Pos: i})
			i++
		case r == ')':
			tokens = append(tokens, Token{Kind: RParen, Text: ")", Pos: i})
			i++
		case r == ';':
			tokens = append(tokens, Token{Kind: Semicolon, Text: ";", Pos: i})
			i++
		case r == ',':
			tokens = append(tokens, Token{Kind: Comma, Text: ",", Pos: i})
			i++
		case r == '=':
			tokens = append(tokens, Token{Kind: Equals, Text: "=", Pos: i})
			i++
		case r == '!' && strings.HasPrefix(text[i:], "!="):
			tokens = append(tokens, Token{Kind: NotEquals, Text: "!=", Pos: i})
			i += 2
		case r == '<' || r == '>':
			op := text[i : i+1]
			if strings.HasPrefix(text[i+1:], "=") {
				op = text[i : i+2]
			}
			tokens = append(tokens, Token{Kind: Operator, Text: op, Pos: i})
			i += len(op)
		case r == '"':
			end, ok := closingQuote(text, i+1)
			if !ok {
				return tokens
			}
			tokens = append(tokens, Token{Kind: Quoted, Text: text[i+1 : end], Pos: i})
			i = end + 1
		default:
			start := i
			for i < len(text) {
				r, size = utf8.DecodeRuneInString(text[i:])
				if unicode.IsSpace(r) || isDelimiter(r) {
					break
				}
				i += size
			}
			if i == start {
				// a lone '!' that does not start "!="
				i += size
			}
			tokens = append(tokens, Token{Kind: Word, Text: text[start:i], Pos: start})
		}
	}
	return tokens
}

func isDelimiter(r rune) bool {
	switch r {
	case '(', ')', ';', ',', '=', '"', '<', '>', '!':
		return true
	}
	return false
}

// closingQuote returns the index of the first unescaped '"' at or after from.
func closingQuote(text string, from int) (int, bool) {
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i, true
		}
	}
	return 0, false
}
