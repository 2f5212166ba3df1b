package lexer

import (
	"fmt"
	"io"
	"regexp"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/diagnostics"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/tokens"
)

type regexHandler func(lex *Lexer, regex *regexp.Regexp)

type regexPattern struct {
	regex   *regexp.Regexp
	handler regexHandler
}

type Lexer struct {
	diagnostics *diagnostics.DiagnosticBag
	Tokens      []tokens.Token
	Position    source.Position
	sourceCode  string
	FilePath    string
}

// patterns are tried in order; longer operators must come before their prefixes.
var patterns = []regexPattern{
	{regexp.MustCompile(`^\s+`), skipHandler},                  // whitespace
	{regexp.MustCompile(`^//.*`), skipHandler},                 // single line comments
	{regexp.MustCompile(`^/\*[\s\S]*?\*/`), skipHandler},       // multi line comments
	{regexp.MustCompile(`^/\*`), unterminatedCommentHandler},   // comment without end
	{regexp.MustCompile(`^"(\\.|[^"\\\n])*"`), stringHandler},  // string literals
	{regexp.MustCompile(`^"`), unterminatedStringHandler},      // string without end
	{regexp.MustCompile(`^'(\\.|[^'\\])'`), charHandler},       // char literals
	{regexp.MustCompile(`^[0-9]+(\.[0-9]+)?`), numberHandler},  // numbers
	{regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`), identifierHandler},
	{regexp.MustCompile(`^\+\+`), defaultHandler(tokens.PLUS_PLUS_TOKEN)},
	{regexp.MustCompile(`^--`), defaultHandler(tokens.MINUS_MINUS_TOKEN)},
	{regexp.MustCompile(`^\+=`), defaultHandler(tokens.PLUS_EQUALS_TOKEN)},
	{regexp.MustCompile(`^-=`), defaultHandler(tokens.MINUS_EQUALS_TOKEN)},
	{regexp.MustCompile(`^\*=`), defaultHandler(tokens.MUL_EQUALS_TOKEN)},
	{regexp.MustCompile(`^/=`), defaultHandler(tokens.DIV_EQUALS_TOKEN)},
	{regexp.MustCompile(`^%=`), defaultHandler(tokens.MOD_EQUALS_TOKEN)},
	{regexp.MustCompile(`^&&`), defaultHandler(tokens.AND_TOKEN)},
	{regexp.MustCompile(`^\|\|`), defaultHandler(tokens.OR_TOKEN)},
	{regexp.MustCompile(`^==`), defaultHandler(tokens.DOUBLE_EQUAL_TOKEN)},
	{regexp.MustCompile(`^!=`), defaultHandler(tokens.NOT_EQUAL_TOKEN)},
	{regexp.MustCompile(`^<<`), defaultHandler(tokens.SHL_TOKEN)},
	{regexp.MustCompile(`^>>`), defaultHandler(tokens.SHR_TOKEN)},
	{regexp.MustCompile(`^<=`), defaultHandler(tokens.LESS_EQUAL_TOKEN)},
	{regexp.MustCompile(`^>=`), defaultHandler(tokens.GREATER_EQUAL_TOKEN)},
	{regexp.MustCompile(`^<`), defaultHandler(tokens.LESS_TOKEN)},
	{regexp.MustCompile(`^>`), defaultHandler(tokens.GREATER_TOKEN)},
	{regexp.MustCompile(`^=`), defaultHandler(tokens.EQUALS_TOKEN)},
	{regexp.MustCompile(`^!`), defaultHandler(tokens.NOT_TOKEN)},
	{regexp.MustCompile(`^&`), defaultHandler(tokens.BIT_AND_TOKEN)},
	{regexp.MustCompile(`^\|`), defaultHandler(tokens.BIT_OR_TOKEN)},
	{regexp.MustCompile(`^\^`), defaultHandler(tokens.BIT_XOR_TOKEN)},
	{regexp.MustCompile(`^\+`), defaultHandler(tokens.PLUS_TOKEN)},
	{regexp.MustCompile(`^-`), defaultHandler(tokens.MINUS_TOKEN)},
	{regexp.MustCompile(`^\*`), defaultHandler(tokens.MUL_TOKEN)},
	{regexp.MustCompile(`^/`), defaultHandler(tokens.DIV_TOKEN)},
	{regexp.MustCompile(`^%`), defaultHandler(tokens.MOD_TOKEN)},
	{regexp.MustCompile(`^\(`), defaultHandler(tokens.OPEN_PAREN)},
	{regexp.MustCompile(`^\)`), defaultHandler(tokens.CLOSE_PAREN)},
	{regexp.MustCompile(`^\{`), defaultHandler(tokens.OPEN_CURLY)},
	{regexp.MustCompile(`^\}`), defaultHandler(tokens.CLOSE_CURLY)},
	{regexp.MustCompile(`^,`), defaultHandler(tokens.COMMA_TOKEN)},
	{regexp.MustCompile(`^;`), defaultHandler(tokens.SEMICOLON_TOKEN)},
}

func New(filepath, content string, diag *diagnostics.DiagnosticBag) *Lexer {
	return &Lexer{
		sourceCode: content,
		Tokens:     make([]tokens.Token, 0),
		Position: source.Position{
			Line:   1,
			Column: 1,
			Index:  0,
		},
		diagnostics: diag,
		FilePath:    filepath,
	}
}

func (lex *Lexer) advance(match string) {
	lex.Position.Advance(match)
}

func (lex *Lexer) push(token tokens.Token) {
	lex.Tokens = append(lex.Tokens, token)
}

func (lex *Lexer) remainder() string {
	return lex.sourceCode[lex.Position.Index:]
}

func (lex *Lexer) atEOF() bool {
	return lex.Position.Index >= len(lex.sourceCode)
}

func (lex *Lexer) emit(kind tokens.TOKEN, value, match string) {
	start := lex.Position
	lex.advance(match)
	lex.push(tokens.NewToken(kind, value, start, lex.Position))
}

func defaultHandler(token tokens.TOKEN) regexHandler {
	return func(lex *Lexer, _ *regexp.Regexp) {
		lex.emit(token, string(token), string(token))
	}
}

func identifierHandler(lex *Lexer, regex *regexp.Regexp) {
	identifier := regex.FindString(lex.remainder())
	if tokens.IsKeyword(identifier) {
		lex.emit(tokens.TOKEN(identifier), identifier, identifier)
		return
	}
	lex.emit(tokens.IDENTIFIER_TOKEN, identifier, identifier)
}

func numberHandler(lex *Lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	lex.emit(tokens.NUMBER_TOKEN, match, match)
}

func stringHandler(lex *Lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	//exclude the quotes
	lex.emit(tokens.STRING_TOKEN, match[1:len(match)-1], match)
}

func charHandler(lex *Lexer, regex *regexp.Regexp) {
	match := regex.FindString(lex.remainder())
	lex.emit(tokens.CHAR_LIT, match[1:len(match)-1], match)
}

// skipHandler processes a token that should be skipped by the lexer.
func skipHandler(lex *Lexer, regex *regexp.Regexp) {
	lex.advance(regex.FindString(lex.remainder()))
}

func unterminatedStringHandler(lex *Lexer, _ *regexp.Regexp) {
	lex.fail(diagnostics.ErrUnterminatedString, "unterminated string literal", lex.remainder())
}

func unterminatedCommentHandler(lex *Lexer, _ *regexp.Regexp) {
	lex.fail(diagnostics.ErrUnterminatedComment, "unterminated block comment", lex.remainder())
}

// fail reports an error at the current position and skips over rest.
func (lex *Lexer) fail(code, msg, rest string) {
	start := lex.Position
	end := start
	end.Column++
	lex.diagnostics.Add(
		diagnostics.NewError(msg).
			WithCode(code).
			WithPrimaryLabel(source.NewLocation(lex.FilePath, start, end), ""),
	)
	lex.advance(rest)
}

// Tokenize converts the whole source into tokens, always ending with EOF.
// Unknown characters are reported and skipped so that later errors are still found.
func (lex *Lexer) Tokenize(debug io.Writer) []tokens.Token {
	for !lex.atEOF() {
		matched := false
		for _, pattern := range patterns {
			if pattern.regex.MatchString(lex.remainder()) {
				pattern.handler(lex, pattern.regex)
				matched = true
				break
			}
		}

		if !matched {
			tok := []rune(lex.remainder())[0]
			lex.fail(diagnostics.ErrUnexpectedCharacter, fmt.Sprintf("unrecognized character '%c'", tok), string(tok))
		}
	}

	lex.push(tokens.NewToken(tokens.EOF_TOKEN, "end of file", lex.Position, lex.Position))

	if debug != nil {
		for _, token := range lex.Tokens {
			token.Debug(debug, lex.FilePath)
		}
	}

	return lex.Tokens
}
