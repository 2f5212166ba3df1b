package tokens

import (
	"fmt"
	"io"

	"github.com/epoll-reactor/weak-compiler-sub000/colors"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
)

type TOKEN string

const (
	//keywords
	IF_TOKEN       TOKEN = "if"
	ELSE_TOKEN     TOKEN = "else"
	FOR_TOKEN      TOKEN = "for"
	WHILE_TOKEN    TOKEN = "while"
	DO_TOKEN       TOKEN = "do"
	RETURN_TOKEN   TOKEN = "return"
	BREAK_TOKEN    TOKEN = "break"
	CONTINUE_TOKEN TOKEN = "continue"
	TRUE_TOKEN     TOKEN = "true"
	FALSE_TOKEN    TOKEN = "false"
	//builtin types
	INT_TOKEN   TOKEN = "int"
	FLOAT_TOKEN TOKEN = "float"
	CHAR_TOKEN  TOKEN = "char"
	BOOL_TOKEN  TOKEN = "bool"
	VOID_TOKEN  TOKEN = "void"

	IDENTIFIER_TOKEN TOKEN = "identifier"
	//literals
	NUMBER_TOKEN TOKEN = "numeric literal"
	STRING_TOKEN TOKEN = "string literal"
	CHAR_LIT     TOKEN = "char literal"
	//increment and decrement
	PLUS_PLUS_TOKEN   TOKEN = "++"
	MINUS_MINUS_TOKEN TOKEN = "--"
	//logical operators
	AND_TOKEN TOKEN = "&&"
	OR_TOKEN  TOKEN = "||"
	NOT_TOKEN TOKEN = "!"
	//bitwise operators
	BIT_AND_TOKEN TOKEN = "&"
	BIT_OR_TOKEN  TOKEN = "|"
	BIT_XOR_TOKEN TOKEN = "^"
	SHL_TOKEN     TOKEN = "<<"
	SHR_TOKEN     TOKEN = ">>"
	//arithmetic operators
	MINUS_TOKEN TOKEN = "-"
	PLUS_TOKEN  TOKEN = "+"
	MUL_TOKEN   TOKEN = "*"
	DIV_TOKEN   TOKEN = "/"
	MOD_TOKEN   TOKEN = "%"
	//comparison operators
	LESS_EQUAL_TOKEN    TOKEN = "<="
	GREATER_EQUAL_TOKEN TOKEN = ">="
	NOT_EQUAL_TOKEN     TOKEN = "!="
	DOUBLE_EQUAL_TOKEN  TOKEN = "=="
	LESS_TOKEN          TOKEN = "<"
	GREATER_TOKEN       TOKEN = ">"
	//assignment
	EQUALS_TOKEN       TOKEN = "="
	PLUS_EQUALS_TOKEN  TOKEN = "+="
	MINUS_EQUALS_TOKEN TOKEN = "-="
	MUL_EQUALS_TOKEN   TOKEN = "*="
	DIV_EQUALS_TOKEN   TOKEN = "/="
	MOD_EQUALS_TOKEN   TOKEN = "%="
	//delimiters
	OPEN_PAREN      TOKEN = "("
	CLOSE_PAREN     TOKEN = ")"
	OPEN_CURLY      TOKEN = "{"
	CLOSE_CURLY     TOKEN = "}"
	COMMA_TOKEN     TOKEN = ","
	SEMICOLON_TOKEN TOKEN = ";"

	EOF_TOKEN TOKEN = "end_of_file"
)

var keyWordsMap = map[TOKEN]bool{
	IF_TOKEN:       true,
	ELSE_TOKEN:     true,
	FOR_TOKEN:      true,
	WHILE_TOKEN:    true,
	DO_TOKEN:       true,
	RETURN_TOKEN:   true,
	BREAK_TOKEN:    true,
	CONTINUE_TOKEN: true,
	TRUE_TOKEN:     true,
	FALSE_TOKEN:    true,
	INT_TOKEN:      true,
	FLOAT_TOKEN:    true,
	CHAR_TOKEN:     true,
	BOOL_TOKEN:     true,
	VOID_TOKEN:     true,
}

var builtinTypes = map[TOKEN]bool{
	INT_TOKEN:   true,
	FLOAT_TOKEN: true,
	CHAR_TOKEN:  true,
	BOOL_TOKEN:  true,
	VOID_TOKEN:  true,
}

// compoundOps maps an op-assign token to the binary operator it applies.
var compoundOps = map[TOKEN]TOKEN{
	PLUS_EQUALS_TOKEN:  PLUS_TOKEN,
	MINUS_EQUALS_TOKEN: MINUS_TOKEN,
	MUL_EQUALS_TOKEN:   MUL_TOKEN,
	DIV_EQUALS_TOKEN:   DIV_TOKEN,
	MOD_EQUALS_TOKEN:   MOD_TOKEN,
}

func IsKeyword(token string) bool {
	return keyWordsMap[TOKEN(token)]
}

// IsType reports whether kind names a builtin type.
func IsType(kind TOKEN) bool {
	return builtinTypes[kind]
}

// CompoundOp returns the binary operator behind an op-assign token such as "+=".
func CompoundOp(kind TOKEN) (TOKEN, bool) {
	op, ok := compoundOps[kind]
	return op, ok
}

// Token is a lexeme with its kind and span.
type Token struct {
	Value string
	Kind  TOKEN
	Start source.Position
	End   source.Position
}

func NewToken(kind TOKEN, value string, start source.Position, end source.Position) Token {
	return Token{
		Value: value,
		Kind:  kind,
		Start: start,
		End:   end,
	}
}

// Debug prints the token on w.
func (t *Token) Debug(w io.Writer, filename string) {
	if t.Value == string(t.Kind) {
		fmt.Fprintf(w, "%s:%d:%d ", filename, t.Start.Line, t.Start.Column)
		colors.BLUE.Fprintf(w, "'%s'\n", t.Value)
		return
	}
	fmt.Fprintf(w, "%s:%d:%d ", filename, t.Start.Line, t.Start.Column)
	colors.YELLOW.Fprintf(w, "'%s' ", t.Value)
	colors.GREY.Fprintf(w, "(%v)\n", t.Kind)
}
