package diagnostics

// Error codes for the weak compiler
const (
	// Lexer errors (L prefix)
	ErrUnexpectedCharacter = "L0001"
	ErrUnterminatedString  = "L0002"
	ErrUnterminatedComment = "L0003"

	// Parser errors (P prefix)
	ErrUnexpectedToken   = "P0001"
	ErrExpectedToken     = "P0002"
	ErrInvalidExpression = "P0003"
	ErrInvalidStatement  = "P0004"
	ErrMissingIdentifier = "P0005"
	ErrMissingType       = "P0006"
	ErrInvalidAssignment = "P0007"

	// Control flow errors (C prefix)
	ErrBreakOutsideLoop    = "C0001"
	ErrContinueOutsideLoop = "C0002"
	ErrDuplicateFunction   = "C0003"

	// Name resolution errors (N prefix)
	ErrUndeclaredVariable = "N0001"
	ErrRedeclaredVariable = "N0002"
	ErrUnassignedVariable = "N0003"

	// Warnings (W prefix)
	WarnUnreachableCode = "W0001"
)
