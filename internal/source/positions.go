package source

// Position is a point in a source file. Line and Column are 1-based, Index is a byte offset.
type Position struct {
	Line   int
	Column int
	Index  int
}

// Advance moves the position over the bytes of toSkip, starting a new line on '\n'.
// Tabs count as 4 columns.
func (p *Position) Advance(toSkip string) *Position {
	for _, char := range toSkip {
		switch char {
		case '\n':
			p.Line++
			p.Column = 1
		case '\t':
			p.Column += 4
		default:
			p.Column++
		}
		p.Index += len(string(char))
	}
	return p
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}
