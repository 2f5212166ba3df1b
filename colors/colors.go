package colors

import "sync/atomic"

// COLOR is an ANSI escape sequence.
type COLOR string

const (
	RESET COLOR = "\033[0m"
	BOLD  COLOR = "\033[1m"

	RED     COLOR = "\033[31m"
	GREEN   COLOR = "\033[32m"
	YELLOW  COLOR = "\033[33m"
	BLUE    COLOR = "\033[34m"
	PURPLE  COLOR = "\033[35m"
	CYAN    COLOR = "\033[36m"
	WHITE   COLOR = "\033[37m"
	GREY    COLOR = "\033[90m"
	BOLDRED COLOR = "\033[1;31m"

	BOLDYELLOW COLOR = "\033[1;33m"
	BOLDBLUE   COLOR = "\033[1;34m"
	BOLDGREEN  COLOR = "\033[1;32m"
	ORANGE     COLOR = "\033[38;5;208m"
)

var enabled atomic.Bool

func init() {
	enabled.Store(true)
}

// SetEnabled turns escape sequences on or off for every printer in this package.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled reports whether escape sequences are currently emitted.
func Enabled() bool {
	return enabled.Load()
}

func (c COLOR) open() string {
	if !enabled.Load() {
		return ""
	}
	return string(c)
}

func (c COLOR) close() string {
	if !enabled.Load() {
		return ""
	}
	return string(RESET)
}
