package format

import (
	"fmt"
	"strings"
)

// Mode selects whether an operation keeps or removes its source.
type Mode int

const (
	Copy Mode = iota
	Move
)

func (m Mode) String() string {
	switch m {
	case Copy:
		return "Copy"
	case Move:
		return "Move"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "copy" or "move" (any case) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "copy", "":
		return Copy, nil
	case "move":
		return Move, nil
	default:
		return 0, fmt.Errorf("unknown mode '%s': expected copy or move", s)
	}
}
