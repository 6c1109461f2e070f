package stress

import "fmt"

// Mode selects the resource a run consumes.
type Mode string

// Supported stress modes.
const (
	ModeMemory Mode = "memory"
	ModeCPU    Mode = "cpu"
)

// Modes lists the names of all supported modes.
func Modes() []string {
	return []string{string(ModeMemory), string(ModeCPU)}
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMemory, ModeCPU:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid stress type %q, choose from %v",
			s, Modes())
	}
}
