package controller

import (
	"fmt"
	"strings"
)

// Mode selects which procedure the loop runs. It is chosen once at startup.
type Mode int

const (
	UserInput Mode = iota
	FixedDemo
	Sweep
)

var modeNames = map[Mode]string{
	UserInput: "user-input",
	FixedDemo: "fixed-demo",
	Sweep:     "sweep",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("unknown mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	mode, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ParseMode accepts the mode names case-insensitively, with either dashes or
// underscores.
func ParseMode(s string) (Mode, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch key {
	case "user-input", "input", "userinput":
		return UserInput, nil
	case "fixed-demo", "demo", "fixeddemo":
		return FixedDemo, nil
	case "sweep":
		return Sweep, nil
	default:
		return 0, fmt.Errorf("unknown mode: %s", s)
	}
}
