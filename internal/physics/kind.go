package physics

import (
	"fmt"
	"strings"
)

// Kind classifies a body. It decides which collection a body joins and how
// it is initialised, never how it moves.
type Kind uint8

const (
	Star Kind = iota
	Planet
	Moon
	Asteroid
	Comet
	BlackHole
)

var kindNames = [...]string{
	Star:      "star",
	Planet:    "planet",
	Moon:      "moon",
	Asteroid:  "asteroid",
	Comet:     "comet",
	BlackHole: "black_hole",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsAnchor reports whether bodies of this kind belong to the fully
// interacting anchor set.
func (k Kind) IsAnchor() bool {
	switch k {
	case Star, Planet, Moon, BlackHole:
		return true
	}
	return false
}

// ParseKind accepts the names produced by String, case-insensitively.
// "black hole" and "blackhole" are accepted for BlackHole.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "black hole", "blackhole":
		return BlackHole, nil
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
