package grid

import (
	"fmt"
	"strings"
)

var flagNames = map[string]Flags{
	"walkable":  FlagWalkable,
	"blocked":   FlagBlocked,
	"stairs":    FlagStairs,
	"door":      FlagDoor,
	"one_way_n": FlagOneWayN,
	"one_way_e": FlagOneWayE,
	"one_way_s": FlagOneWayS,
	"one_way_w": FlagOneWayW,
}

// ParseFlags ORs together named flags. Names are case-insensitive:
// walkable, blocked, stairs, door, one_way_n/e/s/w and tag0..tag7.
func ParseFlags(names ...string) (Flags, error) {
	var out Flags
	for _, name := range names {
		f, err := parseFlag(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return 0, err
		}
		out |= f
	}
	return out, nil
}

func parseFlag(name string) (Flags, error) {
	if f, ok := flagNames[name]; ok {
		return f, nil
	}
	if len(name) == 4 && strings.HasPrefix(name, "tag") && name[3] >= '0' && name[3] <= '7' {
		return FlagTag0 << (name[3] - '0'), nil
	}
	return 0, fmt.Errorf("parse flag %q: %w", name, ErrUnknownFlag)
}
