package repeat

import (
	"fmt"
	"strings"
)

// Level selects the repetition granularity.
type Level string

const (
	LevelLine  Level = "line"
	LevelBlock Level = "block"
)

// ParseLevel validates a user-supplied level name.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelLine, LevelBlock:
		return Level(s), nil
	default:
		return "", fmt.Errorf("invalid level: %s", s)
	}
}

// Repeat duplicates text at the requested level.
func Repeat(lines []string, level Level, count int) ([]string, error) {
	switch level {
	case LevelLine:
		return Lines(lines, count), nil
	case LevelBlock:
		return Blocks(lines, count), nil
	default:
		return nil, fmt.Errorf("invalid level: %s", level)
	}
}

// Lines repeats each non-blank line count times, closing every group with
// one empty line. Lines are trimmed first; blank ones drop out.
func Lines(lines []string, count int) []string {
	out := make([]string, 0, len(lines)*(count+1))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for i := 0; i < count; i++ {
			out = append(out, line)
		}
		out = append(out, "")
	}
	return out
}

// Blocks repeats whole blocks of consecutive non-blank lines count times
// each, closing every block with one empty line.
//
// For ["a", "b", "", "c"] and count 2 the result is
// ["a", "b", "a", "b", "", "c", "c", ""].
func Blocks(lines []string, count int) []string {
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimSpace(line)
	}

	out := make([]string, 0, len(lines)*(count+1))
	start := 0
	for start < len(trimmed) {
		if trimmed[start] == "" {
			start++
			continue
		}

		end := start + 1
		for end < len(trimmed) && trimmed[end] != "" {
			end++
		}

		for i := 0; i < count; i++ {
			out = append(out, trimmed[start:end]...)
		}
		out = append(out, "")
		start = end + 1
	}
	return out
}
