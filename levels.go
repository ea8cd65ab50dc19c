package sharedlog

import (
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrUnknownLevel is returned when a level name is not one of error, warn, info or debug.
var ErrUnknownLevel = stderrs.New("unknown log level")

// Level is a severity name. Lower rank means more severe.
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

const (
	colorRed    = 31
	colorGreen  = 32
	colorYellow = 33
)

type levelDef struct {
	level Level
	rank  int
	color int // 0 renders in the terminal default
	zl    zerolog.Level
}

// levelTable is ordered by rank and never mutated.
var levelTable = [...]levelDef{
	{level: LevelError, rank: 0, color: colorRed, zl: zerolog.ErrorLevel},
	{level: LevelWarn, rank: 1, color: colorYellow, zl: zerolog.WarnLevel},
	{level: LevelInfo, rank: 2, color: colorGreen, zl: zerolog.InfoLevel},
	{level: LevelDebug, rank: 3, zl: zerolog.DebugLevel},
}

// Levels returns the recognised levels, most severe first.
func Levels() []Level {
	out := make([]Level, 0, len(levelTable))
	for _, def := range levelTable {
		out = append(out, def.level)
	}
	return out
}

// ParseLevel parses a level name case-insensitively.
func ParseLevel(s string) (Level, error) {
	name := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := lookupLevel(name); !ok {
		return emptyString, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return name, nil
}

func lookupLevel(l Level) (levelDef, bool) {
	for _, def := range levelTable {
		if def.level == l {
			return def, true
		}
	}
	return levelDef{}, false
}

// Rank returns the numeric rank of l, or -1 if l is not recognised.
func (l Level) Rank() int {
	def, ok := lookupLevel(l)
	if !ok {
		return -1
	}
	return def.rank
}

// Enabled reports whether a record at level r passes a logger configured at l.
func (l Level) Enabled(r Level) bool {
	rr := r.Rank()
	return rr >= 0 && rr <= l.Rank()
}

// Color returns the ANSI colour code for l, 0 when the level is uncoloured.
func (l Level) Color() int {
	def, _ := lookupLevel(l)
	return def.color
}

func (l Level) String() string { return string(l) }

func (l Level) zerolog() zerolog.Level {
	def, ok := lookupLevel(l)
	if !ok {
		return zerolog.NoLevel
	}
	return def.zl
}

// levelFromName maps the level string zerolog writes into records back onto the table.
func levelFromName(name string) (Level, bool) {
	zl, err := zerolog.ParseLevel(name)
	if err != nil {
		return emptyString, false
	}
	for _, def := range levelTable {
		if def.zl == zl {
			return def.level, true
		}
	}
	return emptyString, false
}

func colorize(s string, color int, disabled bool) string {
	if disabled || color == 0 {
		return s
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, s)
}
