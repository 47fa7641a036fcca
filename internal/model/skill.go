package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Skill level bounds.
const (
	MinSkillLevel = 0
	MaxSkillLevel = 100
)

// SkillLevel is a percentage in [0,100], or empty while the user is still
// typing. Every way of producing a SkillLevel clamps, so an out-of-range
// level can never be stored.
type SkillLevel struct {
	value int
	set   bool
}

// NewSkillLevel returns a level clamped to [0,100].
func NewSkillLevel(n int) SkillLevel {
	return SkillLevel{value: clampLevel(n), set: true}
}

// ParseSkillLevel converts raw form input:
//
//	""    → empty (kept empty, not coerced to 0)
//	"150" → 100
//	"-5"  → 0
//	"abc" → 0
func ParseSkillLevel(input string) SkillLevel {
	s := strings.TrimSpace(input)
	if s == "" {
		return SkillLevel{}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Partial numbers like "42.5" keep their integer part; numbers
		// beyond the int range still clamp to the nearest bound.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil && !errors.Is(ferr, strconv.ErrRange) {
			return NewSkillLevel(0)
		}
		return levelFromFloat(f)
	}
	return NewSkillLevel(n)
}

// Value returns the level and whether one is set.
func (l SkillLevel) Value() (int, bool) { return l.value, l.set }

// IsEmpty reports whether no level was entered.
func (l SkillLevel) IsEmpty() bool { return !l.set }

// Percent renders the level as "80%", or "" when empty.
func (l SkillLevel) Percent() string {
	if !l.set {
		return ""
	}
	return fmt.Sprintf("%d%%", l.value)
}

func (l SkillLevel) MarshalJSON() ([]byte, error) {
	if !l.set {
		return []byte(`""`), nil
	}
	return []byte(strconv.Itoa(l.value)), nil
}

// UnmarshalJSON accepts a number, a numeric string or null.
func (l *SkillLevel) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*l = SkillLevel{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("skill level: %w", err)
		}
		*l = ParseSkillLevel(str)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("skill level: %w", err)
	}
	*l = levelFromFloat(f)
	return nil
}

// levelFromFloat clamps before converting; NaN is treated as 0.
func levelFromFloat(f float64) SkillLevel {
	if math.IsNaN(f) {
		return NewSkillLevel(0)
	}
	f = math.Max(MinSkillLevel, math.Min(MaxSkillLevel, f))
	return NewSkillLevel(int(f))
}

func clampLevel(n int) int {
	return max(MinSkillLevel, min(MaxSkillLevel, n))
}
