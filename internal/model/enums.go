package model

import (
	"encoding/json"
	"strings"
)

// Gender is the closed set of gender options offered by the form.
// The empty value means "not chosen yet".
type Gender string

const (
	GenderMale           Gender = "Male"
	GenderFemale         Gender = "Female"
	GenderOther          Gender = "Other"
	GenderPreferNotToSay Gender = "PreferNotToSay"
)

// Valid reports whether g is one of the known options.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// Label is the text shown on a rendered page.
func (g Gender) Label() string {
	if g == GenderPreferNotToSay {
		return "Prefer not to say"
	}
	return string(g)
}

// UnmarshalText accepts the display labels older form versions submitted
// ("Prefer not to say") as well as the canonical values.
func (g *Gender) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.EqualFold(s, "Prefer not to say") {
		s = string(GenderPreferNotToSay)
	}
	*g = Gender(s)
	return nil
}

// ExperienceLevel is how long the person has worked professionally.
type ExperienceLevel string

const (
	ExperienceFresher ExperienceLevel = "Fresher"
	Experience1Year   ExperienceLevel = "1yr"
	Experience2Years  ExperienceLevel = "2yr"
	Experience3Plus   ExperienceLevel = "3plus"
)

var experienceAliases = map[string]ExperienceLevel{
	"1 year":    Experience1Year,
	"2 years":   Experience2Years,
	"3+ years":  Experience3Plus,
	"3 + years": Experience3Plus,
}

func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceFresher, Experience1Year, Experience2Years, Experience3Plus:
		return true
	}
	return false
}

func (e ExperienceLevel) Label() string {
	switch e {
	case Experience1Year:
		return "1 year"
	case Experience2Years:
		return "2 years"
	case Experience3Plus:
		return "3+ years"
	}
	return string(e)
}

func (e *ExperienceLevel) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if alias, ok := experienceAliases[strings.ToLower(s)]; ok {
		*e = alias
		return nil
	}
	*e = ExperienceLevel(s)
	return nil
}

// TriState is a boolean that can also be unset.
//
// freelanceAvailable starts out unset on a fresh form; "not chosen" must stay
// distinguishable from an explicit "No", so a plain bool is not enough.
// JSON null (or an absent key) decodes to unset.
type TriState struct {
	v *bool
}

// Unset is the zero TriState.
var Unset = TriState{}

// NewTriState returns a TriState holding b.
func NewTriState(b bool) TriState {
	return TriState{v: &b}
}

// IsSet reports whether a value was chosen.
func (t TriState) IsSet() bool { return t.v != nil }

// Get returns the value and whether it was set.
func (t TriState) Get() (value, ok bool) {
	if t.v == nil {
		return false, false
	}
	return *t.v, true
}

// True reports whether the value is set and true.
func (t TriState) True() bool { return t.v != nil && *t.v }

func (t TriState) MarshalJSON() ([]byte, error) {
	if t.v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*t.v)
}

// UnmarshalJSON accepts true/false/null and the strings "true"/"false"/"",
// which is what a <select> bound straight to the record sends.
func (t *TriState) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch s {
	case "null", `""`:
		t.v = nil
		return nil
	case "true", `"true"`:
		v := true
		t.v = &v
		return nil
	case "false", `"false"`:
		v := false
		t.v = &v
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	t.v = &v
	return nil
}
