// Package section turns a profile record into the ordered list of page
// sections a template renders, and keeps track of which of them the reader
// is currently looking at.
//
// Every template shares this package. Templates differ only in markup, so
// the visibility rules, the navigation offsets and the scroll tracking live
// here exactly once.
package section

import (
	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/profile"
)

// Key identifies a section. It is the same type the visibility rules use.
type Key = profile.SectionKey

// Descriptor is one declared page section.
type Descriptor struct {
	Key    Key    `json:"key"`
	Label  string `json:"label"`
	Anchor string `json:"anchor"` // element id, used as "#anchor"
}

// DefaultCatalog returns the fixed, ordered list of sections every template
// declares. A fresh slice is returned on each call.
func DefaultCatalog() []Descriptor {
	return []Descriptor{
		{Key: profile.SectionHome, Label: "Home", Anchor: "home"},
		{Key: profile.SectionAbout, Label: "About", Anchor: "about"},
		{Key: profile.SectionEducation, Label: "Education", Anchor: "education"},
		{Key: profile.SectionSkills, Label: "Skills", Anchor: "skills"},
		{Key: profile.SectionExperience, Label: "Experience", Anchor: "experience"},
		{Key: profile.SectionProjects, Label: "Projects", Anchor: "projects"},
		{Key: profile.SectionCertifications, Label: "Certifications", Anchor: "certifications"},
		{Key: profile.SectionContact, Label: "Contact", Anchor: "contact"},
	}
}

// Presenter filters a section catalog against a record.
type Presenter struct {
	Catalog []Descriptor
	Policy  profile.Policy
}

// NewPresenter returns a Presenter over the default catalog.
func NewPresenter(policy profile.Policy) *Presenter {
	return &Presenter{Catalog: DefaultCatalog(), Policy: policy}
}

// VisibleSections returns the catalog entries whose data is displayable, in
// catalog order. The result is always a subsequence of the catalog; home is
// kept even for a nil record.
func (p *Presenter) VisibleSections(record *model.ProfileRecord) []Descriptor {
	out := make([]Descriptor, 0, len(p.Catalog))
	for _, d := range p.Catalog {
		if profile.IsSectionVisible(record, d.Key, p.Policy) {
			out = append(out, d)
		}
	}
	return out
}

// Keys returns the keys of ds in order.
func Keys(ds []Descriptor) []Key {
	keys := make([]Key, len(ds))
	for i, d := range ds {
		keys[i] = d.Key
	}
	return keys
}

func indexOf(ds []Descriptor, key Key) int {
	for i, d := range ds {
		if d.Key == key {
			return i
		}
	}
	return -1
}
