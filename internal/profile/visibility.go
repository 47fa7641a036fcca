// Package profile answers questions about a single ProfileRecord: which
// optional sections have enough data to show, whether it is complete enough
// to submit, and how its raw values (dates, links) should be displayed.
//
// Everything here is a pure function of the record. A nil record, or a
// record with missing optional fields, is never an error: absent data simply
// means "not visible".
package profile

import (
	"strings"

	"github.com/sakif/genfolio/internal/model"
)

// SectionKey names one block of a rendered portfolio page.
type SectionKey string

const (
	SectionHome           SectionKey = "home"
	SectionAbout          SectionKey = "about"
	SectionEducation      SectionKey = "education"
	SectionSkills         SectionKey = "skills"
	SectionExperience     SectionKey = "experience"
	SectionProjects       SectionKey = "projects"
	SectionCertifications SectionKey = "certifications"
	SectionContact        SectionKey = "contact"
)

// Policy holds the per-template knobs of the visibility rules.
type Policy struct {
	// ContactThreshold is how many contact methods must be filled in before
	// the contact section shows. Values below 1 behave as 1.
	ContactThreshold int
}

// DefaultPolicy shows the contact section as soon as one method is present.
var DefaultPolicy = Policy{ContactThreshold: 1}

func (p Policy) contactThreshold() int {
	return max(1, p.ContactThreshold)
}

// IsSectionVisible reports whether the section identified by key has enough
// data in p to be displayed. Unknown keys are never visible; home always is.
func IsSectionVisible(p *model.ProfileRecord, key SectionKey, policy Policy) bool {
	if key == SectionHome {
		return true
	}
	if p == nil {
		return false
	}

	switch key {
	case SectionAbout:
		return notBlank(p.Tagline) || notBlank(string(p.ExperienceLevel)) || notBlank(p.Bio)
	case SectionEducation:
		return len(CompleteEducation(p.Education)) > 0
	case SectionSkills:
		return len(p.TechnicalSkills) > 0 || len(p.ProfessionalSkills) > 0
	case SectionExperience:
		return len(p.WorkExperience) > 0
	case SectionProjects:
		return len(p.Projects) > 0
	case SectionCertifications:
		return len(p.Certifications) > 0
	case SectionContact:
		return len(ContactMethods(p)) >= policy.contactThreshold()
	}
	return false
}

// ContactKind identifies one way of reaching the profile owner.
type ContactKind string

const (
	ContactEmail    ContactKind = "email"
	ContactPhone    ContactKind = "phone"
	ContactLinkedIn ContactKind = "linkedin"
	ContactGitHub   ContactKind = "github"
	ContactLocation ContactKind = "location"
	ContactResume   ContactKind = "resume"
)

// ContactMethod is one populated contact field.
type ContactMethod struct {
	Kind  ContactKind
	Value string
}

// ContactMethods returns the populated contact fields of p in display order:
// email, phone, linkedin, github, location, resume.
func ContactMethods(p *model.ProfileRecord) []ContactMethod {
	if p == nil {
		return nil
	}
	candidates := []ContactMethod{
		{ContactEmail, p.Email},
		{ContactPhone, p.Phone},
		{ContactLinkedIn, p.LinkedIn},
		{ContactGitHub, p.GitHub},
		{ContactLocation, p.Location},
		{ContactResume, p.Resume},
	}

	var out []ContactMethod
	for _, c := range candidates {
		if v := strings.TrimSpace(c.Value); v != "" {
			out = append(out, ContactMethod{Kind: c.Kind, Value: v})
		}
	}
	return out
}

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
