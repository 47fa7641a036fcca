// Package model defines the data structures used throughout the application.
//
// ProfileRecord is the single entity of the system: everything a user types
// into the portfolio form, submitted once as a whole and read back by id.
// The `json:"..."` tags match the wire format the browser form produces, so
// the same struct is used for the API body, the stored document and drafts.
package model

import "time"

// ProfileRecord is a user's complete portfolio profile.
//
// Repeated sub-records are ordered slices: insertion order is display order.
// ID and CreatedAt are assigned by the repository on persist and are empty
// on drafts.
type ProfileRecord struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`

	// Identity
	Name                 string `json:"name"`
	Headline             string `json:"headline"`
	Tagline              string `json:"tagline"`
	Bio                  string `json:"bio,omitempty"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Location             string `json:"location"`
	HighestQualification string `json:"highestQualification"`

	// Media: URL or data URI
	ProfilePhoto string `json:"profilePhoto"`
	Resume       string `json:"resume"`

	// Classification
	Gender             Gender          `json:"gender"`
	ExperienceLevel    ExperienceLevel `json:"experience"`
	FreelanceAvailable TriState        `json:"freelanceAvailable"`

	Education          []Education      `json:"education"`
	TechnicalSkills    []Skill          `json:"technicalSkills"`
	ProfessionalSkills []Skill          `json:"professionalSkills"`
	WorkExperience     []WorkExperience `json:"workExperience"`
	Projects           []Project        `json:"projects"`
	Certifications     []Certification  `json:"certifications"`

	// Social links may omit the scheme ("github.com/jane").
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`

	SelectedTemplate string `json:"template"`
}

// Education is one entry of the education history. An entry only counts
// for display once School, Degree, Field and StartDate are all filled in.
type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
	Grade     string `json:"grade,omitempty"`
}

// Skill is a named skill with a self-assessed level.
type Skill struct {
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

type WorkExperience struct {
	Role           string `json:"role"`
	Company        string `json:"company"`
	Duration       string `json:"duration"`
	Description    string `json:"description"`
	CompanyWebsite string `json:"companyWebsite,omitempty"`
}

type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Link         string   `json:"link,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

type Certification struct {
	Title  string `json:"title"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	Link   string `json:"link,omitempty"`
}

// Clone returns a deep copy, so a draft owner can hand out snapshots without
// sharing the backing arrays of the repeated sections.
func (p *ProfileRecord) Clone() *ProfileRecord {
	if p == nil {
		return nil
	}
	c := *p
	c.Education = append([]Education(nil), p.Education...)
	c.TechnicalSkills = append([]Skill(nil), p.TechnicalSkills...)
	c.ProfessionalSkills = append([]Skill(nil), p.ProfessionalSkills...)
	c.WorkExperience = append([]WorkExperience(nil), p.WorkExperience...)
	c.Certifications = append([]Certification(nil), p.Certifications...)
	if p.Projects != nil {
		c.Projects = make([]Project, len(p.Projects))
		for i, pr := range p.Projects {
			pr.Technologies = append([]string(nil), pr.Technologies...)
			c.Projects[i] = pr
		}
	}
	if p.FreelanceAvailable.v != nil {
		v := *p.FreelanceAvailable.v
		c.FreelanceAvailable = TriState{v: &v}
	}
	return &c
}
