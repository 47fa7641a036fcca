package render

import (
	"html/template"
	"strings"

	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/profile"
	"github.com/sakif/genfolio/internal/section"
)

// PlaceholderPhoto is shown when a profile has no photo, or when the photo
// URL fails to load in the browser.
const PlaceholderPhoto = "/static/placeholder.svg"

// PageView is everything a layout needs to render one portfolio. All
// templates consume the same PageView.
type PageView struct {
	ProfileID string
	Template  Template
	Notice    string

	Name                 string
	Headline             string
	Tagline              string
	Bio                  string
	HighestQualification string
	Location             string
	Gender               string
	Experience           string
	Freelance            string

	Photo         template.URL
	PhotoFallback string

	Sections []section.Descriptor
	Active   section.Key
	SpyURL   string

	Education          []EducationView
	TechnicalSkills    []SkillView
	ProfessionalSkills []SkillView
	WorkExperience     []ExperienceView
	Projects           []ProjectView
	Certifications     []CertificationView
	Contacts           []ContactView
	Social             []SocialView

	visible map[section.Key]bool
}

// Shows reports whether the section with the given key is rendered.
func (v *PageView) Shows(key string) bool {
	return v.visible[section.Key(key)]
}

type EducationView struct {
	School   string
	Degree   string
	Field    string
	Location string
	Years    string
	Grade    string
}

type SkillView struct {
	Name     string
	Percent  int
	Label    string // "80%", empty while no level is set
	HasLevel bool
}

type ExperienceView struct {
	Role        string
	Company     string
	Duration    string
	Description string
	Website     profile.Link
}

type ProjectView struct {
	Title        string
	Description  string
	Link         profile.Link
	Technologies []string
}

type CertificationView struct {
	Title  string
	Issuer string
	Year   string
	Link   profile.Link
}

type ContactView struct {
	Kind  profile.ContactKind
	Label string
	Value string
	Href  template.URL
	Valid bool
}

type SocialView struct {
	Label string
	Link  profile.Link
}

var contactLabels = map[profile.ContactKind]string{
	profile.ContactEmail:    "Email",
	profile.ContactPhone:    "Phone",
	profile.ContactLinkedIn: "LinkedIn",
	profile.ContactGitHub:   "GitHub",
	profile.ContactLocation: "Location",
	profile.ContactResume:   "Resume",
}

// BuildView maps a record onto the shared page view for template t.
func BuildView(record *model.ProfileRecord, t Template) *PageView {
	presenter := section.NewPresenter(t.Policy())
	sections := presenter.VisibleSections(record)

	v := &PageView{
		Template:      t,
		Sections:      sections,
		PhotoFallback: PlaceholderPhoto,
		Photo:         template.URL(PlaceholderPhoto),
		visible:       make(map[section.Key]bool, len(sections)),
	}
	for _, d := range sections {
		v.visible[d.Key] = true
	}
	if len(sections) > 0 {
		v.Active = sections[0].Key
	}
	if record == nil {
		return v
	}

	v.ProfileID = record.ID
	v.Name = record.Name
	v.Headline = record.Headline
	v.Tagline = record.Tagline
	v.Bio = record.Bio
	v.HighestQualification = orNA(record.HighestQualification)
	v.Location = orNA(record.Location)
	v.Gender = record.Gender.Label()
	v.Experience = record.ExperienceLevel.Label()
	if avail, ok := record.FreelanceAvailable.Get(); ok {
		v.Freelance = "Not available for freelance"
		if avail {
			v.Freelance = "Available for freelance"
		}
	}
	if p, ok := photoURL(record.ProfilePhoto); ok {
		v.Photo = p
	}

	for _, e := range profile.CompleteEducation(record.Education) {
		v.Education = append(v.Education, EducationView{
			School:   e.School,
			Degree:   e.Degree,
			Field:    e.Field,
			Location: e.Location,
			Years:    profile.YearRange(e.StartDate, e.EndDate),
			Grade:    e.Grade,
		})
	}
	v.TechnicalSkills = skillViews(record.TechnicalSkills)
	v.ProfessionalSkills = skillViews(record.ProfessionalSkills)

	for _, w := range record.WorkExperience {
		ev := ExperienceView{
			Role:        w.Role,
			Company:     w.Company,
			Duration:    w.Duration,
			Description: w.Description,
		}
		if w.CompanyWebsite != "" {
			ev.Website = profile.NormalizeLink(w.CompanyWebsite)
		}
		v.WorkExperience = append(v.WorkExperience, ev)
	}
	for _, p := range record.Projects {
		v.Projects = append(v.Projects, ProjectView{
			Title:        p.Title,
			Description:  p.Description,
			Link:         profile.NormalizeLink(p.Link),
			Technologies: nonEmpty(p.Technologies),
		})
	}
	for _, c := range record.Certifications {
		v.Certifications = append(v.Certifications, CertificationView{
			Title:  c.Title,
			Issuer: c.Issuer,
			Year:   profile.YearLabel(c.Date),
			Link:   profile.NormalizeLink(c.Link),
		})
	}

	for _, c := range profile.ContactMethods(record) {
		v.Contacts = append(v.Contacts, contactView(c))
	}
	for _, s := range []SocialView{
		{Label: "GitHub", Link: profile.NormalizeLink(record.GitHub)},
		{Label: "LinkedIn", Link: profile.NormalizeLink(record.LinkedIn)},
		{Label: "Portfolio", Link: profile.NormalizeLink(record.Portfolio)},
	} {
		if s.Link.Raw != "" {
			v.Social = append(v.Social, s)
		}
	}

	return v
}

func contactView(c profile.ContactMethod) ContactView {
	cv := ContactView{Kind: c.Kind, Label: contactLabels[c.Kind], Value: c.Value, Valid: true}
	switch c.Kind {
	case profile.ContactEmail:
		cv.Href = template.URL("mailto:" + c.Value)
	case profile.ContactPhone:
		cv.Href = template.URL("tel:" + strings.Map(dialable, c.Value))
	case profile.ContactLinkedIn, profile.ContactGitHub:
		l := profile.NormalizeLink(c.Value)
		cv.Valid = l.Valid
		if l.Valid {
			cv.Href = template.URL(l.Href)
			cv.Value = l.Host + l.Path
		}
	case profile.ContactResume:
		cv.Value = "Download"
		if href, ok := resumeURL(c.Value); ok {
			cv.Href = href
		} else {
			cv.Valid = false
		}
	}
	return cv
}

// dialable keeps the characters a tel: URI may carry.
func dialable(r rune) rune {
	if (r >= '0' && r <= '9') || r == '+' {
		return r
	}
	return -1
}

// photoURL accepts web URLs, site-relative paths and inline images.
func photoURL(raw string) (template.URL, bool) {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return "", false
	case strings.HasPrefix(s, "data:image/"), strings.HasPrefix(s, "/"):
		return template.URL(s), true
	}
	l := profile.NormalizeLink(s)
	if !l.Valid {
		return "", false
	}
	return template.URL(l.Href), true
}

// resumeURL accepts web links and inline PDF or image documents.
func resumeURL(raw string) (template.URL, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "data:application/pdf") || strings.HasPrefix(s, "data:image/") {
		return template.URL(s), true
	}
	l := profile.NormalizeLink(s)
	if !l.Valid {
		return "", false
	}
	return template.URL(l.Href), true
}

func skillViews(skills []model.Skill) []SkillView {
	var out []SkillView
	for _, s := range skills {
		level, ok := s.Level.Value()
		out = append(out, SkillView{
			Name:     s.Name,
			Percent:  level,
			Label:    s.Level.Percent(),
			HasLevel: ok,
		})
	}
	return out
}

func nonEmpty(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
