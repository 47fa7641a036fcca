package render

import (
	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/profile"
)

// FormPage is the data of the profile form page.
type FormPage struct {
	Sections []FormSectionView
}

// FormSectionView is one step of the form.
type FormSectionView struct {
	ID     profile.FormSection
	Label  string
	Fields []FormField
	Lists  []FormList
}

// FormField is a single input. Name is the record's JSON field, or the
// entry's JSON field inside a FormList.
//
// Besides the HTML input types, Type may be "level" (a 0-100 skill level),
// "tags" (comma-separated list) or "textarea".
type FormField struct {
	Name    string
	Label   string
	Type    string
	Options []FormOption
}

// InputType is the HTML type attribute for the field.
func (f FormField) InputType() string {
	switch f.Type {
	case "level":
		return "number"
	case "tags", "":
		return "text"
	}
	return f.Type
}

// FormList is a repeatable group of entries serialized to a JSON array
// under Name.
type FormList struct {
	Name      string
	Label     string
	ItemLabel string
	Fields    []FormField
}

type FormOption struct {
	Value string
	Label string
}

var formLabels = map[profile.FormSection]string{
	profile.FormPersonal:       "Personal Info",
	profile.FormEducation:      "Education",
	profile.FormSkills:         "Skills",
	profile.FormExperience:     "Experience",
	profile.FormProjects:       "Projects",
	profile.FormCertifications: "Certifications",
	profile.FormSocial:         "Social Links",
	profile.FormTemplate:       "Template",
}

// FormSections lists the form steps with their top-level fields.
func FormSections(c *Catalog) []FormSectionView {
	genders := []FormOption{}
	for _, g := range []model.Gender{model.GenderMale, model.GenderFemale, model.GenderOther, model.GenderPreferNotToSay} {
		genders = append(genders, FormOption{Value: string(g), Label: g.Label()})
	}
	levels := []FormOption{}
	for _, e := range []model.ExperienceLevel{model.ExperienceFresher, model.Experience1Year, model.Experience2Years, model.Experience3Plus} {
		levels = append(levels, FormOption{Value: string(e), Label: e.Label()})
	}
	templates := []FormOption{}
	for _, t := range c.Templates {
		templates = append(templates, FormOption{Value: t.ID, Label: t.Name})
	}

	fields := map[profile.FormSection][]FormField{
		profile.FormPersonal: {
			{Name: "name", Label: "Full name", Type: "text"},
			{Name: "email", Label: "Email", Type: "email"},
			{Name: "headline", Label: "Headline", Type: "text"},
			{Name: "tagline", Label: "Tagline", Type: "text"},
			{Name: "location", Label: "Location", Type: "text"},
			{Name: "phone", Label: "Phone", Type: "tel"},
			{Name: "gender", Label: "Gender", Options: genders},
			{Name: "freelanceAvailable", Label: "Available for freelance", Options: []FormOption{
				{Value: "true", Label: "Yes"},
				{Value: "false", Label: "No"},
			}},
			{Name: "profilePhoto", Label: "Photo URL", Type: "url"},
			{Name: "resume", Label: "Resume URL", Type: "url"},
		},
		profile.FormEducation: {
			{Name: "highestQualification", Label: "Highest qualification", Type: "text"},
		},
		profile.FormSkills: {
			{Name: "experience", Label: "Experience", Options: levels},
		},
		profile.FormSocial: {
			{Name: "github", Label: "GitHub", Type: "text"},
			{Name: "linkedin", Label: "LinkedIn", Type: "text"},
			{Name: "portfolio", Label: "Portfolio", Type: "text"},
		},
		profile.FormTemplate: {
			{Name: "template", Label: "Template", Options: templates},
		},
	}

	out := make([]FormSectionView, 0, len(profile.FormSections))
	for _, s := range profile.FormSections {
		out = append(out, FormSectionView{ID: s, Label: formLabels[s], Fields: fields[s], Lists: formLists[s]})
	}
	return out
}

var skillFields = []FormField{
	{Name: "name", Label: "Skill", Type: "text"},
	{Name: "level", Label: "Level (0-100)", Type: "level"},
}

var formLists = map[profile.FormSection][]FormList{
	profile.FormEducation: {{
		Name: "education", Label: "Education", ItemLabel: "education",
		Fields: []FormField{
			{Name: "school", Label: "School", Type: "text"},
			{Name: "degree", Label: "Degree", Type: "text"},
			{Name: "field", Label: "Field of study", Type: "text"},
			{Name: "location", Label: "Location", Type: "text"},
			{Name: "startDate", Label: "Start date", Type: "month"},
			{Name: "endDate", Label: "End date", Type: "month"},
			{Name: "grade", Label: "Grade", Type: "text"},
		},
	}},
	profile.FormSkills: {
		{Name: "technicalSkills", Label: "Technical skills", ItemLabel: "technical skill", Fields: skillFields},
		{Name: "professionalSkills", Label: "Professional skills", ItemLabel: "professional skill", Fields: skillFields},
	},
	profile.FormExperience: {{
		Name: "workExperience", Label: "Work experience", ItemLabel: "position",
		Fields: []FormField{
			{Name: "role", Label: "Role", Type: "text"},
			{Name: "company", Label: "Company", Type: "text"},
			{Name: "duration", Label: "Duration", Type: "text"},
			{Name: "description", Label: "Description", Type: "textarea"},
			{Name: "companyWebsite", Label: "Company website", Type: "text"},
		},
	}},
	profile.FormProjects: {{
		Name: "projects", Label: "Projects", ItemLabel: "project",
		Fields: []FormField{
			{Name: "title", Label: "Title", Type: "text"},
			{Name: "description", Label: "Description", Type: "textarea"},
			{Name: "link", Label: "Link", Type: "text"},
			{Name: "technologies", Label: "Technologies (comma separated)", Type: "tags"},
		},
	}},
	profile.FormCertifications: {{
		Name: "certifications", Label: "Certifications", ItemLabel: "certification",
		Fields: []FormField{
			{Name: "title", Label: "Title", Type: "text"},
			{Name: "issuer", Label: "Issuer", Type: "text"},
			{Name: "date", Label: "Date", Type: "month"},
			{Name: "link", Label: "Link", Type: "text"},
		},
	}},
}
