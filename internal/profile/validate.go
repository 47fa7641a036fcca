package profile

import (
	"regexp"
	"strings"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/model"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// TemplateSet is the closed set of template ids a record may select.
type TemplateSet interface {
	Has(id string) bool
}

// FormSection is one step of the multi-step profile form.
type FormSection string

const (
	FormPersonal       FormSection = "personal"
	FormEducation      FormSection = "education"
	FormSkills         FormSection = "skills"
	FormExperience     FormSection = "experience"
	FormProjects       FormSection = "projects"
	FormCertifications FormSection = "certifications"
	FormSocial         FormSection = "social"
	FormTemplate       FormSection = "template"
)

// FormSections lists the form steps in order.
var FormSections = []FormSection{
	FormPersonal, FormEducation, FormSkills, FormExperience,
	FormProjects, FormCertifications, FormSocial, FormTemplate,
}

var fieldSections = map[string]FormSection{
	"name":                 FormPersonal,
	"email":                FormPersonal,
	"headline":             FormPersonal,
	"location":             FormPersonal,
	"phone":                FormPersonal,
	"tagline":              FormPersonal,
	"gender":               FormPersonal,
	"freelanceAvailable":   FormPersonal,
	"highestQualification": FormEducation,
	"education":            FormEducation,
	"experience":           FormSkills,
	"technicalSkills":      FormSkills,
	"professionalSkills":   FormSkills,
	"workExperience":       FormExperience,
	"projects":             FormProjects,
	"certifications":       FormCertifications,
	"github":               FormSocial,
	"linkedin":             FormSocial,
	"portfolio":            FormSocial,
	"template":             FormTemplate,
}

// SectionOf maps a record field (by its JSON name) to the form step that
// edits it. Unknown fields map to the first step.
func SectionOf(field string) FormSection {
	if s, ok := fieldSections[field]; ok {
		return s
	}
	return FormPersonal
}

// Validate checks the required top-level fields in form order and returns
// an *apperror.AppError naming the first offending field, or nil.
// A nil templates set only checks that some template was chosen.
func Validate(p *model.ProfileRecord, templates TemplateSet) error {
	if p == nil {
		return apperror.ValidationFailed("name", "profile is empty")
	}

	if !notBlank(p.Name) {
		return apperror.ValidationFailed("name", "name is required")
	}

	email := strings.TrimSpace(p.Email)
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if !emailPattern.MatchString(email) {
		return apperror.ValidationFailed("email", "email address is invalid")
	}

	for _, r := range []struct{ field, value string }{
		{"headline", p.Headline},
		{"location", p.Location},
		{"phone", p.Phone},
		{"tagline", p.Tagline},
	} {
		if !notBlank(r.value) {
			return apperror.ValidationFailed(r.field, r.field+" is required")
		}
	}

	switch {
	case p.Gender == "":
		return apperror.ValidationFailed("gender", "gender is required")
	case !p.Gender.Valid():
		return apperror.ValidationFailed("gender", "gender must be one of Male, Female, Other, Prefer not to say")
	}

	if !notBlank(p.HighestQualification) {
		return apperror.ValidationFailed("highestQualification", "highest qualification is required")
	}

	switch {
	case p.ExperienceLevel == "":
		return apperror.ValidationFailed("experience", "experience is required")
	case !p.ExperienceLevel.Valid():
		return apperror.ValidationFailed("experience", "experience must be one of Fresher, 1 year, 2 years, 3+ years")
	}

	// Explicit "No" is an answer; only the untouched state is missing.
	if !p.FreelanceAvailable.IsSet() {
		return apperror.ValidationFailed("freelanceAvailable", "freelance availability is required")
	}

	tmpl := strings.TrimSpace(p.SelectedTemplate)
	if tmpl == "" {
		return apperror.ValidationFailed("template", "template is required")
	}
	if templates != nil && !templates.Has(tmpl) {
		return apperror.ValidationFailed("template", "unknown template "+tmpl)
	}

	return nil
}
