package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/profile"
	"github.com/sakif/genfolio/internal/section"
)

func TestBuildView_NilRecord(t *testing.T) {
	tmpl, _ := MustBuiltinCatalog().Lookup("nova")
	v := BuildView(nil, tmpl)

	assert.Equal(t, []section.Key{profile.SectionHome}, section.Keys(v.Sections))
	assert.Equal(t, profile.SectionHome, v.Active)
	assert.True(t, v.Shows("home"))
	assert.False(t, v.Shows("contact"))
}

func TestBuildView_Contacts(t *testing.T) {
	tmpl, _ := MustBuiltinCatalog().Lookup("modern")
	record := &model.ProfileRecord{
		Email:    "a@b.co",
		Phone:    "+1 (555) 010-0100",
		LinkedIn: "www.linkedin.com/in/x/",
		GitHub:   "%zz",
		Location: "Berlin",
		Resume:   "data:application/pdf;base64,JVBERi0=",
	}

	v := BuildView(record, tmpl)
	require.Len(t, v.Contacts, 6)

	byKind := map[profile.ContactKind]ContactView{}
	for _, c := range v.Contacts {
		byKind[c.Kind] = c
	}
	assert.Equal(t, "tel:+15550100100", string(byKind[profile.ContactPhone].Href))
	assert.Equal(t, "linkedin.com/in/x", byKind[profile.ContactLinkedIn].Value)
	assert.False(t, byKind[profile.ContactGitHub].Valid)
	assert.Empty(t, byKind[profile.ContactLocation].Href)
	assert.True(t, byKind[profile.ContactResume].Valid)

	record.Resume = "data:text/html;base64,PHNjcmlwdD4="
	v = BuildView(record, tmpl)
	assert.False(t, v.Contacts[len(v.Contacts)-1].Valid)
}

func TestBuildView_Freelance(t *testing.T) {
	tmpl, _ := MustBuiltinCatalog().Lookup("tech")

	assert.Empty(t, BuildView(&model.ProfileRecord{}, tmpl).Freelance)
	assert.Equal(t, "Not available for freelance",
		BuildView(&model.ProfileRecord{FreelanceAvailable: model.NewTriState(false)}, tmpl).Freelance)
	assert.Equal(t, "Available for freelance",
		BuildView(&model.ProfileRecord{FreelanceAvailable: model.NewTriState(true)}, tmpl).Freelance)
}

func TestBuildView_SkillLabels(t *testing.T) {
	tmpl, _ := MustBuiltinCatalog().Lookup("tech")
	v := BuildView(&model.ProfileRecord{
		TechnicalSkills: []model.Skill{
			{Name: "Go", Level: model.ParseSkillLevel("150")},
			{Name: "Rust", Level: model.ParseSkillLevel("")},
		},
	}, tmpl)

	require.Len(t, v.TechnicalSkills, 2)
	assert.Equal(t, "100%", v.TechnicalSkills[0].Label)
	assert.True(t, v.TechnicalSkills[0].HasLevel)
	assert.Empty(t, v.TechnicalSkills[1].Label)
	assert.False(t, v.TechnicalSkills[1].HasLevel)
}
