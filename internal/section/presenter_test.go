package section

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/profile"
)

func TestVisibleSections(t *testing.T) {
	p := NewPresenter(profile.DefaultPolicy)

	t.Run("nil record keeps only home", func(t *testing.T) {
		got := p.VisibleSections(nil)
		assert.Equal(t, []Key{profile.SectionHome}, Keys(got))
	})

	t.Run("skills from professional only", func(t *testing.T) {
		record := &model.ProfileRecord{
			TechnicalSkills:    []model.Skill{},
			ProfessionalSkills: []model.Skill{{Name: "Leadership", Level: model.NewSkillLevel(80)}},
		}
		got := Keys(p.VisibleSections(record))
		assert.Equal(t, []Key{profile.SectionHome, profile.SectionSkills}, got)
	})

	t.Run("full record keeps catalog order", func(t *testing.T) {
		record := &model.ProfileRecord{
			Tagline:         "hi",
			Email:           "a@b.co",
			Education:       []model.Education{{School: "A", Degree: "B", Field: "C", StartDate: "2020"}},
			TechnicalSkills: []model.Skill{{Name: "Go"}},
			WorkExperience:  []model.WorkExperience{{Role: "x"}},
			Projects:        []model.Project{{Title: "y"}},
			Certifications:  []model.Certification{{Title: "z"}},
		}
		assert.Equal(t, Keys(DefaultCatalog()), Keys(p.VisibleSections(record)))
	})
}

// Every result must be an order-preserving subset of the catalog that
// contains home, whatever combination of sections is populated.
func TestVisibleSections_Subsequence(t *testing.T) {
	catalog := DefaultCatalog()
	p := &Presenter{Catalog: catalog, Policy: profile.Policy{ContactThreshold: 2}}

	populate := []func(r *model.ProfileRecord){
		func(r *model.ProfileRecord) { r.Bio = "bio" },
		func(r *model.ProfileRecord) {
			r.Education = []model.Education{{School: "A", Degree: "B", Field: "C", StartDate: "2020"}}
		},
		func(r *model.ProfileRecord) { r.TechnicalSkills = []model.Skill{{Name: "Go"}} },
		func(r *model.ProfileRecord) { r.WorkExperience = []model.WorkExperience{{Role: "x"}} },
		func(r *model.ProfileRecord) { r.Projects = []model.Project{{Title: "y"}} },
		func(r *model.ProfileRecord) { r.Certifications = []model.Certification{{Title: "z"}} },
		func(r *model.ProfileRecord) { r.Email, r.Phone = "a@b.co", "1" },
	}

	for mask := 0; mask < 1<<len(populate); mask++ {
		record := &model.ProfileRecord{}
		for i, fn := range populate {
			if mask&(1<<i) != 0 {
				fn(record)
			}
		}

		got := p.VisibleSections(record)
		if assert.NotEmpty(t, got) {
			assert.Equal(t, profile.SectionHome, got[0].Key)
		}

		pos := -1
		for _, d := range got {
			idx := indexOf(catalog, d.Key)
			assert.Greater(t, idx, pos, "mask %b reordered %s", mask, d.Key)
			pos = idx
		}
	}
}
