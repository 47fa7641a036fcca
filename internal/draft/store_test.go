package draft

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/genfolio/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fullRecord() *model.ProfileRecord {
	return &model.ProfileRecord{
		Name:                 "Jane Doe",
		Headline:             "Engineer",
		Tagline:              "Builds things",
		Bio:                  "Long bio",
		Email:                "jane@example.com",
		Phone:                "+1 555",
		Location:             "Lisbon",
		HighestQualification: "MSc",
		ProfilePhoto:         "data:image/png;base64,AAAA",
		Resume:               "https://cdn.example.com/cv.pdf",
		Gender:               model.GenderOther,
		ExperienceLevel:      model.ExperienceFresher,
		FreelanceAvailable:   model.NewTriState(false),
		Education: []model.Education{
			{School: "A", Degree: "B", Field: "C", Location: "D", StartDate: "2018", EndDate: "2022", Grade: "A+"},
		},
		TechnicalSkills:    []model.Skill{{Name: "Go", Level: model.NewSkillLevel(90)}, {Name: "Zig", Level: model.ParseSkillLevel("")}},
		ProfessionalSkills: []model.Skill{{Name: "Leadership", Level: model.NewSkillLevel(80)}},
		WorkExperience:     []model.WorkExperience{{Role: "SWE", Company: "Acme", Duration: "2y", Description: "x", CompanyWebsite: "acme.io"}},
		Projects:           []model.Project{{Title: "p", Description: "d", Link: "github.com/p", Technologies: []string{"Go", "SQL"}}},
		Certifications:     []model.Certification{{Title: "CKA", Issuer: "CNCF", Date: "2023-04", Link: "cncf.io"}},
		GitHub:             "github.com/jane",
		LinkedIn:           "linkedin.com/in/jane",
		Portfolio:          "jane.dev",
		SelectedTemplate:   "luminous",
	}
}

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("150405.000000")

	t.Run("missing draft", func(t *testing.T) {
		_, err := s.Load(ctx, key)
		assert.True(t, errors.Is(err, ErrNoDraft))
	})

	t.Run("round trip", func(t *testing.T) {
		want := fullRecord()
		require.NoError(t, s.Save(ctx, key, want))

		got, err := s.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("unset freelance survives", func(t *testing.T) {
		want := fullRecord()
		want.FreelanceAvailable = model.Unset
		require.NoError(t, s.Save(ctx, key, want))

		got, err := s.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, got.FreelanceAvailable.IsSet())
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, key, &model.ProfileRecord{Name: "second"}))
		got, err := s.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", got.Name)
		assert.Empty(t, got.Education)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, s.Clear(ctx, key))
		_, err := s.Load(ctx, key)
		assert.True(t, errors.Is(err, ErrNoDraft))
		// Clearing twice is fine.
		require.NoError(t, s.Clear(ctx, key))
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_Corrupt(t *testing.T) {
	s := NewMemoryStore()
	s.put("k", []byte("{not json"))

	_, err := s.Load(context.Background(), "k")
	assert.True(t, errors.Is(err, ErrNoDraft))

	// The corrupt entry is gone.
	_, err = s.Load(context.Background(), "k")
	assert.True(t, errors.Is(err, ErrNoDraft))
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	storeContract(t, s)
}

func TestFileStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, testLogger())
	require.NoError(t, err)

	path := s.Path(DefaultKey)
	assert.Equal(t, filepath.Join(dir, "portfolioFormData.json"), path)
	require.NoError(t, os.WriteFile(path, []byte(`{"name": 42`), 0o644))

	_, err = s.Load(context.Background(), DefaultKey)
	assert.True(t, errors.Is(err, ErrNoDraft))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "corrupt draft should be removed")
}

func TestFileStore_SafeName(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	path := s.Path("../../etc/passwd")
	assert.Equal(t, "______etc_passwd.json", filepath.Base(path))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr, TTL: time.Minute}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	storeContract(t, s)
}
