package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/repository"
)

// newTestDB opens a fresh in-memory database that is closed when the test
// ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testProfile() *model.ProfileRecord {
	return &model.ProfileRecord{
		Name:               "Jane Doe",
		Email:              "jane@example.com",
		Gender:             model.GenderPreferNotToSay,
		ExperienceLevel:    model.Experience1Year,
		FreelanceAvailable: model.NewTriState(false),
		Education: []model.Education{
			{School: "MIT", Degree: "BSc", Field: "CS", StartDate: "2019-09"},
		},
		ProfessionalSkills: []model.Skill{{Name: "Leadership", Level: model.NewSkillLevel(80)}},
		Projects:           []model.Project{{Title: "genfolio", Technologies: []string{"Go"}}},
		SelectedTemplate:   "luminous",
	}
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreate(t *testing.T) {
	db := newTestDB(t)
	p := testProfile()

	digest, err := db.Create(context.Background(), p)
	require.NoError(t, err)

	assert.Len(t, p.ID, 20)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Len(t, digest, 64)
}

func TestCreate_UniqueIDs(t *testing.T) {
	db := newTestDB(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p := testProfile()
		_, err := db.Create(context.Background(), p)
		require.NoError(t, err)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestGetByID_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	p := testProfile()
	digest, err := db.Create(context.Background(), p)
	require.NoError(t, err)

	stored, err := db.GetByID(context.Background(), p.ID)
	require.NoError(t, err)

	assert.Equal(t, digest, stored.Digest)
	assert.Equal(t, p.ID, stored.Profile.ID)
	assert.True(t, p.CreatedAt.Equal(stored.Profile.CreatedAt))
	assert.Equal(t, p.Education, stored.Profile.Education)
	assert.Equal(t, p.ProfessionalSkills, stored.Profile.ProfessionalSkills)
	assert.Equal(t, model.GenderPreferNotToSay, stored.Profile.Gender)

	freelance, set := stored.Profile.FreelanceAvailable.Get()
	assert.True(t, set)
	assert.False(t, freelance)
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestGetByID_LegacyRowWithoutDigest(t *testing.T) {
	db := newTestDB(t)

	doc := `{"id":"legacy","name":"Old Timer","template":"classic"}`
	_, err := db.conn.Exec(
		`INSERT INTO profiles (id, name, template, document) VALUES (?, ?, ?, ?)`,
		"legacy", "Old Timer", "classic", doc,
	)
	require.NoError(t, err)

	stored, err := db.GetByID(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, repository.Digest([]byte(doc)), stored.Digest)
	assert.Equal(t, "Old Timer", stored.Profile.Name)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.migrate())
	require.NoError(t, db.migrate())
}
