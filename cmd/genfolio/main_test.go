package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/genfolio/internal/model"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestDraftCommands(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := runCLI(t, "-draft-dir", dir, "draft", "set",
		"name=Jane Doe", "gender=Prefer not to say", "experience=3+ years", "freelanceAvailable=false")
	require.Equal(t, 0, code, stderr)

	code, out, _ := runCLI(t, "-draft-dir", dir, "draft", "show")
	require.Equal(t, 0, code)

	var p model.ProfileRecord
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, model.GenderPreferNotToSay, p.Gender)
	assert.Equal(t, model.Experience3Plus, p.ExperienceLevel)
	assert.True(t, p.FreelanceAvailable.IsSet())
	assert.False(t, p.FreelanceAvailable.True())

	_, err := os.Stat(filepath.Join(dir, "portfolioFormData.json"))
	require.NoError(t, err)

	code, _, _ = runCLI(t, "-draft-dir", dir, "draft", "clear")
	require.Equal(t, 0, code)
	_, err = os.Stat(filepath.Join(dir, "portfolioFormData.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestDraftSet_Errors(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := runCLI(t, "-draft-dir", dir, "draft", "set", "nonsense")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "key=value")

	code, _, stderr = runCLI(t, "-draft-dir", dir, "draft", "set", "favouriteColour=blue")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown field")

	code, _, stderr = runCLI(t, "-draft-dir", dir, "draft", "set", "education=MIT")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "JSON array")

	code, _, _ = runCLI(t, "-draft-dir", dir, "draft", "set", `projects={"title":"x"}`)
	assert.Equal(t, 1, code)
}

func TestDraftSet_Lists(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := runCLI(t, "-draft-dir", dir, "draft", "set",
		`technicalSkills=[{"name":"Go","level":"150"},{"name":"SQL","level":""}]`,
		`education=[{"school":"MIT","degree":"BSc","field":"CS","startDate":"2019-09"}]`,
		`projects=[{"title":"genfolio","description":"portfolio builder","technologies":["Go","chi"]}]`)
	require.Equal(t, 0, code, stderr)

	code, out, _ := runCLI(t, "-draft-dir", dir, "draft", "show")
	require.Equal(t, 0, code)

	var p model.ProfileRecord
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.Len(t, p.TechnicalSkills, 2)
	assert.Equal(t, "100%", p.TechnicalSkills[0].Level.Percent(), "levels are clamped")
	assert.True(t, p.TechnicalSkills[1].Level.IsEmpty())
	require.Len(t, p.Education, 1)
	assert.Equal(t, "MIT", p.Education[0].School)
	require.Len(t, p.Projects, 1)
	assert.Equal(t, []string{"Go", "chi"}, p.Projects[0].Technologies)
}

func TestSetField(t *testing.T) {
	p := &model.ProfileRecord{Name: "keep", Projects: []model.Project{{Title: "p"}}}

	require.NoError(t, setField(p, "bio", "hello"))
	require.NoError(t, setField(p, "template", "nova"))

	assert.Equal(t, "keep", p.Name)
	assert.Equal(t, "hello", p.Bio)
	assert.Equal(t, "nova", p.SelectedTemplate)
	assert.Equal(t, "p", p.Projects[0].Title, "other fields survive")
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown command")

	code, _, _ = runCLI(t)
	assert.Equal(t, 2, code)
}

// fakeAPI records submissions and serves one stored profile.
func fakeAPI(t *testing.T, stored *model.ProfileRecord) (*httptest.Server, *[]model.ProfileRecord) {
	t.Helper()
	var submitted []model.ProfileRecord
	mux := chi.NewRouter()
	mux.Post("/api/users", func(w http.ResponseWriter, r *http.Request) {
		var p model.ProfileRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		submitted = append(submitted, p)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"cv37rs3pp9olc6atsptg"}`)
	})
	mux.Get("/api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if stored == nil || chi.URLParam(r, "id") != stored.ID {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"not_found","message":"profile not found"}`)
			return
		}
		json.NewEncoder(w).Encode(stored)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &submitted
}

func validRecordJSON() string {
	return `{
		"name": "Jane Doe", "email": "jane@example.com", "headline": "Engineer",
		"location": "Berlin", "phone": "+49 30 1234", "tagline": "I build services",
		"gender": "Female", "highestQualification": "MSc", "experience": "2 years",
		"freelanceAvailable": true, "template": "tech"
	}`
}

func TestSubmit_File(t *testing.T) {
	srv, submitted := fakeAPI(t, nil)
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(validRecordJSON()), 0o644))

	code, out, stderr := runCLI(t, "-api", srv.URL, "-draft-dir", t.TempDir(), "submit", path)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "cv37rs3pp9olc6atsptg\n", out)
	require.Len(t, *submitted, 1)
	assert.Equal(t, model.Experience2Years, (*submitted)[0].ExperienceLevel)
}

func TestSubmit_LocalDraftIsClearedOnSuccess(t *testing.T) {
	srv, _ := fakeAPI(t, nil)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portfolioFormData.json"), []byte(validRecordJSON()), 0o644))

	code, _, stderr := runCLI(t, "-api", srv.URL, "-draft-dir", dir, "submit")
	require.Equal(t, 0, code, stderr)

	_, err := os.Stat(filepath.Join(dir, "portfolioFormData.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestSubmit_InvalidNeverLeavesTheMachine(t *testing.T) {
	srv, submitted := fakeAPI(t, nil)
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(validRecordJSON(), `"freelanceAvailable": true`, `"freelanceAvailable": null`, 1)), 0o644))

	code, _, stderr := runCLI(t, "-api", srv.URL, "-draft-dir", t.TempDir(), "submit", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "freelanceAvailable")
	assert.Contains(t, stderr, "personal")
	assert.Empty(t, *submitted)
}

func TestFetchAndExport(t *testing.T) {
	stored := &model.ProfileRecord{ID: "abc", Name: "Jane Doe", SelectedTemplate: "classic"}
	srv, _ := fakeAPI(t, stored)

	code, out, stderr := runCLI(t, "-api", srv.URL, "fetch", "abc")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, `"name": "Jane Doe"`)

	code, _, stderr = runCLI(t, "-api", srv.URL, "fetch", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "profile not found")

	dir := t.TempDir()
	code, out, stderr = runCLI(t, "-api", srv.URL, "export", "abc", dir)
	require.Equal(t, 0, code, stderr)
	assert.Len(t, strings.Fields(out), 9)
	_, err := os.Stat(filepath.Join(dir, "bold-colorful.html"))
	assert.NoError(t, err)
}
