package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/client"
	"github.com/sakif/genfolio/internal/draft"
	"github.com/sakif/genfolio/internal/export"
	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/profile"
	"github.com/sakif/genfolio/internal/render"
)

type usageError string

func (e usageError) Error() string { return string(e) }

type app struct {
	apiURL   string
	timeout  time.Duration
	draftDir string
	catalog  string
	stdout   io.Writer
	logger   *slog.Logger
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "submit":
		if len(rest) > 1 {
			return usageError("submit takes at most one file")
		}
		path := ""
		if len(rest) == 1 {
			path = rest[0]
		}
		return a.submit(ctx, path)
	case "fetch":
		if len(rest) != 1 {
			return usageError("fetch needs exactly one id")
		}
		return a.fetch(ctx, rest[0])
	case "export":
		if len(rest) != 2 {
			return usageError("export needs an id and a directory")
		}
		return a.export(ctx, rest[0], rest[1])
	case "draft":
		if len(rest) == 0 {
			return usageError("draft needs show, clear or set")
		}
		return a.draft(ctx, rest[0], rest[1:])
	}
	return usageError(fmt.Sprintf("unknown command %q", cmd))
}

func (a *app) client() *client.Client {
	return client.New(a.apiURL, a.timeout)
}

func (a *app) openDraft(ctx context.Context) (*draft.Draft, error) {
	store, err := draft.NewFileStore(a.draftDir, a.logger)
	if err != nil {
		return nil, err
	}
	return draft.Open(ctx, store, draft.DefaultKey, draft.WithLogger(a.logger))
}

// submit validates locally first so obvious mistakes do not need a round
// trip, then posts. Submitting the local draft clears it on success.
func (a *app) submit(ctx context.Context, path string) error {
	var (
		record *model.ProfileRecord
		d      *draft.Draft
		err    error
	)
	if path == "" {
		d, err = a.openDraft(ctx)
		if err != nil {
			return err
		}
		record = d.Record()
	} else {
		record, err = readRecord(path)
		if err != nil {
			return err
		}
	}

	templates, err := render.LoadCatalog(a.catalog)
	if err != nil {
		return err
	}
	if err := profile.Validate(record, templates); err != nil {
		return describe(err)
	}

	id, err := a.client().CreateProfile(ctx, record)
	if err != nil {
		return describe(err)
	}
	if d != nil {
		if err := d.Submitted(ctx); err != nil {
			a.logger.Warn("profile submitted but the local draft could not be cleared", slog.String("error", err.Error()))
		}
	}

	fmt.Fprintln(a.stdout, id)
	return nil
}

func (a *app) fetch(ctx context.Context, id string) error {
	p, err := a.client().FetchProfile(ctx, id)
	if err != nil {
		return describe(err)
	}
	return writeJSON(a.stdout, p)
}

func (a *app) export(ctx context.Context, id, dir string) error {
	p, err := a.client().FetchProfile(ctx, id)
	if err != nil {
		return describe(err)
	}

	catalog, err := render.LoadCatalog(a.catalog)
	if err != nil {
		return err
	}
	renderer, err := render.New(catalog, a.logger)
	if err != nil {
		return err
	}

	paths, err := export.All(ctx, renderer, p, dir, export.DefaultConcurrency)
	for _, path := range paths {
		fmt.Fprintln(a.stdout, path)
	}
	return err
}

func (a *app) draft(ctx context.Context, sub string, args []string) error {
	d, err := a.openDraft(ctx)
	if err != nil {
		return err
	}

	switch sub {
	case "show":
		return writeJSON(a.stdout, d.Record())
	case "clear":
		return d.Reset(ctx)
	case "set":
		if len(args) == 0 {
			return usageError("draft set needs at least one key=value")
		}
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok || key == "" {
				return usageError(fmt.Sprintf("%q is not key=value", arg))
			}
			var setErr error
			d.Update(func(p *model.ProfileRecord) {
				setErr = setField(p, key, value)
			})
			if setErr != nil {
				return setErr
			}
		}
		return d.Flush(ctx)
	}
	return usageError(fmt.Sprintf("unknown draft command %q", sub))
}

// listFields take a raw JSON array instead of a string.
var listFields = map[string]bool{
	"education":          true,
	"technicalSkills":    true,
	"professionalSkills": true,
	"workExperience":     true,
	"projects":           true,
	"certifications":     true,
}

// setField assigns a top-level field by its JSON name. The value goes
// through the record's own JSON decoding, so enum aliases, skill clamping
// and "true"/"false" for freelance availability all apply. List fields
// expect a JSON array, e.g. technicalSkills='[{"name":"Go","level":"150"}]'.
func setField(p *model.ProfileRecord, key, value string) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if _, ok := fields[key]; !ok && key != "bio" {
		return fmt.Errorf("unknown field %q", key)
	}

	if listFields[key] {
		v := strings.TrimSpace(value)
		if !strings.HasPrefix(v, "[") || !json.Valid([]byte(v)) {
			return fmt.Errorf("field %q: expected a JSON array", key)
		}
		fields[key] = json.RawMessage(v)
	} else {
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		fields[key] = encoded
	}

	raw, err = json.Marshal(fields)
	if err != nil {
		return err
	}
	var next model.ProfileRecord
	if err := json.Unmarshal(raw, &next); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	*p = next
	return nil
}

func readRecord(path string) (*model.ProfileRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var p model.ProfileRecord
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &p, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe turns domain errors into one-line messages for the terminal.
func describe(err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.Is(err, apperror.ErrValidation) && errors.As(err, &appErr) && appErr.Field != "":
		return fmt.Errorf("%s (field %s, form step %s)", appErr.Message, appErr.Field, profile.SectionOf(appErr.Field))
	case errors.Is(err, apperror.ErrNotFound):
		return fmt.Errorf("profile not found")
	case errors.Is(err, apperror.ErrUnavailable):
		return fmt.Errorf("%w (try again)", err)
	}
	return err
}
