// Package export writes a profile rendered in every catalog template to a
// directory, one HTML file per template.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/render"
)

// DefaultConcurrency bounds how many templates render at once.
const DefaultConcurrency = 4

// All renders record with each template of the renderer's catalog into
// dir/<template>.html and returns the written paths in catalog order.
// It stops early when ctx is cancelled; files already written stay.
func All(ctx context.Context, r *render.Renderer, record *model.ProfileRecord, dir string, concurrency int) ([]string, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: creating %s: %w", dir, err)
	}

	ids := r.Catalog().IDs()
	paths := make([]string, len(ids))

	p := pool.New().WithMaxGoroutines(concurrency).WithContext(ctx).WithCancelOnError()
	for i, id := range ids {
		i, id := i, id
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, id+".html")
			if err := writePage(r, record, id, path); err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return written(paths), err
	}
	return paths, nil
}

func writePage(r *render.Renderer, record *model.ProfileRecord, templateID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := r.Render(f, record, templateID, render.Options{}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("export: %s: %w", templateID, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func written(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
