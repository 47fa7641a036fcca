// Command genfolio works with profiles from the terminal.
//
//	genfolio submit [draft.json]        submit a file, or the local draft
//	genfolio fetch <id>                 print a stored profile as JSON
//	genfolio export <id> <dir>          render a profile in every template
//	genfolio draft show|clear           inspect or wipe the local draft
//	genfolio draft set key=value ...    edit top-level draft fields
//
// The server address comes from API_BASE_URL (see internal/config). The
// local draft lives in DRAFT_DIR under the key "portfolioFormData".
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sakif/genfolio/internal/config"
)

const usage = `usage: genfolio [flags] <command> [args]

commands:
  submit [draft.json]       submit a profile (default: the local draft)
  fetch <id>                print a stored profile as JSON
  export <id> <dir>         render a profile with every template into dir
  draft show                print the local draft
  draft clear               delete the local draft
  draft set key=value ...   set top-level fields of the local draft
                            (list fields take a JSON array)

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fs := flag.NewFlagSet("genfolio", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	apiURL := fs.String("api", cfg.Client.APIBaseURL, "GenFolio server base URL")
	draftDir := fs.String("draft-dir", cfg.Draft.Dir, "directory holding the local draft")
	verbose := fs.Bool("v", false, "log debug output")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	level := cfg.Logging.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &app{
		apiURL:   *apiURL,
		timeout:  cfg.Client.Timeout,
		draftDir: *draftDir,
		catalog:  cfg.TemplateCatalog,
		stdout:   stdout,
		logger:   logger,
	}

	if err := app.dispatch(ctx, fs.Args()); err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(stderr, "genfolio:", err)
			fs.Usage()
			return 2
		}
		fmt.Fprintln(stderr, "genfolio:", err)
		return 1
	}
	return 0
}
