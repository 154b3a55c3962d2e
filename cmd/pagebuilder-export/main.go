// Command pagebuilder-export generates source code from a saved project
// without running the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/application/services"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/caching/workspaces"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/persistence/project"
	"github.com/AtRiskMedia/pagebuilder/internal/presentation/templates"
	"github.com/AtRiskMedia/pagebuilder/pkg/config"
	"github.com/atotto/clipboard"
)

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("pagebuilder-export: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("pagebuilder-export", flag.ContinueOnError)
	driver := fs.String("driver", config.DBDriver, "database driver (sqlite3 or libsql)")
	dsn := fs.String("dsn", config.DBDSN, "database data source name")
	key := fs.String("key", config.ProjectKey, "saved project key")
	formatName := fs.String("format", string(templates.FormatMarkup), "output format: html or react")
	out := fs.String("out", "", "write to this file; \"-\" uses the default export file name")
	toClipboard := fs.Bool("copy", false, "copy the generated source to the clipboard")
	list := fs.Bool("list", false, "list saved projects and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := templates.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := logging.NewDiscardLogger()
	db, err := database.NewConnection(*driver, *dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.NewTableCreator().CreateSchema(ctx, db.DB); err != nil {
		return err
	}

	perf := performance.NewTracker(nil)
	repo := project.NewProjectRepository(db.DB, logger)
	projects := services.NewProjectService(repo, workspaces.NewStore(0), config.ProjectKey, logger, perf)

	if *list {
		return listProjects(ctx, projects, stdout)
	}

	exporter := services.NewExportService(workspaces.NewStore(0), projects, logger, perf)
	res, err := exporter.ExportProject(ctx, *key, format)
	if err != nil {
		return err
	}

	switch {
	case *toClipboard:
		if err := clipboard.WriteAll(res.Source); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Copied %s (%d bytes) to the clipboard\n", res.FileName, len(res.Source))
	case *out != "":
		path := *out
		if path == "-" {
			path = res.FileName
		}
		if err := os.WriteFile(path, []byte(res.Source), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	default:
		_, err = io.WriteString(stdout, res.Source)
	}
	return err
}

func listProjects(ctx context.Context, projects *services.ProjectService, stdout io.Writer) error {
	saved, err := projects.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tELEMENTS\tUPDATED")
	for _, p := range saved {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", p.Key, p.ElementCount, p.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
