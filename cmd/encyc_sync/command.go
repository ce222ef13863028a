package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/encyc-front/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	errNoAction    = errors.New(`choose an action, try "encyc-sync --help"`)
	errUnconfirmed = errors.New("refusing to modify the index without --confirm")
)

type indexAdmin interface {
	EnsureCollections(ctx context.Context) error
	DropCollections(ctx context.Context) error
}

type runner interface {
	Run(ctx context.Context, opts reconcile.RunOptions) (*reconcile.Report, error)
}

type deps struct {
	admin  indexAdmin
	engine runner
	close  func()
}

type depsFactory func(ctx context.Context) (*deps, error)

type syncFlags struct {
	dryRun   bool
	report   bool
	create   bool
	delete   bool
	reset    bool
	confirm  bool
	authors  bool
	articles bool
	jsonOut  bool
}

func (f syncFlags) destructive() bool {
	return f.create || f.delete || f.reset
}

func newRootCmd(build depsFactory) *cobra.Command {
	var flags syncFlags

	cmd := &cobra.Command{
		Use:   "encyc-sync",
		Short: "Synchronise the document index with the wiki",
		Long: `Reconciles authors and articles in the document index against the wiki.
Records missing from the wiki are deleted, new or changed records are fetched,
transformed and written. Index maintenance (--create, --delete, --reset)
requires --confirm.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !flags.destructive() && !flags.authors && !flags.articles {
				return errNoAction
			}
			if flags.destructive() && !flags.confirm {
				cmd.PrintErrln("*** All existing records will be deleted!")
				cmd.PrintErrln("*** If you want to proceed, add the --confirm argument.")
				return errUnconfirmed
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			d, err := build(ctx)
			if err != nil {
				return err
			}
			if d.close != nil {
				defer d.close()
			}
			return runSync(ctx, cmd, d, flags)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&flags.dryRun, "dryrun", "d", false, "perform a trial run with no changes made")
	f.BoolVarP(&flags.report, "report", "r", false, "report record counts and the planned changes, then stop")
	f.BoolVar(&flags.delete, "delete", false, "delete the index (requires --confirm)")
	f.BoolVar(&flags.reset, "reset", false, "delete the index and create a new one (requires --confirm)")
	f.BoolVar(&flags.create, "create", false, "create the index (requires --confirm)")
	f.BoolVar(&flags.confirm, "confirm", false, "confirm that you really want to delete, create or reset")
	f.BoolVar(&flags.authors, "authors", false, "index authors")
	f.BoolVar(&flags.articles, "articles", false, "index articles")
	f.BoolVar(&flags.jsonOut, "json", false, "print the run report as JSON")

	return cmd
}

func runSync(ctx context.Context, cmd *cobra.Command, d *deps, flags syncFlags) error {
	switch {
	case flags.reset:
		if err := d.admin.DropCollections(ctx); err != nil {
			return fmt.Errorf("failed to delete index: %w", err)
		}
		if err := d.admin.EnsureCollections(ctx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		cmd.Println("Index reset.")
		return nil
	case flags.delete:
		if err := d.admin.DropCollections(ctx); err != nil {
			return fmt.Errorf("failed to delete index: %w", err)
		}
		cmd.Println("Index deleted.")
		return nil
	case flags.create:
		if err := d.admin.EnsureCollections(ctx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		cmd.Println("Index created.")
		return nil
	}

	report, err := d.engine.Run(ctx, reconcile.RunOptions{
		Authors:    flags.authors,
		Articles:   flags.articles,
		DryRun:     flags.dryRun,
		ReportOnly: flags.report,
	})
	if report != nil {
		printReport(cmd, report, flags.jsonOut)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

func printReport(cmd *cobra.Command, r *reconcile.Report, asJSON bool) {
	if asJSON {
		out, err := json.MarshalIndent(r, "", "  ")
		if err == nil {
			cmd.Println(string(out))
			return
		}
	}
	reconcile.WriteTable(r, cmd.OutOrStdout())
}
