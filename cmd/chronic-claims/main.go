package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/salulink/chronic/internal/config"
	"github.com/salulink/chronic/internal/domain/claim"
	"github.com/salulink/chronic/internal/domain/lookup"
	"github.com/salulink/chronic/internal/domain/report"
	"github.com/salulink/chronic/internal/platform/casefile"
	"github.com/salulink/chronic/internal/platform/logging"
)

// app carries what every subcommand needs once the root command has run.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	out io.Writer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "chronic-claims",
		Short:        "Prepare and export chronic treatment claims",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.cfg = cfg
			a.log = logging.NewWithWriter(cfg, cmd.ErrOrStderr())
			a.out = cmd.OutOrStdout()
			return nil
		},
	}

	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(caseCmd(a))
	rootCmd.AddCommand(casesCmd(a))
	rootCmd.AddCommand(lookupCmd(a))
	return rootCmd
}

// loadLookup opens the catalog, preferring the workbook when configured.
func (a *app) loadLookup() (*lookup.Store, error) {
	var (
		store *lookup.Store
		err   error
	)
	if a.cfg.LookupWorkbook != "" {
		store, err = lookup.LoadWorkbook(a.cfg.LookupWorkbook)
	} else {
		store, err = lookup.LoadFiles(a.cfg.LookupPaths())
	}
	if err != nil {
		return nil, fmt.Errorf("loading lookup data: %w", err)
	}
	conds, meds, basket := store.Stats()
	a.log.Debug().Int("conditions", conds).Int("medicines", meds).Int("basket_rows", basket).Msg("lookup data loaded")
	return store, nil
}

func (a *app) exporter() *report.Exporter {
	b := report.NewBuilder(a.cfg.AppName, a.cfg.PageSize, a.cfg.PageMargin)
	p := report.NewPackager(a.cfg.DecodeWorkers, a.log)
	return report.NewExporter(b, p, a.log)
}

// updateCase loads the case at path, applies fn and saves it back. Nothing is
// written when fn fails.
func (a *app) updateCase(path string, fn func(c *claim.PatientCase) error) (*claim.PatientCase, error) {
	c, err := casefile.Load(path)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := casefile.Save(path, c); err != nil {
		return nil, err
	}
	a.log.Debug().Str("case_id", c.ID).Str("path", path).Msg("case saved")
	return c, nil
}

// readAttachments reads files from disk with bounded parallelism, keeping
// the order of paths.
func (a *app) readAttachments(ctx context.Context, paths []string) ([]claim.AttachmentRef, error) {
	refs := make([]claim.AttachmentRef, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.DecodeWorkers)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(p)
			if err != nil {
				return fmt.Errorf("opening attachment: %w", err)
			}
			defer f.Close()

			att, err := claim.ReadAttachment(filepath.Base(p), "", f, a.cfg.MaxAttachmentBytes)
			if err != nil {
				return err
			}
			ref, err := claim.EncodeAttachment(att)
			if err != nil {
				return err
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return refs, nil
}

func parseBasket(s string) (claim.BasketKind, error) {
	switch k := claim.BasketKind(s); k {
	case claim.BasketDiagnostic, claim.BasketOngoing:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", claim.ErrUnknownBasket, s)
}
