package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RateMyJudge/RMJ-Backend/internal/config"
	"github.com/RateMyJudge/RMJ-Backend/internal/judges"
	"github.com/RateMyJudge/RMJ-Backend/internal/reviews"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// seedSubmitter marks reviews loaded from fixtures.
const seedSubmitter = "rmjctl-seed"

// Fixture is the seed file layout:
//
//	judges:
//	  - name: Jane Doe
//	    circuits: [NatCirc, ohio]
//	    reviews:
//	      - comment: Fair
//	        rating: 4
type Fixture struct {
	Judges []FixtureJudge `yaml:"judges"`
}

type FixtureJudge struct {
	Name     string          `yaml:"name"`
	Circuits []string        `yaml:"circuits"`
	Reviews  []FixtureReview `yaml:"reviews"`
}

type FixtureReview struct {
	Comment string `yaml:"comment"`
	Rating  int    `yaml:"rating"`
}

type seedResult struct {
	Judges  int
	Reviews int
	Skipped []string
	Errors  []error
}

type seedFlags struct {
	file   string
	dryRun bool
}

func newSeedCmd() *cobra.Command {
	var flags seedFlags

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load judges and reviews from a YAML fixture",
		Long: "Creates each judge and its reviews through the same validation the API applies. " +
			"Judges whose slug already exists are skipped along with their reviews. " +
			"--dry-run reads the existing judges but writes nothing; if the database is " +
			"unreachable it reports against an empty directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Fixture file (required)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate against in-memory stores seeded with existing judges; no DB writes")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSeed(cmd *cobra.Command, flags seedFlags) error {
	f, err := os.Open(flags.file)
	if err != nil {
		return fmt.Errorf("opening fixture: %w", err)
	}
	defer f.Close()

	fx, err := parseFixture(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	apply := func(s *services) error {
		res, err := seed(cmd.Context(), s, fx)
		if err != nil {
			return err
		}
		printSeedResult(out, res, flags.dryRun)
		if len(res.Errors) > 0 {
			return fmt.Errorf("%d fixture entries rejected", len(res.Errors))
		}
		return nil
	}

	if flags.dryRun {
		s, err := dryRunServices(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return apply(s)
	}
	return withServices(apply)
}

// dryRunServices preloads the judges already in the database so the report
// matches a real run. Without a reachable database it falls back to defaults
// and an empty directory, and says so on warn.
func dryRunServices(ctx context.Context, warn io.Writer) (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(warn, "warning: %v; using default circuits and an empty directory\n", err)
		return memServices(config.New().Circuits, nil)
	}
	existing, err := existingJudges(ctx, cfg)
	if err != nil {
		fmt.Fprintf(warn, "warning: reading existing judges: %v; treating the directory as empty\n", err)
		existing = nil
	}
	return memServices(cfg.Circuits, existing)
}

func parseFixture(r io.Reader) (Fixture, error) {
	var fx Fixture
	if err := yaml.NewDecoder(r, yaml.DisallowUnknownField()).Decode(&fx); err != nil {
		return Fixture{}, fmt.Errorf("parsing fixture: %w", err)
	}
	return fx, nil
}

// seed applies fx. Validation failures are collected per entry; a store
// failure aborts the run.
func seed(ctx context.Context, s *services, fx Fixture) (seedResult, error) {
	var res seedResult

	for i, fj := range fx.Judges {
		judge, err := s.dir.Create(ctx, fj.Name, strings.Join(fj.Circuits, ","))
		switch {
		case err == nil:
			res.Judges++
		case errors.Is(err, judges.ErrDuplicateSlug):
			res.Skipped = append(res.Skipped, fj.Name)
			continue
		case errors.Is(err, judges.ErrEmptyName), errors.Is(err, judges.ErrInvalidCircuit):
			res.Errors = append(res.Errors, fmt.Errorf("judges[%d] %q: %w", i, fj.Name, err))
			continue
		default:
			return res, fmt.Errorf("creating judge %q: %w", fj.Name, err)
		}

		for j, fr := range fj.Reviews {
			_, err := s.ledger.Create(ctx, judge.Slug, fr.Comment, fr.Rating, seedSubmitter)
			switch {
			case err == nil:
				res.Reviews++
			case errors.Is(err, reviews.ErrEmptyComment),
				errors.Is(err, reviews.ErrMissingRating),
				errors.Is(err, reviews.ErrInvalidRating):
				res.Errors = append(res.Errors, fmt.Errorf("judges[%d].reviews[%d]: %w", i, j, err))
			default:
				return res, fmt.Errorf("creating review for %q: %w", judge.Slug, err)
			}
		}
	}
	return res, nil
}

func printSeedResult(w io.Writer, res seedResult, dryRun bool) {
	for _, err := range res.Errors {
		fmt.Fprintf(w, "  rejected: %v\n", err)
	}
	verb := "Seeded"
	if dryRun {
		verb = "Dry run: would seed"
	}
	fmt.Fprintf(w, "%s %d judges and %d reviews", verb, res.Judges, res.Reviews)
	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, ", %d skipped (already exist)", len(res.Skipped))
	}
	fmt.Fprintln(w)
}
