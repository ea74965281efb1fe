package main

import (
	"context"
	"fmt"
	"io"

	"github.com/RateMyJudge/RMJ-Backend/internal/judges"
	"github.com/RateMyJudge/RMJ-Backend/internal/slug"
	"github.com/spf13/cobra"
)

// Finding is one record that no longer matches the write rules.
type Finding struct {
	Slug    string
	Problem string
}

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Report judges whose slug or circuits break the current rules",
		Long: "Lists judges whose stored slug differs from the slug of their name, " +
			"and circuit tags outside the configured allow-list or in non-canonical casing.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(s *services) error {
				findings, err := audit(cmd.Context(), s.dir)
				if err != nil {
					return err
				}
				printFindings(cmd.OutOrStdout(), findings)
				return nil
			})
		},
	}
}

func audit(ctx context.Context, dir *judges.Directory) ([]Finding, error) {
	all, err := dir.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing judges: %w", err)
	}

	var findings []Finding
	for _, j := range all {
		if want := slug.ToSlug(j.Name); j.Slug != want {
			findings = append(findings, Finding{j.Slug, fmt.Sprintf("slug does not match name %q (want %q)", j.Name, want)})
		}
		for _, c := range j.Circuits {
			canon, ok := dir.Circuits().Canonical(c)
			switch {
			case !ok:
				findings = append(findings, Finding{j.Slug, fmt.Sprintf("circuit %q is not allowed", c)})
			case canon != c:
				findings = append(findings, Finding{j.Slug, fmt.Sprintf("circuit %q should be %q", c, canon)})
			}
		}
	}
	return findings, nil
}

func printFindings(w io.Writer, findings []Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No problems found.")
		return
	}
	for _, f := range findings {
		fmt.Fprintf(w, "%s: %s\n", f.Slug, f.Problem)
	}
	fmt.Fprintf(w, "\n%d problems\n", len(findings))
}
