package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/RateMyJudge/RMJ-Backend/internal/judges"
	"github.com/RateMyJudge/RMJ-Backend/internal/reviews"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
judges:
  - name: jane doe
    circuits: [NatCirc, ohio]
    reviews:
      - comment: Fair
        rating: 4
      - comment: ""
        rating: 3
  - name: John Smith
  - name: "john   smith"
    reviews:
      - comment: shadowed
        rating: 1
  - name: Texas Ranger
    circuits: [Texas]
`

func TestParseFixture(t *testing.T) {
	fx, err := parseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)

	require.Len(t, fx.Judges, 4)
	assert.Equal(t, "jane doe", fx.Judges[0].Name)
	assert.Equal(t, []string{"NatCirc", "ohio"}, fx.Judges[0].Circuits)
	assert.Equal(t, FixtureReview{Comment: "Fair", Rating: 4}, fx.Judges[0].Reviews[0])
}

func TestParseFixtureRejectsUnknownFields(t *testing.T) {
	_, err := parseFixture(strings.NewReader("judges:\n  - name: A\n    stars: 5\n"))
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	fx, err := parseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	s, err := memServices([]string{"NatCirc", "Ohio"}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	res, err := seed(ctx, s, fx)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Judges)
	assert.Equal(t, 1, res.Reviews)
	assert.Equal(t, []string{"john   smith"}, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.ErrorIs(t, res.Errors[0], reviews.ErrEmptyComment)
	assert.ErrorIs(t, res.Errors[1], judges.ErrInvalidCircuit)

	jane, err := s.dir.FindBySlug(ctx, "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, []string{"NatCirc", "Ohio"}, []string(jane.Circuits))

	snap, err := s.ledger.Snapshot(ctx, "john-smith")
	require.NoError(t, err)
	assert.Zero(t, snap.Count, "reviews of a skipped judge are not loaded")

	// A second run skips everything that was created.
	res, err = seed(ctx, s, fx)
	require.NoError(t, err)
	assert.Zero(t, res.Judges)
	assert.Len(t, res.Skipped, 3)
}

func TestSeedDryRunSkipsExistingJudges(t *testing.T) {
	fx, err := parseFixture(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	existing := []judges.Judge{{ID: uuid.New(), Name: "Jane Doe", Slug: "jane-doe", Circuits: []string{"Ohio"}}}

	s, err := memServices([]string{"NatCirc", "Ohio"}, existing)
	require.NoError(t, err)

	res, err := seed(context.Background(), s, fx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Judges, "only john-smith is new")
	assert.Zero(t, res.Reviews)
	assert.Equal(t, []string{"jane doe", "john   smith"}, res.Skipped)
	assert.Equal(t, "Jane Doe", existing[0].Name, "preloading leaves the input untouched")
}

func TestPrintSeedResult(t *testing.T) {
	var buf bytes.Buffer
	printSeedResult(&buf, seedResult{Judges: 2, Reviews: 1, Skipped: []string{"x"}}, true)
	assert.Equal(t, "Dry run: would seed 2 judges and 1 reviews, 1 skipped (already exist)\n", buf.String())
}

func TestAudit(t *testing.T) {
	store := judges.NewMemStore()
	dir := judges.NewDirectory(store, judges.NewCircuits([]string{"NatCirc", "Ohio"}), nil, nil)
	ctx := context.Background()

	_, err := dir.Create(ctx, "Jane Doe", "Ohio")
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, &judges.Judge{
		ID:       uuid.New(),
		Name:     "Mary Ann Lee",
		Slug:     "mary-lee",
		Circuits: []string{"ohio", "Texas"},
	}))

	findings, err := audit(ctx, dir)
	require.NoError(t, err)
	require.Len(t, findings, 3)
	for _, f := range findings {
		assert.Equal(t, "mary-lee", f.Slug)
	}
	assert.Contains(t, findings[0].Problem, `want "mary-ann-lee"`)
	assert.Contains(t, findings[1].Problem, `should be "Ohio"`)
	assert.Contains(t, findings[2].Problem, `"Texas" is not allowed`)

	var buf bytes.Buffer
	printFindings(&buf, findings)
	assert.Contains(t, buf.String(), "3 problems")
}

func TestAuditClean(t *testing.T) {
	dir := judges.NewDirectory(judges.NewMemStore(), judges.NewCircuits([]string{"Ohio"}), nil, nil)

	findings, err := audit(context.Background(), dir)
	require.NoError(t, err)

	var buf bytes.Buffer
	printFindings(&buf, findings)
	assert.Equal(t, "No problems found.\n", buf.String())
}
