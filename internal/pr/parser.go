// Package pr parses free-form PR lines ("db bench 85/12", "chinup BW/8")
// into structured records with a canonicalized exercise name and an
// estimated one-rep max.
package pr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/prtrack/internal/exercise"
	"github.com/claude/prtrack/internal/models"
)

// Options configure a Parser. Everything that used to be an ambient
// constant is an explicit field so the parser stays side-effect-free and
// independently testable.
type Options struct {
	// FuzzyThreshold is the minimum 0..100 similarity at which a program
	// exercise is adopted as the canonical name.
	FuzzyThreshold int
	// Permissive enables the legacy multi-pattern extraction (x/×/-/:
	// separators, reversed "reps x weight", filler words). The default
	// strict mode accepts only "<exercise> <weight>/<reps>".
	Permissive bool
	// MaxWeight, MinReps and MaxReps are sanity bounds on physically
	// plausible entries; lines outside them are rejected.
	MaxWeight float64
	MinReps   int
	MaxReps   int
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		FuzzyThreshold: exercise.DefaultThreshold,
		MaxWeight:      1000,
		MinReps:        3,
		MaxReps:        50,
	}
}

// Parser turns raw messages into ParsedPR records. Stateless and safe
// for concurrent use.
type Parser struct {
	opts Options
}

// New creates a Parser with the given options.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// strictRe is the single canonical input shape: exercise text, then
// weight (decimal or the bodyweight token), a slash, and integer reps.
var strictRe = regexp.MustCompile(`^(.+?)\s+([0-9]+\.?[0-9]*|[bB][wW])\s*/\s*([0-9]+)$`)

// Parse extracts one PR from a message. programExercises is the user's
// ordered program vocabulary (see exercise.Match for the ordering
// contract). Returns false for coach comments (leading *), lines that do
// not match the expected shape, and entries outside the sanity bounds;
// all are valid negative outcomes, not errors.
func (p *Parser) Parse(message string, programExercises []string) (*models.ParsedPR, bool) {
	msg := strings.TrimSpace(message)
	if msg == "" || strings.HasPrefix(msg, "*") {
		return nil, false
	}

	rawExercise, weight, reps, ok := p.extract(msg)
	if !ok {
		return nil, false
	}

	if weight < 0 || weight > p.opts.MaxWeight {
		return nil, false
	}
	if reps < p.opts.MinReps || reps > p.opts.MaxReps {
		return nil, false
	}

	res := exercise.Resolve(rawExercise, &weight, programExercises, p.opts.FuzzyThreshold)
	if res.Canonical == "" {
		return nil, false
	}

	return &models.ParsedPR{
		RawExercise:       rawExercise,
		CanonicalExercise: res.Canonical,
		Weight:            weight,
		Reps:              reps,
		Estimated1RM:      EstimateOneRepMax(weight, reps),
		MatchScore:        res.Score,
		UsedFuzzy:         res.UsedFuzzy,
	}, true
}

// ParseAll splits a message on newlines and parses each line, so one
// message can log several PRs.
func (p *Parser) ParseAll(message string, programExercises []string) []models.ParsedPR {
	var prs []models.ParsedPR
	for _, line := range strings.Split(message, "\n") {
		if parsed, ok := p.Parse(line, programExercises); ok {
			prs = append(prs, *parsed)
		}
	}
	return prs
}

// extract pulls (exercise text, weight, reps) out of a trimmed line.
func (p *Parser) extract(msg string) (string, float64, int, bool) {
	if p.opts.Permissive {
		return extractPermissive(msg)
	}

	m := strictRe.FindStringSubmatch(msg)
	if m == nil {
		return "", 0, 0, false
	}

	rawExercise := strings.TrimSpace(m[1])

	var weight float64
	if strings.EqualFold(m[2], "bw") {
		weight = 0
	} else {
		w, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return "", 0, 0, false
		}
		weight = w
	}

	reps, err := strconv.Atoi(m[3])
	if err != nil {
		return "", 0, 0, false
	}

	return rawExercise, weight, reps, true
}

// EstimateOneRepMax computes the Epley estimate weight * (1 + reps/30).
// Bodyweight entries (weight 0) are not scored: rep count is the tracked
// metric for those, so the estimate is 0. The result is advisory and
// never rounded here; presentation code formats it.
func EstimateOneRepMax(weight float64, reps int) float64 {
	if weight == 0 {
		return 0
	}
	return weight * (1 + float64(reps)/30)
}
