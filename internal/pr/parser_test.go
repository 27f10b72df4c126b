package pr

import (
	"math"
	"testing"
)

// TestParseStrict verifies the canonical "<exercise> <weight>/<reps>"
// shape: abbreviation expansion, the BW token, and the Epley estimate.
func TestParseStrict(t *testing.T) {
	p := New(DefaultOptions())

	cases := []struct {
		message       string
		wantRaw       string
		wantCanonical string
		wantWeight    float64
		wantReps      int
		wantE1RM      float64
	}{
		{"db bench 85/12", "db bench", "dumbbell bench press", 85, 12, 119},
		{"chinup BW/8", "chinup", "chinup", 0, 8, 0},
		{"chinup bw/8", "chinup", "chinup", 0, 8, 0},
		{"squat 225/5", "squat", "barbell back squat", 225, 5, 262.5},
		{"squat 0/15", "squat", "bodyweight squat", 0, 15, 0},
		{"rdl 185.5/8", "rdl", "romanian deadlift", 185.5, 8, 185.5 * (1 + 8.0/30)},
		{"skullcrushers 65 / 10", "skullcrushers", "tricep extension", 65, 10, 65 * (1 + 10.0/30)},
	}

	for _, tc := range cases {
		got, ok := p.Parse(tc.message, nil)
		if !ok {
			t.Errorf("Parse(%q) not ok, want PR", tc.message)
			continue
		}
		if got.RawExercise != tc.wantRaw {
			t.Errorf("Parse(%q) raw = %q, want %q", tc.message, got.RawExercise, tc.wantRaw)
		}
		if got.CanonicalExercise != tc.wantCanonical {
			t.Errorf("Parse(%q) canonical = %q, want %q", tc.message, got.CanonicalExercise, tc.wantCanonical)
		}
		if got.Weight != tc.wantWeight {
			t.Errorf("Parse(%q) weight = %v, want %v", tc.message, got.Weight, tc.wantWeight)
		}
		if got.Reps != tc.wantReps {
			t.Errorf("Parse(%q) reps = %d, want %d", tc.message, got.Reps, tc.wantReps)
		}
		if math.Abs(got.Estimated1RM-tc.wantE1RM) > 1e-9 {
			t.Errorf("Parse(%q) e1rm = %v, want %v", tc.message, got.Estimated1RM, tc.wantE1RM)
		}
	}
}

// TestParseRejects verifies that comments, malformed lines and entries
// outside the sanity bounds return ok=false rather than a record.
func TestParseRejects(t *testing.T) {
	p := New(DefaultOptions())

	rejects := []string{
		"",
		"   ",
		"*coach comment squat 225/5",
		"just chatting about lifting",
		"bench press",          // no numbers
		"bench 225",            // no reps
		"deadlift 315/2",       // reps below minimum
		"bench 225/60",         // reps above maximum
		"leg press 1500/10",    // weight above maximum
		"bench -5/10",          // negative weight never matches the shape
		"225/5",                // no exercise text
	}

	for _, msg := range rejects {
		if got, ok := p.Parse(msg, nil); ok {
			t.Errorf("Parse(%q) = %+v, want rejection", msg, got)
		}
	}
}

// TestParseFuzzyProgramMatch verifies that a near-miss of a program
// exercise adopts the program name and records the fuzzy flag and score.
func TestParseFuzzyProgramMatch(t *testing.T) {
	p := New(DefaultOptions())
	program := []string{"bench press", "romanian deadlift"}

	got, ok := p.Parse("romanian deadlfit 185/8", program)
	if !ok {
		t.Fatal("Parse not ok, want PR")
	}
	if got.CanonicalExercise != "romanian deadlift" {
		t.Errorf("canonical = %q, want %q", got.CanonicalExercise, "romanian deadlift")
	}
	if !got.UsedFuzzy {
		t.Error("UsedFuzzy = false, want true")
	}
	if got.MatchScore < 85 {
		t.Errorf("match score = %d, want >= 85", got.MatchScore)
	}

	// exact program hit is not fuzzy
	got, ok = p.Parse("bench press 225/5", program)
	if !ok {
		t.Fatal("Parse not ok, want PR")
	}
	if got.UsedFuzzy || got.MatchScore != 100 {
		t.Errorf("exact hit = %+v, want score 100 and no fuzzy flag", got)
	}
}

// TestParseAll verifies multi-line messages: each parseable line yields
// one PR, everything else is skipped.
func TestParseAll(t *testing.T) {
	p := New(DefaultOptions())

	message := "db bench 85/12\n*felt easy today\nchinup BW/8\nsome chatter\nsquat 225/5"
	prs := p.ParseAll(message, nil)

	if len(prs) != 3 {
		t.Fatalf("ParseAll returned %d PRs, want 3", len(prs))
	}
	want := []string{"dumbbell bench press", "chinup", "barbell back squat"}
	for i, w := range want {
		if prs[i].CanonicalExercise != w {
			t.Errorf("prs[%d] = %q, want %q", i, prs[i].CanonicalExercise, w)
		}
	}
}

// TestParsePermissive verifies the legacy extraction mode: alternative
// separators, reversed order, filler words and unit suffixes.
func TestParsePermissive(t *testing.T) {
	opts := DefaultOptions()
	opts.Permissive = true
	p := New(opts)

	cases := []struct {
		message       string
		wantCanonical string
		wantWeight    float64
		wantReps      int
	}{
		{"bench 225x5", "bench press", 225, 5},
		{"bench 225*5", "bench press", 225, 5},
		{"bench 225 - 5", "bench press", 225, 5},
		{"bench: 225/5", "bench press", 225, 5},
		{"bench 225 5", "bench press", 225, 5},
		{"5x225 bench", "bench press", 225, 5},
		{"hit bench 225 lbs x 5", "bench press", 225, 5},
		{"dips bw x 8", "dips", 0, 8},
	}

	for _, tc := range cases {
		got, ok := p.Parse(tc.message, nil)
		if !ok {
			t.Errorf("Parse(%q) not ok, want PR", tc.message)
			continue
		}
		if got.CanonicalExercise != tc.wantCanonical {
			t.Errorf("Parse(%q) canonical = %q, want %q", tc.message, got.CanonicalExercise, tc.wantCanonical)
		}
		if got.Weight != tc.wantWeight || got.Reps != tc.wantReps {
			t.Errorf("Parse(%q) = %v/%d, want %v/%d", tc.message, got.Weight, got.Reps, tc.wantWeight, tc.wantReps)
		}
	}

	// the strict parser rejects every shape without the slash separator
	strict := New(DefaultOptions())
	for _, msg := range []string{"bench 225x5", "bench 225*5", "bench 225 - 5", "bench 225 5", "5x225 bench"} {
		if _, ok := strict.Parse(msg, nil); ok {
			t.Errorf("strict Parse(%q) accepted, want rejection", msg)
		}
	}
}

// TestEstimateOneRepMax verifies the Epley formula and the bodyweight
// exemption.
func TestEstimateOneRepMax(t *testing.T) {
	cases := []struct {
		weight float64
		reps   int
		want   float64
	}{
		{85, 12, 119},
		{225, 5, 262.5},
		{100, 30, 200},
		{0, 8, 0},
		{315, 1, 315 * (1 + 1.0/30)},
	}
	for _, tc := range cases {
		if got := EstimateOneRepMax(tc.weight, tc.reps); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("EstimateOneRepMax(%v, %d) = %v, want %v", tc.weight, tc.reps, got, tc.want)
		}
	}
}
