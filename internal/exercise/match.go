package exercise

import "math"

// DefaultThreshold is the minimum similarity score at which a fuzzy
// match is adopted as the canonical name.
const DefaultThreshold = 85

// nearMissFloor separates near misses, which keep the input but report
// how close the best candidate came, from unrelated input, which
// reports no score at all.
const nearMissFloor = 70

// MatchResult is the outcome of matching a normalized name against a
// program list.
type MatchResult struct {
	Canonical string `json:"canonical"`
	Score     int    `json:"score"`
	UsedFuzzy bool   `json:"used_fuzzy"`
}

// Match reconciles an already-normalized name against the user's program
// exercises. candidates must be in program order: when several candidates
// score identically, the one listed first wins, because users log
// exercises in the order their program assigns them. The list is used as
// given and never cached; supplying a stable, meaningfully ordered list
// is the caller's contract.
//
// An exact hit returns score 100 and is never flagged fuzzy. Below the
// threshold the input itself is returned unchanged, so off-program work
// is kept as typed rather than being conflated with a dissimilar
// program exercise.
func Match(normalized string, candidates []string, threshold int) MatchResult {
	if normalized == "" {
		return MatchResult{}
	}

	for _, c := range candidates {
		if c == normalized {
			return MatchResult{Canonical: normalized, Score: 100}
		}
	}

	if len(candidates) == 0 {
		return MatchResult{Canonical: normalized}
	}

	best := ""
	bestScore := 0
	for _, c := range candidates {
		// strictly greater keeps the earliest candidate on ties
		if score := Similarity(normalized, c); score > bestScore {
			bestScore = score
			best = c
		}
	}

	if bestScore >= threshold {
		return MatchResult{Canonical: best, Score: bestScore, UsedFuzzy: true}
	}
	if bestScore >= nearMissFloor {
		// near miss: keep the input, record how close it came
		return MatchResult{Canonical: normalized, Score: bestScore}
	}
	return MatchResult{Canonical: normalized}
}

// Resolve normalizes raw input (with weight context) and matches it
// against the program list.
func Resolve(raw string, weight *float64, candidates []string, threshold int) MatchResult {
	normalized := Normalize(raw, weight)
	if normalized == "" {
		return MatchResult{}
	}
	return Match(normalized, candidates, threshold)
}

// Similarity scores two strings 0..100 from their Levenshtein distance
// normalized by the longer length, measured in runes so multibyte input
// is not penalized per byte. Symmetric; case-sensitive over
// already-lowercased input.
func Similarity(a, b string) int {
	if a == b {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 100
	}
	d := levenshtein(ra, rb)
	return int(math.Round(100 * (1 - float64(d)/float64(maxLen))))
}

// levenshtein computes edit distance with the two-row dynamic program.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
