// Package exercise canonicalizes free-form exercise names and matches
// them against a user's program vocabulary.
//
// Normalization is an ordered rewrite pipeline:
//
//  1. lowercase, strip punctuation and parentheticals, hyphens to spaces
//  2. typo corrections
//  3. leading-article strip
//  4. abbreviation expansion (equipment, movements, grips, context-
//     sensitive "oh")
//  5. equipment-synonym folding
//  6. compound-word fusion (chin up -> chinup)
//  7. plural normalization
//  8. positional/modifier standardization
//  9. implicit-press completion (db bench -> dumbbell bench press)
//  10. trailing-modifier stripping
//  11. exercise-family canonicalization (including weight-conditioned
//     squat resolution)
//  12. duplicate-token collapse
//  13. final trim
//
// The pipeline is idempotent: feeding its own output back in with the
// same weight yields the same string.
package exercise

import (
	"regexp"
	"strings"
)

var (
	wsRe    = regexp.MustCompile(`\s+`)
	parenRe = regexp.MustCompile(`\([^)]*\)`)
)

// Normalize rewrites a raw exercise name into its canonical spelling.
// weight is optional context: a bare "squat" resolves to "bodyweight
// squat" at 0, "barbell back squat" above 15, and is left alone in the
// ambiguous band between. The empty string means "not an exercise name";
// lines starting with * are reserved for coach comments and always map
// to it.
func Normalize(raw string, weight *float64) string {
	if strings.HasPrefix(strings.TrimSpace(raw), "*") {
		return ""
	}

	s := preprocess(raw)
	if s == "" {
		return ""
	}

	s = applyRules(s, typoRules)
	s = strings.TrimPrefix(s, "the ")
	s = expandAbbreviations(s)
	s = foldEquipment(s)
	s = applyRules(s, compoundRules)
	s = applyRules(s, pluralRules)
	s = applyRules(s, modifierRules)
	s = completeBenchPress(s)
	s = stripTrailing(s)
	s = canonicalizeFamilies(s, weight)
	s = collapseRepeats(s)

	return strings.TrimSpace(s)
}

// preprocess lowercases and scrubs punctuation so every later rule can
// assume clean, space-separated lowercase tokens.
func preprocess(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, "!", "")
	s = parenRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

func expandAbbreviations(s string) string {
	s = applyRules(s, equipmentAbbrevRules)

	// "ez" only expands when "ez bar" is not already spelled out,
	// otherwise repeated normalization would double the word.
	if strings.Contains(s, "ez") && !strings.Contains(s, "ez bar") {
		s = ezRe.ReplaceAllString(s, "ez bar")
	}

	s = applyRules(s, movementAbbrevRules)

	// "oh" is the one genuinely ambiguous abbreviation: next to a pull
	// movement it means overhand, everywhere else overhead.
	if ohCompanionRe.MatchString(s) {
		s = ohRe.ReplaceAllString(s, "overhand")
	} else {
		s = ohRe.ReplaceAllString(s, "overhead")
	}

	return s
}

func foldEquipment(s string) string {
	s = applyRules(s, equipmentRules)

	// "smith" alone means the smith machine
	if strings.Contains(s, "smith") && !strings.Contains(s, "smith machine") {
		s = smithRe.ReplaceAllString(s, "smith machine")
	}

	// "banded" on a pullup or chinup means band-assisted
	if bandAssistTagRe.MatchString(s) {
		s = bandedRe.ReplaceAllString(s, "band assisted")
	}

	return s
}

// completeBenchPress inserts the implied "press": "db bench" is always
// "dumbbell bench press".
func completeBenchPress(s string) string {
	if strings.Contains(s, "bench") && !strings.Contains(s, "press") {
		s = benchRe.ReplaceAllString(s, "bench press")
	}
	return s
}

// stripTrailing removes tempo, duration and rep-count annotations from
// the end of the name. Annotations stack ("curl each side x3"), and
// each rule is anchored to the current end of the string, so the table
// reruns until the string stops changing.
func stripTrailing(s string) string {
	for {
		next := applyRules(s, trailingRules)
		if next == s {
			return s
		}
		s = next
	}
}

func canonicalizeFamilies(s string, weight *float64) string {
	// lateral raises: a bare "lateral"/"laterals" means the raise
	if strings.Contains(s, "lateral") && !strings.Contains(s, "raise") {
		s = lateralRe.ReplaceAllString(s, "lateral raise")
	}
	s = latRaiseRe.ReplaceAllString(s, "lateral raise")

	// a bare "extension" is a tricep extension unless qualified by a
	// different extension family
	if strings.Contains(s, "extension") && !strings.Contains(s, "tricep") && !extensionGuard.MatchString(s) {
		s = extensionRe.ReplaceAllString(s, "tricep extension")
	}

	// back-extension family
	s = reverseHyperRe.ReplaceAllString(s, "reverse hyper")
	if !strings.Contains(s, "reverse") {
		s = hyperExtWordRe.ReplaceAllString(s, "back extension")
		s = hyperExtTwoRe.ReplaceAllString(s, "back extension")
		s = bareHyperRe.ReplaceAllString(s, "back extension")
	}

	// bare "curl" defaults to bicep curl; other whole-name defaults too
	if repl, ok := exactRewrites[s]; ok {
		s = repl
	}

	// weight-conditioned squat resolution: only a bare "squat" is
	// ambiguous, and only resolvable with weight context
	if weight != nil && squatExactRe.MatchString(s) {
		switch {
		case *weight == 0:
			s = "bodyweight squat"
		case *weight > 15:
			s = "barbell back squat"
		}
	}

	// "sumo" alone implies the deadlift
	if strings.Contains(s, "sumo") && !strings.Contains(s, "sumo deadlift") {
		s = sumoRe.ReplaceAllString(s, "sumo deadlift")
	}

	s = applyRules(s, familyRules)

	// whole-name defaults again: family rules can reduce a phrase to a
	// bare name ("trap shrug" -> "shrug" stays, but "calf raises" ->
	// "calf raise" now picks up its standing default)
	if repl, ok := exactRewrites[s]; ok {
		s = repl
	}

	// incline-angle bucketing applies to presses only
	if strings.Contains(s, "press") {
		s = applyRules(s, inclineRules)
	}

	return s
}

// collapseRepeats removes immediately repeated words, guarding against
// rules double-inserting a token ("tricep tricep extension").
func collapseRepeats(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	out := words[:1]
	for _, w := range words[1:] {
		if w != out[len(out)-1] {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}
