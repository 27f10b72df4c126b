package pr

import (
	"regexp"
	"strconv"
	"strings"
)

// Permissive extraction: the looser ingestion mode kept for backfilling
// historical logs that predate the strict "<exercise> <weight>/<reps>"
// format. It tolerates filler words, units, several separators, and the
// reversed "reps x weight exercise" shape.

var (
	bodyweightRe = regexp.MustCompile(`\b(?:bw|bodyweight)\b`)
	fillerRe     = regexp.MustCompile(`\b(?:pr|new pr|hit|got|did|at|for|with|just|finally|crushed)\b`)
	repWordRe    = regexp.MustCompile(`\b(?:reps?|repetitions?)\b`)
	unitRe       = regexp.MustCompile(`\b(?:lbs?|pounds?|kgs?|kilos?)\b`)
	nonWordRe    = regexp.MustCompile(`[^\w\s.]`)
)

// permissivePatterns are tried in order; the first hit wins.
var permissivePatterns = []*regexp.Regexp{
	// exercise weight/reps, weight*reps, weight x reps
	regexp.MustCompile(`^(.+?)\s+([\d.]+)\s*[/*x×]\s*(\d+)`),
	// exercise weight - reps
	regexp.MustCompile(`^(.+?)\s+([\d.]+)\s*-\s*(\d+)`),
	// exercise: weight/reps
	regexp.MustCompile(`^(.+?):\s*([\d.]+)\s*[/*x×]\s*(\d+)`),
	// exercise weight reps
	regexp.MustCompile(`^(.+?)\s+([\d.]+)\s+(\d+)$`),
}

// reversedPattern is "reps x weight exercise".
var reversedPattern = regexp.MustCompile(`^(\d+)\s*[x×]\s*([\d.]+)\s+(.+)$`)

func extractPermissive(msg string) (string, float64, int, bool) {
	text := strings.ToLower(msg)
	text = bodyweightRe.ReplaceAllString(text, "0")
	text = fillerRe.ReplaceAllString(text, " ")
	text = repWordRe.ReplaceAllString(text, "")
	text = unitRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(wsRe.ReplaceAllString(text, " "))
	if text == "" {
		return "", 0, 0, false
	}

	if m := reversedPattern.FindStringSubmatch(text); m != nil {
		reps, err1 := strconv.Atoi(m[1])
		weight, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			if name, ok := cleanExercise(m[3]); ok {
				return name, weight, reps, true
			}
		}
	}

	for _, pat := range permissivePatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		weight, err1 := strconv.ParseFloat(m[2], 64)
		reps, err2 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil {
			continue
		}
		if name, ok := cleanExercise(m[1]); ok {
			return name, weight, reps, true
		}
	}

	return "", 0, 0, false
}

var wsRe = regexp.MustCompile(`\s+`)

func cleanExercise(s string) (string, bool) {
	s = nonWordRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
	return s, s != ""
}
