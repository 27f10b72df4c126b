package exercise

import "regexp"

// rule is one rewrite in an ordered table: every occurrence of re is
// replaced with repl. Tables are applied top to bottom, so later rules
// may act on the output of earlier ones.
type rule struct {
	re   *regexp.Regexp
	repl string
}

func compileRules(pairs [][2]string) []rule {
	rules := make([]rule, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, rule{re: regexp.MustCompile(p[0]), repl: p[1]})
	}
	return rules
}

func applyRules(s string, rules []rule) string {
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

// typoRules fixes known misspellings seen in real logs. Word-boundary
// matched so corrections never fire inside longer words.
var typoRules = compileRules([][2]string{
	{`\bweighte\b`, "weighted"},
	{`\bex bar\b`, "ez bar"},
	{`\bdumbell\b`, "dumbbell"},
	{`\bdumbel\b`, "dumbbell"},
	{`\bbarbel\b`, "barbell"},
	{`\bbentch\b`, "bench"},
	{`\bmilitery\b`, "military"},
	{`\bmillitary\b`, "military"},
	{`\bromainian\b`, "romanian"},
	{`\bskullcrushers?\b`, "tricep extension"},
	{`\bskull crushers?\b`, "tricep extension"},
})

// equipmentAbbrevRules expands equipment shorthand.
var equipmentAbbrevRules = compileRules([][2]string{
	{`\bdb\b`, "dumbbell"},
	{`\bbb\b`, "barbell"},
	{`\bkb\b`, "kettlebell"},
	{`\bmb\b`, "medicine ball"},
})

// movementAbbrevRules expands exercise and modifier shorthand. "oh" is
// handled separately because its expansion depends on context.
var movementAbbrevRules = compileRules([][2]string{
	{`\brdl\b`, "romanian deadlift"},
	{`\bdl\b`, "deadlift"},
	{`\bohp\b`, "overhead press"},
	{`\bbp\b`, "bench press"},
	{`\bfs\b`, "front squat"},
	{`\bbs\b`, "back squat"},
	{`\bghr\b`, "glute ham raise"},
	{`\brdf\b`, "rear delt fly"},
	{`\bcs\b`, "chest supported"},
	{`\bsa\b`, "single arm"},
	{`\bsl\b`, "single leg"},
	{`\bhspu\b`, "handstand pushup"},
	{`\ber\b`, "external rotation"},
	{`\bone arm\b`, "single arm"},
	{`\b1 arm\b`, "single arm"},
	{`\bone leg\b`, "single leg"},
	{`\b1 leg\b`, "single leg"},
	{`\bpronated\b`, "overhand"},
	{`\bsupinated\b`, "underhand"},
	{`\bsupine\b`, "lying"},
	{`\buh\b`, "underhand"},
})

var (
	ezRe = regexp.MustCompile(`\bez\b`)
	ohRe = regexp.MustCompile(`\boh\b`)
	// the words that flip "oh" from overhead to overhand, in either order
	// relative to the token itself
	ohCompanionRe = regexp.MustCompile(`\boh\b.*\b(pull ?downs?|pull ?ups?|rows?|curls?)\b|\b(pull ?downs?|pull ?ups?|rows?|curls?)\b.*\boh\b`)
)

// equipmentRules folds equivalent equipment phrasing into one canonical
// token per piece of equipment.
var equipmentRules = compileRules([][2]string{
	{`\bsuspension trainer\b`, "trx"},
	{`\bsuspension\b`, "trx"},
	{`\bcables\b`, "cable"},
	{`\bez curl bar\b`, "ez bar"},
	{`\beasy bar\b`, "ez bar"},
	{`\btoe press\b`, "leg press calf raise"},
	{`\bswiss ball leg curl\b`, "stability ball leg curl"},
	{`\bball leg curl\b`, "stability ball leg curl"},
	{`\bgliding disk leg curl\b`, "slider leg curl"},
	{`\bgliding leg curl\b`, "slider leg curl"},
	{`\btowel leg curl\b`, "slider leg curl"},
})

var (
	smithRe  = regexp.MustCompile(`\bsmith\b`)
	bandedRe = regexp.MustCompile(`\bbanded\b`)
)

// compoundRules fuses two-word names conventionally written as one token.
// Plural spaced forms fold straight to the singular compound.
var compoundRules = compileRules([][2]string{
	{`\bchin ups?\b`, "chinup"},
	{`\bpull ups?\b`, "pullup"},
	{`\bpush ups?\b`, "pushup"},
	{`\bsit ups?\b`, "situp"},
	{`\bstep ups?\b`, "stepup"},
	{`\bface pulls?\b`, "facepull"},
	{`\bpush downs?\b`, "pushdown"},
	{`\bpull downs?\b`, "pulldown"},
})

// pluralRules maps plural exercise nouns to singular. Applied after
// compound fusion so fused tokens are covered too. "dips" is absent on
// purpose: its canonical name is plural.
var pluralRules = compileRules([][2]string{
	{`\braises\b`, "raise"},
	{`\bextensions\b`, "extension"},
	{`\btriceps\b`, "tricep"},
	{`\bcurls\b`, "curl"},
	{`\bflyes?\b`, "fly"},
	{`\bflies\b`, "fly"},
	{`\bflys\b`, "fly"},
	{`\bshrugs\b`, "shrug"},
	{`\bsquats\b`, "squat"},
	{`\bdeadlifts\b`, "deadlift"},
	{`\blunges\b`, "lunge"},
	{`\bpresses\b`, "press"},
	{`\brows\b`, "row"},
	{`\bpullovers\b`, "pullover"},
	{`\brollouts\b`, "rollout"},
	{`\bpulldowns\b`, "pulldown"},
	{`\bpushdowns\b`, "pushdown"},
	{`\bfacepulls\b`, "facepull"},
	{`\bpullups\b`, "pullup"},
	{`\bchinups\b`, "chinup"},
	{`\bpushups\b`, "pushup"},
	{`\bsitups\b`, "situp"},
	{`\bstepups\b`, "stepup"},
	{`\bthrusts\b`, "thrust"},
	{`\brotations\b`, "rotation"},
	{`\bmornings\b`, "morning"},
	{`\bhangs\b`, "hang"},
})

// modifierRules standardizes minor phrasing variants and puts position
// words in the conventional "<position> dumbbell" order.
var modifierRules = compileRules([][2]string{
	{`\bpause reps?\b`, "paused"},
	{`\bbody weight\b`, "bodyweight"},
	{`\bdumbbell (seated|standing|incline|flat|decline)\b`, "$1 dumbbell"},
})

// trailingRules strip tempo, duration and rep-count annotations that
// follow the exercise name.
var trailingRules = compileRules([][2]string{
	{`\s+\d+ seconds?$`, ""},
	{`\s+each side$`, ""},
	{`\s+x\s*\d+$`, ""},
	{`\s+\d+ \d+ \d+$`, ""},
})

// exactRewrites resolves a bare name to its family default. Keys match
// the whole normalized string only.
var exactRewrites = map[string]string{
	"curl":       "bicep curl",
	"pulldown":   "lat pulldown",
	"deadlift":   "conventional deadlift",
	"dip":        "dips",
	"calf raise": "standing calf raise",
	"rollout":    "ab rollout",
	"pushdown":   "tricep pushdown",
	"pullover":   "dumbbell pullover",
	"dumbbell row": "single arm dumbbell row",
}

var (
	lateralRe       = regexp.MustCompile(`\blaterals?\b`)
	latRaiseRe      = regexp.MustCompile(`\blat raises?\b`)
	extensionRe     = regexp.MustCompile(`\bextension\b`)
	extensionGuard  = regexp.MustCompile(`\b(leg|back|hip|hyper|reverse)\b`)
	reverseHyperRe  = regexp.MustCompile(`\breverse hyper ?extension\b`)
	hyperExtWordRe  = regexp.MustCompile(`\bhyperextensions?\b`)
	hyperExtTwoRe   = regexp.MustCompile(`\bhyper extension\b`)
	bareHyperRe     = regexp.MustCompile(`\bhyper\b`)
	sumoRe          = regexp.MustCompile(`\bsumo\b`)
	benchRe         = regexp.MustCompile(`\bbench\b`)
	squatExactRe    = regexp.MustCompile(`^squat$`)
	bandAssistTagRe = regexp.MustCompile(`\b(chin|pull) ?ups?\b`)
)

// familyRules is the hand-curated canonicalization set: one canonical
// name per exercise family. Order is load-bearing; several later rules
// assume earlier ones already ran.
var familyRules = compileRules([][2]string{
	// curls
	{`\bbiceps curl\b`, "bicep curl"},
	{`\bcable curl\b`, "cable bicep curl"},

	// chest presses
	{`\bflat bench press\b`, "bench press"},
	{`\bincline press\b`, "incline bench press"},
	{`\bdecline press\b`, "decline bench press"},

	// shoulder presses fold to one name
	{`\bshoulder press\b`, "military press"},
	{`\boverhead press\b`, "military press"},

	// rows
	{`\bbent over barbell row\b`, "barbell row"},
	{`\bbent row\b`, "barbell row"},
	{`\bbent dumbbell row\b`, "bent over dumbbell row"},

	// pulldowns
	{`\bwide grip pulldown\b`, "wide grip lat pulldown"},
	{`\bwide pulldown\b`, "wide grip lat pulldown"},
	{`\bclose grip pulldown\b`, "close grip lat pulldown"},
	{`\bclose pulldown\b`, "close grip lat pulldown"},

	// pullups / chinups
	{`\bpulls\b`, "pullup"},
	{`\bchins\b`, "chinup"},

	// squats
	{`\bdumbbell goblet squat\b`, "goblet squat"},
	{`\bkettlebell goblet squat\b`, "goblet squat"},
	{`\bbulgarian split squat\b`, "rear foot elevated split squat"},

	// deadlifts
	{`\bhex bar deadlift\b`, "trap bar deadlift"},

	// hip thrusts
	{`\bbarbell hip thrust\b`, "hip thrust"},

	// dips
	{`\bparallel bar dips?\b`, "dips"},

	// facepulls
	{`\bcable facepull\b`, "facepull"},
	{`\brope facepull\b`, "facepull"},

	// flies
	{`\bpec deck\b`, "machine fly"},
	{`\breverse fly\b`, "rear delt fly"},
	{`\bbent over fly\b`, "rear delt fly"},
	{`\brear fly\b`, "rear delt fly"},

	// shrugs
	{`\btrap shrug\b`, "shrug"},

	// calf raises
	{`\bcalf raises\b`, "calf raise"},

	// ab work
	{`\bab wheel rollout\b`, "ab rollout"},
	{`\bab wheel\b`, "ab rollout"},

	// dead hangs
	{`\bhang from bar\b`, "dead hang"},
	{`\bbar hang\b`, "dead hang"},

	// tricep pushdown variants all fold to the straight-bar default
	{`\bv bar pushdown\b`, "tricep pushdown"},
	{`\bez bar pushdown\b`, "tricep pushdown"},

	// good mornings
	{`\bbarbell good morning\b`, "good morning"},

	// pullovers
	{`\bstraight arm pulldown\b`, "cable pullover"},

	// machine naming order
	{`\bchest press machine\b`, "machine chest press"},

	// external rotation
	{`\bext rotation\b`, "external rotation"},
})

// inclineRules bucket explicit angles and low/high/steep qualifiers into
// the three-bucket incline scheme. Applied to presses only.
var inclineRules = compileRules([][2]string{
	{`\b(30 degree|low) incline\b`, "low incline"},
	{`\b(60 degree|high|steep) incline\b`, "high incline"},
	{`\b45 degree incline\b`, "incline"},
})
