package safety

// Adjustment is the result of personalizing a base score: the clamped,
// rounded adjusted score and the message of every rule that fired, in rule
// order.
type Adjustment struct {
	AdjustedScore      float64
	AdjustmentsApplied []string
}

// rule is one personalization step.  Rules compound: each applies to the
// running score left by the rules before it, so evaluation order is part of
// the contract.
type rule struct {
	message string
	applies func(p Profile, f Features) bool
	apply   func(score float64) float64
}

// profileRules is the fixed, ordered rule set.  Several rules may fire on the
// same request; their effects compound multiplicatively/additively in this
// exact sequence.
var profileRules = []rule{
	{
		message: "Walking at night reduces safety score.",
		applies: func(p Profile, _ Features) bool { return p.Mode == ModeWalking && p.IsNight },
		apply:   func(s float64) float64 { return s * 0.75 },
	},
	{
		message: "Cycling at night reduces safety score.",
		applies: func(p Profile, _ Features) bool { return p.Mode == ModeCycling && p.IsNight },
		apply:   func(s float64) float64 { return s * 0.85 },
	},
	{
		message: "Driving generally increases safety.",
		applies: func(p Profile, _ Features) bool { return p.Mode == ModeDriving },
		apply:   func(s float64) float64 { return capOne(s * 1.05) },
	},
	{
		message: "Large group size enhances safety.",
		applies: func(p Profile, _ Features) bool { return p.GroupSize >= 4 },
		apply:   func(s float64) float64 { return capOne(s + 0.08) },
	},
	{
		message: "Traveling alone at night reduces safety.",
		applies: func(p Profile, _ Features) bool { return p.GroupSize == 1 && p.IsNight },
		apply:   func(s float64) float64 { return s * 0.90 },
	},
	{
		message: "Gender sensitive profile penalty for poor lighting.",
		applies: func(p Profile, f Features) bool { return p.GenderSensitive && f.LightingScore < 4 },
		apply:   func(s float64) float64 { return s * 0.88 },
	},
	{
		message: "Gender sensitive profile penalty for isolated areas.",
		applies: func(p Profile, f Features) bool { return p.GenderSensitive && f.IsIsolated == 1 },
		apply:   func(s float64) float64 { return s * 0.85 },
	},
}

func capOne(s float64) float64 {
	if s > 1.0 {
		return 1.0
	}
	return s
}

// Personalize applies the ordered rule set to baseScore for the given profile
// and location features.  The final score is clamped to [0, 1] and rounded to
// four decimals; baseScore itself may be any real number.
func Personalize(baseScore float64, p Profile, f Features) Adjustment {
	score := baseScore
	applied := []string{}

	for _, r := range profileRules {
		if r.applies(p, f) {
			score = r.apply(score)
			applied = append(applied, r.message)
		}
	}

	if score < 0.0 {
		score = 0.0
	}
	if score > 1.0 {
		score = 1.0
	}

	return Adjustment{
		AdjustedScore:      Round4(score),
		AdjustmentsApplied: applied,
	}
}
