package hunter

// Modifier is a threshold-triggered adjustment to one category
type Modifier struct {
	Name     string
	Category Category
	Delta    float64
}

// IsBuff reports whether the modifier raises its category
func (m Modifier) IsBuff() bool {
	return m.Delta > 0
}

type modifierRule struct {
	name    string
	applies func(Readiness) bool
	effects []Modifier
}

func atLeast(v *float64, threshold float64) bool { return v != nil && *v >= threshold }
func atMost(v *float64, threshold float64) bool  { return v != nil && *v <= threshold }
func below(v *float64, threshold float64) bool   { return v != nil && *v < threshold }

var modifierRules = []modifierRule{
	{
		name:    "Fully Recovered",
		applies: func(r Readiness) bool { return atLeast(r.Recovery, 80) },
		effects: []Modifier{{Category: Agility, Delta: 8}},
	},
	{
		name:    "Run Down",
		applies: func(r Readiness) bool { return atMost(r.Recovery, 40) },
		effects: []Modifier{{Category: Endurance, Delta: -10}},
	},
	{
		name:    "Deep Sleep Streak",
		applies: func(r Readiness) bool { return r.DeepSleepStreak >= 3 },
		effects: []Modifier{
			{Category: Vitality, Delta: 7},
			{Category: MetabolicPower, Delta: 5},
		},
	},
	{
		name:    "Short Sleep",
		applies: func(r Readiness) bool { return below(r.SleepHours, 6) },
		effects: []Modifier{{Category: Vitality, Delta: -8}},
	},
	{
		name:    "Heavy Lifting",
		applies: func(r Readiness) bool { return atLeast(r.Strain, 18) },
		effects: []Modifier{{Category: Strength, Delta: 5}},
	},
	{
		name:    "On The Move",
		applies: func(r Readiness) bool { return atLeast(r.Steps, 12000) },
		effects: []Modifier{{Category: Endurance, Delta: 4}},
	},
}

// ActiveModifiers evaluates every rule independently against r
func ActiveModifiers(r Readiness) []Modifier {
	var out []Modifier
	for _, rule := range modifierRules {
		if !rule.applies(r) {
			continue
		}
		for _, e := range rule.effects {
			e.Name = rule.name
			out = append(out, e)
		}
	}
	return out
}
