package ingest

import (
	"strings"

	"healthscore/internal/store"
)

// activityAliases maps export workout names onto activity types
var activityAliases = map[string]store.ActivityType{
	"running":                       store.ActivityRunning,
	"run":                           store.ActivityRunning,
	"outdoor_run":                   store.ActivityRunning,
	"indoor_run":                    store.ActivityRunning,
	"cycling":                       store.ActivityCycling,
	"outdoor_cycle":                 store.ActivityCycling,
	"indoor_cycle":                  store.ActivityCycling,
	"swimming":                      store.ActivitySwimming,
	"swim":                          store.ActivitySwimming,
	"pool_swim":                     store.ActivitySwimming,
	"open_water_swim":               store.ActivitySwimming,
	"strength_training":             store.ActivityStrength,
	"traditional_strength_training": store.ActivityStrength,
	"functional_training":           store.ActivityFunctional,
	"functional_strength_training":  store.ActivityFunctional,
	"core_training":                 store.ActivityCore,
	"flexibility":                   store.ActivityFlexibility,
	"pilates":                       store.ActivityFlexibility,
	"hiit":                          store.ActivityHIIT,
	"interval_training":             store.ActivityHIIT,
	"rowing":                        store.ActivityRowing,
	"elliptical":                    store.ActivityElliptical,
	"hiking":                        store.ActivityHiking,
	"walking":                       store.ActivityWalking,
	"outdoor_walk":                  store.ActivityWalking,
	"yoga":                          store.ActivityYoga,
}

// ParseActivityType normalises an export workout name. Unknown names map to other.
func ParseActivityType(name string) store.ActivityType {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if t, ok := activityAliases[key]; ok {
		return t
	}
	return store.ActivityOther
}
