package house

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/hearth/pkg/needs"
)

// Exit categories leave the interior instead of restoring needs.
const (
	CategoryDoor        = "door"
	CategoryMansionDoor = "mansion_door"
)

// itemRule describes what using one category of furniture does.
// The first effect is the primary need: it alone decides whether the
// "restored" or the "not needed" message is shown.
type itemRule struct {
	Effects []needs.Effect
	Lead    string // opens the restored message
	Tail    string // closes the restored message
	Idle    string // shown when the primary need gained nothing
}

// itemRules is the single source of truth for furniture effects.
var itemRules = map[string]itemRule{
	"bed": {
		Effects: []needs.Effect{{Need: needs.Sleep, Amount: 0.8}, {Need: needs.Fun, Amount: 0.3}},
		Lead:    "💤 You sleep peacefully and dream sweetly!",
		Tail:    "You feel refreshed and ready for the day!",
		Idle:    "💤 You're not tired right now, but lying in your comfortable bed is still relaxing.",
	},
	"stove": {
		Effects: []needs.Effect{{Need: needs.Hunger, Amount: 0.6}, {Need: needs.Fun, Amount: 0.15}},
		Lead:    "🍳 You cook a hot, delicious meal on the stove! The aroma fills the kitchen.",
		Idle:    "🍳 You're not hungry, but you enjoy cooking something special on your stove.",
	},
	"refrigerator": {
		Effects: []needs.Effect{{Need: needs.Hunger, Amount: 0.4}},
		Lead:    "🧊 You grab some fresh snacks and drinks from the fridge!",
		Tail:    "Cold and refreshing!",
		Idle:    "🧊 You browse through your well-stocked refrigerator but you're not hungry right now.",
	},
	"table": {
		Effects: []needs.Effect{{Need: needs.Social, Amount: 0.2}, {Need: needs.Fun, Amount: 0.1}},
		Lead:    "🍽️ You sit at your dining table and enjoy a peaceful meal!",
		Tail:    "A proper dining experience!",
		Idle:    "🍽️ You don't need company right now, but a quiet seat at the table is still pleasant.",
	},
	"couch": {
		Effects: []needs.Effect{{Need: needs.Fun, Amount: 0.3}, {Need: needs.Sleep, Amount: 0.15}},
		Lead:    "🛋️ You sink into your comfortable couch and relax!",
		Tail:    "So cozy!",
		Idle:    "🛋️ You're not bored right now, but the couch is as comfortable as ever.",
	},
	"tv": {
		Effects: []needs.Effect{{Need: needs.Fun, Amount: 0.5}},
		Lead:    "📺 You watch your favorite shows and movies!",
		Tail:    "Great entertainment!",
		Idle:    "📺 You're entertained enough already, but one more episode never hurts.",
	},
	"bookshelf": {
		Effects: []needs.Effect{{Need: needs.Fun, Amount: 0.25}, {Need: needs.Social, Amount: 0.1}},
		Lead:    "📚 You read an interesting book from your collection!",
		Tail:    "Knowledge is power!",
		Idle:    "📚 You're not looking for distraction, but browsing your books is still enjoyable.",
	},
	"dresser": {
		Effects: []needs.Effect{{Need: needs.Social, Amount: 0.15}, {Need: needs.Fun, Amount: 0.1}},
		Lead:    "👗 You organize your clothes and pick out a nice outfit!",
		Tail:    "Looking good!",
		Idle:    "👗 You already feel presentable, but tidying the dresser is satisfying.",
	},
	"toilet": {
		Effects: []needs.Effect{{Need: needs.Sleep, Amount: 0.1}, {Need: needs.Fun, Amount: 0.05}},
		Lead:    "🚽 You use the toilet and feel relieved!",
		Tail:    "Much better!",
		Idle:    "🚽 You don't really need to go, but a short break is nice.",
	},
	"sink": {
		Effects: []needs.Effect{{Need: needs.Social, Amount: 0.1}, {Need: needs.Sleep, Amount: 0.05}},
		Lead:    "🚿 You wash your hands and face at the sink!",
		Tail:    "Fresh and clean!",
		Idle:    "🚿 You're already fresh, but cool water on your face feels good anyway.",
	},
}

// ItemEffects returns the nominal effects of using a furniture category.
func ItemEffects(category string) ([]needs.Effect, bool) {
	rule, ok := itemRules[category]
	if !ok {
		return nil, false
	}
	return append([]needs.Effect(nil), rule.Effects...), true
}

// IsExit reports whether using the category leaves the interior.
func IsExit(category string) bool {
	return category == CategoryDoor || category == CategoryMansionDoor
}

func (r itemRule) message(gains []needs.Gain) string {
	if len(gains) == 0 || gains[0].Amount <= 0 {
		return r.Idle
	}
	var b strings.Builder
	b.WriteString(r.Lead)
	b.WriteString(" Restored ")
	b.WriteString(summarize(gains))
	b.WriteString(".")
	if r.Tail != "" {
		b.WriteString(" ")
		b.WriteString(r.Tail)
	}
	return b.String()
}

// summarize renders gains as "80% sleep and 30% fun" or
// "10% sleep, 5% fun, and 5% social".
func summarize(gains []needs.Gain) string {
	parts := make([]string, len(gains))
	for i, g := range gains {
		parts[i] = fmt.Sprintf("%d%% %s", needs.Percent(g.Amount), g.Need)
	}
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}

// Activity is a named way of restoring needs with the furniture at home.
type Activity string

const (
	ActivitySleep     Activity = "sleep"
	ActivityCook      Activity = "cook"
	ActivityRelax     Activity = "relax"
	ActivityFreshenUp Activity = "freshen_up"
	ActivityRead      Activity = "read"
)

type activityRule struct {
	Requires []string // any one of these categories must be present
	Effects  []needs.Effect
	Message  string // %s is the occupant's name
}

var activityRules = map[Activity]activityRule{
	ActivitySleep: {
		Requires: []string{"bed"},
		Effects:  []needs.Effect{{Need: needs.Sleep, Amount: 0.8}, {Need: needs.Fun, Amount: 0.3}},
		Message:  "💤 %s sleeps peacefully in their bed and feels refreshed!",
	},
	ActivityCook: {
		Requires: []string{"stove", "refrigerator"},
		Effects:  []needs.Effect{{Need: needs.Hunger, Amount: 0.6}, {Need: needs.Fun, Amount: 0.1}},
		Message:  "🍳 %s cooks a delicious meal in their kitchen!",
	},
	ActivityRelax: {
		Requires: []string{"couch", "tv"},
		Effects:  []needs.Effect{{Need: needs.Fun, Amount: 0.4}, {Need: needs.Sleep, Amount: 0.1}},
		Message:  "📺 %s relaxes on their couch and watches TV!",
	},
	ActivityFreshenUp: {
		Requires: []string{"sink", "toilet"},
		Effects: []needs.Effect{
			{Need: needs.Sleep, Amount: 0.1},
			{Need: needs.Fun, Amount: 0.05},
			{Need: needs.Social, Amount: 0.05},
		},
		Message: "🚿 %s freshens up in their bathroom!",
	},
	ActivityRead: {
		Requires: []string{"bookshelf"},
		Effects:  []needs.Effect{{Need: needs.Fun, Amount: 0.3}, {Need: needs.Social, Amount: 0.1}},
		Message:  "📚 %s reads a good book and learns something new!",
	},
}

// Activities lists the known activities in a stable order.
func Activities() []Activity {
	return []Activity{ActivitySleep, ActivityCook, ActivityRelax, ActivityFreshenUp, ActivityRead}
}

// ActivityRequirements returns the furniture categories an activity can use.
func ActivityRequirements(a Activity) ([]string, bool) {
	rule, ok := activityRules[a]
	if !ok {
		return nil, false
	}
	return append([]string(nil), rule.Requires...), true
}

// ActivityForNeed picks the home activity that best restores need.
func ActivityForNeed(need needs.Need) Activity {
	switch need {
	case needs.Hunger:
		return ActivityCook
	case needs.Sleep:
		return ActivitySleep
	case needs.Fun:
		return ActivityRelax
	case needs.Social:
		return ActivityRead
	default:
		return ActivityFreshenUp
	}
}
