package models

// Plan names, ordered Basic < Standard < Premium by quota ceiling.
const (
	PlanBasic    = "Basic"
	PlanStandard = "Standard"
	PlanPremium  = "Premium"
)

// PlanBase is a static pricing catalog entry. MinHouse and MaxHouse are the
// inclusive listing-count bounds for the tier; plans are not billed.
type PlanBase struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	MinHouse int     `json:"min_house"`
	MaxHouse int     `json:"max_house"`
}

// Plans is the full catalog in upgrade order.
var Plans = []PlanBase{
	{Name: PlanBasic, Price: 0, MinHouse: 0, MaxHouse: 2},
	{Name: PlanStandard, Price: 20000, MinHouse: 3, MaxHouse: 7},
	{Name: PlanPremium, Price: 50000, MinHouse: 8, MaxHouse: 12},
}

// PlanByName looks up a catalog entry by name.
func PlanByName(name string) (PlanBase, bool) {
	for _, p := range Plans {
		if p.Name == name {
			return p, true
		}
	}
	return PlanBase{}, false
}

// NextPlan returns the plan one step above the given one. The second return
// is false when the plan is unknown or already Premium.
func NextPlan(name string) (string, bool) {
	for i, p := range Plans {
		if p.Name == name {
			if i+1 < len(Plans) {
				return Plans[i+1].Name, true
			}
			return "", false
		}
	}
	return "", false
}

// QuotaFor returns the listing limit for a plan name. Unknown or empty plan
// names fall back to the Basic limit, matching how records created before
// plans existed are treated.
func QuotaFor(name string) int {
	if p, ok := PlanByName(name); ok {
		return p.MaxHouse
	}
	return Plans[0].MaxHouse
}
