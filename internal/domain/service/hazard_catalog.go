package service

import "github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"

// hazardMapping is one row of the hard-coded, versioned-with-the-code
// scenario -> template mapping table (spec §6). It is data, not code paths
// — adding a hazard variant means adding a row here and a CSV, not a new
// type switch anywhere in the materializer or runner.
type hazardMapping struct {
	Scenario   string
	TemplateID string
	Hazard     model.HazardType
}

var hazardCatalog = []hazardMapping{
	{Scenario: "earthquake", TemplateID: "EQ_030", Hazard: model.HazardEarthquake},
	{Scenario: "cyber_attack", TemplateID: "CY_020", Hazard: model.HazardCyber},
	{Scenario: "tsunami", TemplateID: "TS_025", Hazard: model.HazardTsunami},
	{Scenario: "pandemic", TemplateID: "PD_040", Hazard: model.HazardPandemic},
	{Scenario: "severe_storm", TemplateID: "SS_020", Hazard: model.HazardSevereStorm},
	{Scenario: "wildfire", TemplateID: "WF_020", Hazard: model.HazardWildfire},
}

// LookupHazard resolves a UI scenario key to its template id and hazard
// type. ok is false when the key has no mapping.
func LookupHazard(scenario string) (templateID string, hazard model.HazardType, ok bool) {
	for _, m := range hazardCatalog {
		if m.Scenario == scenario {
			return m.TemplateID, m.Hazard, true
		}
	}
	return "", "", false
}
