package config

import (
	"slices"

	"github.com/smartallies/incident/internal/domain"
)

// ResourceCatalog holds the support resources per incident type, built from
// configuration and immutable afterwards.
type ResourceCatalog struct {
	byType map[domain.IncidentType][]string
}

// NewResourceCatalog copies entries; later changes to the input have no effect.
func NewResourceCatalog(entries map[domain.IncidentType][]string) *ResourceCatalog {
	byType := make(map[domain.IncidentType][]string, len(entries))
	for t, list := range entries {
		byType[t] = slices.Clone(list)
	}
	return &ResourceCatalog{byType: byType}
}

// ResourcesFor returns a copy of the resources for t, or nil when none exist.
func (c *ResourceCatalog) ResourcesFor(t domain.IncidentType) []string {
	return slices.Clone(c.byType[t])
}

// Catalog builds the ResourceCatalog for the loaded resources section.
// Keys were checked by Validate; unknown keys are skipped here.
func (c *Config) Catalog() *ResourceCatalog {
	entries := make(map[domain.IncidentType][]string, len(c.Resources))
	for key, list := range c.Resources {
		t, err := domain.ParseIncidentType(key)
		if err != nil {
			continue
		}
		entries[t] = list
	}
	return NewResourceCatalog(entries)
}

// mergeResources keeps every list from the file and falls back to the
// default list for types the file does not mention. Keys are matched
// case-insensitively; unknown keys are kept so Validate can report them.
func mergeResources(fromFile, defaults map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(defaults)+len(fromFile))
	for key, list := range fromFile {
		if t, err := domain.ParseIncidentType(key); err == nil {
			key = string(t)
		}
		merged[key] = list
	}
	for key, list := range defaults {
		if _, ok := merged[key]; !ok {
			merged[key] = list
		}
	}
	return merged
}

func defaultResources() map[string][]string {
	return map[string][]string{
		string(domain.IncidentHuman): {
			"Employee Assistance Program (EAP): https://company.com/eap",
			"HR Confidential Hotline: +41 XX XXX XX XX",
			"Mental Health Resources: https://company.com/mental-health",
			"Anti-Harassment Policy: https://company.com/policies/harassment",
			"Workplace Mediation Services: https://company.com/mediation",
		},
		string(domain.IncidentFacility): {
			"Maintenance Request Portal: https://company.com/maintenance",
			"Facilities Management Hotline: +41 XX XXX XX XX",
			"Safety Guidelines: https://company.com/safety",
		},
		string(domain.IncidentEmergency): {
			"Swiss Police: 117",
			"Swiss Ambulance: 144",
			"Swiss Fire Department: 118",
			"Company Samaritans: 143",
			"Internal Security: +41 XX XXX XX XX",
		},
	}
}
