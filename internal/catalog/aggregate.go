package catalog

import (
	"fmt"

	"polychat/internal/models"
)

// AggregateModels flattens enabled providers into the selectable model
// catalog for the chat UI. Providers are visited in settings order, model
// order follows the stored string. A provider with no recorded models
// contributes its static default catalog instead. Model ids are not
// de-duplicated across providers; the provider id qualifies identity.
func AggregateModels(settings *models.UserSettings) []models.AIModel {
	if settings == nil {
		return []models.AIModel{}
	}

	out := make([]models.AIModel, 0, len(settings.Providers)*2)
	for i := range settings.Providers {
		provider := &settings.Providers[i]
		if !provider.Enabled {
			continue
		}

		names := provider.ModelNames()
		if len(names) > 0 {
			for _, name := range names {
				out = append(out, models.AIModel{
					ID:                  name,
					Name:                name,
					Provider:            provider.ID,
					ProviderDisplayName: provider.DisplayName,
					Description:         fmt.Sprintf("%s - %s", provider.DisplayName, name),
				})
			}
			continue
		}

		entry, ok := Lookup(provider.ID)
		if !ok {
			continue
		}
		for _, dm := range entry.DefaultModels {
			out = append(out, models.AIModel{
				ID:                  dm.ID,
				Name:                dm.Name,
				Provider:            provider.ID,
				ProviderDisplayName: provider.DisplayName,
				Description:         fmt.Sprintf("%s - %s", provider.DisplayName, dm.ID),
			})
		}
	}
	return out
}
