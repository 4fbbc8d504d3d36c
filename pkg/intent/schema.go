package intent

import (
	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// geoProperties are shared by every geo-dependent intent schema.
func geoProperties() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"city": {
			Type:        "string",
			Description: "City or neighborhood name mentioned in the query, if any",
		},
		"latitude": {
			Type:        "number",
			Description: "Latitude of the search center, only when explicitly given",
		},
		"longitude": {
			Type:        "number",
			Description: "Longitude of the search center, only when explicitly given",
		},
		"radius_km": {
			Type:        "number",
			Description: "Search radius in kilometers, only when the user asked for one",
		},
	}
}

func mergeProperties(dst, src map[string]*jsonschema.Schema) map[string]*jsonschema.Schema {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// argSchemas declares the per-intent JSON Schema the oracle output must
// satisfy before any domain lookup executes.
func argSchemas() map[model.IntentName]*jsonschema.Schema {
	return map[model.IntentName]*jsonschema.Schema{
		model.IntentFindItemsNearby: {
			Type: "object",
			Properties: mergeProperties(map[string]*jsonschema.Schema{
				"item": {
					Type:        "string",
					Description: "The dish or drink the user is looking for, in the user's words",
				},
			}, geoProperties()),
			Required: []string{"item"},
		},
		model.IntentCheckItemInRestaurant: {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"restaurant": {
					Type:        "string",
					Description: "The restaurant name as the user wrote it",
				},
				"item": {
					Type:        "string",
					Description: "The dish or drink to look for on that restaurant's menu",
				},
				"city": {
					Type:        "string",
					Description: "City narrowing the restaurant lookup, if mentioned",
				},
			},
			Required: []string{"restaurant", "item"},
		},
		model.IntentIsRestaurantOpen: {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"restaurant": {
					Type:        "string",
					Description: "The restaurant name as the user wrote it",
				},
				"city": {
					Type:        "string",
					Description: "City narrowing the restaurant lookup, if mentioned",
				},
				"when": {
					Type:        "string",
					Description: `The time reference verbatim ("sutra", "petkom u 20:00"); omit for "now"`,
				},
			},
			Required: []string{"restaurant"},
		},
		model.IntentFindByPerkNearby: {
			Type: "object",
			Properties: mergeProperties(map[string]*jsonschema.Schema{
				"perks": {
					Type:        "array",
					Description: "Amenities the user asked for (terrace, parking, high chairs, ...)",
					Items:       &jsonschema.Schema{Type: "string"},
				},
			}, geoProperties()),
			Required: []string{"perks"},
		},
		model.IntentFindByPriceType: {
			Type: "object",
			Properties: mergeProperties(map[string]*jsonschema.Schema{
				"price_category": {
					Type:        "string",
					Description: "Price expectation in the user's words (jeftino, fine dining, ...)",
				},
				"establishment_type": {
					Type:        "string",
					Description: "Kind of establishment (restoran, kafić, pizzeria, ...)",
				},
			}, geoProperties()),
		},
		model.IntentFindByItemAndPerk: {
			Type: "object",
			Properties: mergeProperties(map[string]*jsonschema.Schema{
				"item": {
					Type:        "string",
					Description: "The dish or drink the user is looking for",
				},
				"perks": {
					Type:        "array",
					Description: "Amenities the user asked for alongside the item",
					Items:       &jsonschema.Schema{Type: "string"},
				},
			}, geoProperties()),
			Required: []string{"item", "perks"},
		},
	}
}

// intentDescriptions double as the oracle-facing tool documentation.
var intentDescriptions = map[model.IntentName]string{
	model.IntentFindItemsNearby:       "Find restaurants near the user that serve a specific dish or drink.",
	model.IntentCheckItemInRestaurant: "Check whether one named restaurant has a specific dish or drink on its menu.",
	model.IntentIsRestaurantOpen:      "Check whether one named restaurant is open at a given time.",
	model.IntentFindByPerkNearby:      "Find restaurants near the user that offer specific amenities.",
	model.IntentFindByPriceType:       "Find restaurants by price category and/or establishment type near the user.",
	model.IntentFindByItemAndPerk:     "Find restaurants near the user that serve a specific dish AND offer specific amenities.",
}

// convertJSONSchemaToGenai converts JSON Schema to Gemini genai.Schema
func convertJSONSchemaToGenai(schema *jsonschema.Schema) (*genai.Schema, error) {
	if schema == nil {
		return nil, nil
	}

	genaiSchema := &genai.Schema{}

	switch schema.Type {
	case "object":
		genaiSchema.Type = genai.TypeObject
	case "string":
		genaiSchema.Type = genai.TypeString
	case "number", "integer":
		genaiSchema.Type = genai.TypeNumber
	case "boolean":
		genaiSchema.Type = genai.TypeBoolean
	case "array":
		genaiSchema.Type = genai.TypeArray
	default:
		if schema.Type != "" {
			return nil, goerr.New("unsupported schema type", goerr.V("type", schema.Type))
		}
	}

	if schema.Description != "" {
		genaiSchema.Description = schema.Description
	}

	if len(schema.Enum) > 0 {
		genaiSchema.Enum = make([]string, len(schema.Enum))
		for i, v := range schema.Enum {
			if s, ok := v.(string); ok {
				genaiSchema.Enum[i] = s
			}
		}
	}

	if len(schema.Properties) > 0 {
		genaiSchema.Properties = make(map[string]*genai.Schema)
		for name, propSchema := range schema.Properties {
			converted, err := convertJSONSchemaToGenai(propSchema)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to convert property schema",
					goerr.V("property", name))
			}
			genaiSchema.Properties[name] = converted
		}
	}

	if len(schema.Required) > 0 {
		genaiSchema.Required = schema.Required
	}

	if schema.Items != nil {
		converted, err := convertJSONSchemaToGenai(schema.Items)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert items schema")
		}
		genaiSchema.Items = converted
	}

	return genaiSchema, nil
}
