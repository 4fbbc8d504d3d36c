package intent

import (
	"encoding/json"

	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// ErrUnknownTool means the oracle selected a tool outside the registry.
var ErrUnknownTool = goerr.New("unknown tool selected")

// Registry holds the fixed set of intent declarations exposed to the oracle
// and the resolved schemas its arguments are validated against.
type Registry struct {
	decls   []*genai.FunctionDeclaration
	schemas map[model.IntentName]*jsonschema.Resolved
}

// intentOrder fixes the declaration order sent to the oracle so the prompt
// is identical across runs.
var intentOrder = []model.IntentName{
	model.IntentFindItemsNearby,
	model.IntentCheckItemInRestaurant,
	model.IntentIsRestaurantOpen,
	model.IntentFindByPerkNearby,
	model.IntentFindByItemAndPerk,
	model.IntentFindByPriceType,
}

// NewRegistry builds the registry. It fails only on a malformed schema
// declaration, which is a programming error.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		schemas: make(map[model.IntentName]*jsonschema.Resolved),
	}

	all := argSchemas()
	for _, name := range intentOrder {
		schema, ok := all[name]
		if !ok {
			return nil, goerr.New("intent has no schema", goerr.V("intent", name))
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to resolve intent schema", goerr.V("intent", name))
		}
		r.schemas[name] = resolved

		params, err := convertJSONSchemaToGenai(schema)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert intent schema", goerr.V("intent", name))
		}
		r.decls = append(r.decls, &genai.FunctionDeclaration{
			Name:        string(name),
			Description: intentDescriptions[name],
			Parameters:  params,
		})
	}

	return r, nil
}

// Specs returns the tool registry for the oracle's function calling config.
func (r *Registry) Specs() []*genai.Tool {
	return []*genai.Tool{{FunctionDeclarations: r.decls}}
}

// Parse validates a function call against the selected intent's schema and
// decodes it into the matching typed variant. Schema and semantic
// violations come back wrapped in ErrInvalidArgs; an unknown tool name is a
// distinct error since it means the oracle ignored the registry.
func (r *Registry) Parse(fc genai.FunctionCall) (*Resolved, error) {
	name := model.IntentName(fc.Name)
	schema, ok := r.schemas[name]
	if !ok {
		return nil, goerr.Wrap(ErrUnknownTool, "tool not in registry", goerr.V("name", fc.Name))
	}

	args := fc.Args
	if args == nil {
		args = map[string]any{}
	}
	if err := schema.Validate(args); err != nil {
		return nil, goerr.Wrap(ErrInvalidArgs, "arguments violate intent schema",
			goerr.V("intent", name), goerr.V("cause", err.Error()))
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal arguments")
	}

	resolved := &Resolved{Name: name}
	var target any
	switch name {
	case model.IntentFindItemsNearby:
		resolved.FindItemsNearby = &FindItemsNearbyArgs{}
		target = resolved.FindItemsNearby
	case model.IntentCheckItemInRestaurant:
		resolved.CheckItemInRestaurant = &CheckItemInRestaurantArgs{}
		target = resolved.CheckItemInRestaurant
	case model.IntentIsRestaurantOpen:
		resolved.IsRestaurantOpen = &IsRestaurantOpenArgs{}
		target = resolved.IsRestaurantOpen
	case model.IntentFindByPerkNearby:
		resolved.FindPerkNearby = &FindPerkNearbyArgs{}
		target = resolved.FindPerkNearby
	case model.IntentFindByPriceType:
		resolved.FindByPriceType = &FindByPriceTypeArgs{}
		target = resolved.FindByPriceType
	case model.IntentFindByItemAndPerk:
		resolved.FindByItemAndPerk = &FindByItemAndPerkArgs{}
		target = resolved.FindByItemAndPerk
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, goerr.Wrap(ErrInvalidArgs, "failed to decode arguments",
			goerr.V("intent", name), goerr.V("cause", err.Error()))
	}

	if err := resolved.validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}
