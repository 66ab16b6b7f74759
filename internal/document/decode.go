package document

import (
	"fmt"

	"github.com/vk/taskgridgo/internal/model"
)

// Decode turns a schema-valid raw document into the typed model. It must be
// called only after ValidateSchema reported no errors; on malformed input it
// fails rather than guessing.
func Decode(raw map[string]any) (*model.Description, error) {
	desc := &model.Description{}

	if params, ok := raw["parameters"]; ok {
		spec, err := decodeParameters(params)
		if err != nil {
			return nil, err
		}
		desc.Parameters = spec
	}

	if tasks, ok := raw["tasks"]; ok {
		defs, ok := tasks.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("\"tasks\" is not a mapping")
		}
		desc.Tasks = make(map[string]*model.TaskDefinition, len(defs))
		for name, rawDef := range defs {
			def, err := DecodeTask(rawDef)
			if err != nil {
				return nil, fmt.Errorf("task %q: %w", name, err)
			}
			desc.Tasks[name] = def
		}
	}

	if graph, ok := raw["graph"]; ok {
		steps, ok := graph.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("\"graph\" is not a mapping")
		}
		desc.Graph = make(map[string]*model.StepDefinition, len(steps))
		for name, rawStep := range steps {
			step, err := decodeStep(rawStep)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", name, err)
			}
			desc.Graph[name] = step
		}
	}

	if types, ok := raw["types"]; ok {
		defs, ok := types.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("\"types\" is not a mapping")
		}
		for name, rawDef := range defs {
			def, err := DecodeType(rawDef)
			if err != nil {
				return nil, fmt.Errorf("type %q: %w", name, err)
			}
			desc.SetType(name, def)
		}
	}

	return desc, nil
}

func decodeParameters(params any) (*model.ParameterSpec, error) {
	switch p := params.(type) {
	case []any:
		names := make([]string, 0, len(p))
		for _, elem := range p {
			name, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("list-form parameter name is not a string: %v", elem)
			}
			names = append(names, name)
		}
		return &model.ParameterSpec{List: names}, nil

	case map[string]any:
		mapping := make(map[string]*model.ParameterDefinition, len(p))
		for name, value := range p {
			mapping[name] = decodeParameterDefinition(value)
		}
		return &model.ParameterSpec{Mapping: mapping}, nil
	}
	return nil, fmt.Errorf("\"parameters\" is not a list or mapping")
}

func decodeParameterDefinition(value any) *model.ParameterDefinition {
	if value == nil {
		// Required parameter with neither type nor default.
		return &model.ParameterDefinition{}
	}
	if obj, ok := value.(map[string]any); ok && isParameterObject(obj) {
		def := &model.ParameterDefinition{}
		if typ, ok := obj["type"].(string); ok {
			def.Type = typ
		}
		if dflt, ok := obj["default"]; ok {
			def.Default = dflt
			def.HasDefault = true
		}
		return def
	}
	// Any other non-null value is a bare default.
	return &model.ParameterDefinition{Default: value, HasDefault: true}
}

// DecodeTask decodes one task definition. Exported because the completion
// engine decodes definitions fetched from registries with the same rules.
func DecodeTask(rawDef any) (*model.TaskDefinition, error) {
	raw, ok := rawDef.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("definition is not a mapping")
	}

	def := &model.TaskDefinition{}
	if plugin, ok := raw["plugin"].(string); ok {
		def.Plugin = plugin
	} else {
		return nil, fmt.Errorf("missing plugin coordinate")
	}

	if inputs, ok := raw["inputs"].([]any); ok {
		for i, elem := range inputs {
			input, err := decodeTaskInput(elem)
			if err != nil {
				return nil, fmt.Errorf("input %d: %w", i, err)
			}
			def.Inputs = append(def.Inputs, input)
		}
	}

	switch outputs := raw["outputs"].(type) {
	case nil:
	case map[string]any:
		for name, typ := range outputs {
			typeName, ok := typ.(string)
			if !ok {
				return nil, fmt.Errorf("output %q: type is not a string", name)
			}
			def.Outputs = append(def.Outputs, model.TaskOutput{Name: name, Type: typeName})
		}
	case []any:
		def.DestructureOutputs = true
		for i, elem := range outputs {
			pair, ok := elem.(map[string]any)
			if !ok || len(pair) != 1 {
				return nil, fmt.Errorf("output %d: not a single name-to-type pair", i)
			}
			for name, typ := range pair {
				typeName, ok := typ.(string)
				if !ok {
					return nil, fmt.Errorf("output %q: type is not a string", name)
				}
				def.Outputs = append(def.Outputs, model.TaskOutput{Name: name, Type: typeName})
			}
		}
	default:
		return nil, fmt.Errorf("\"outputs\" is not a pair or list of pairs")
	}

	return def, nil
}

func decodeTaskInput(elem any) (model.TaskInput, error) {
	raw, ok := elem.(map[string]any)
	if !ok {
		return model.TaskInput{}, fmt.Errorf("not a mapping")
	}

	if name, ok := raw["name"].(string); ok {
		input := model.TaskInput{Name: name, Required: true}
		if typ, ok := raw["type"].(string); ok {
			input.Type = typ
		}
		if req, ok := raw["required"].(bool); ok {
			input.Required = req
		}
		return input, nil
	}

	if len(raw) != 1 {
		return model.TaskInput{}, fmt.Errorf("not a single name-to-type pair")
	}
	for name, typ := range raw {
		typeName, ok := typ.(string)
		if !ok {
			return model.TaskInput{}, fmt.Errorf("type is not a string")
		}
		// Shorthand inputs are always required.
		return model.TaskInput{Name: name, Type: typeName, Required: true}, nil
	}
	return model.TaskInput{}, fmt.Errorf("empty input")
}

func decodeStep(rawStep any) (*model.StepDefinition, error) {
	raw, ok := rawStep.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("definition is not a mapping")
	}

	deps, err := decodeDependencies(raw["dependencies"])
	if err != nil {
		return nil, err
	}

	// Long form: an explicit `task` property.
	if task, ok := raw["task"].(string); ok {
		step := &model.StepDefinition{Form: model.LongForm, Task: task, Dependencies: deps}
		switch args := raw["args"].(type) {
		case nil:
		case []any:
			step.Args = args
		default:
			step.Args = []any{args}
		}
		if kwargs, ok := raw["kwargs"].(map[string]any); ok {
			step.Kwargs = kwargs
		}
		return step, nil
	}

	// Short form: the single non-dependency property names the task.
	var taskKeys []string
	for key := range raw {
		if key != "dependencies" {
			taskKeys = append(taskKeys, key)
		}
	}
	if len(taskKeys) != 1 {
		step := &model.StepDefinition{
			Form:            model.ShortForm,
			Dependencies:    deps,
			BadShape:        true,
			ShapeProperties: taskKeys,
		}
		return step, nil
	}

	step := &model.StepDefinition{Form: model.ShortForm, Task: taskKeys[0], Dependencies: deps}
	switch argSpec := raw[taskKeys[0]].(type) {
	case nil:
	case map[string]any:
		if _, hasTask := argSpec["task"]; hasTask {
			// A mapping carrying a `task` key is not a keyword spec; it is a
			// single positional mapping literal.
			step.Args = []any{argSpec}
		} else {
			step.Kwargs = argSpec
		}
	case []any:
		step.Args = argSpec
	default:
		step.Args = []any{argSpec}
	}
	return step, nil
}

func decodeDependencies(deps any) ([]string, error) {
	switch d := deps.(type) {
	case nil:
		return nil, nil
	case string:
		// A bare string normalizes to a singleton list.
		return []string{d}, nil
	case []any:
		out := make([]string, 0, len(d))
		for _, elem := range d {
			name, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("dependency is not a string: %v", elem)
			}
			out = append(out, name)
		}
		return out, nil
	}
	return nil, fmt.Errorf("\"dependencies\" is not a string or list of strings")
}

// DecodeType decodes one type definition. A null document value decodes to a
// nil definition, which is itself meaningful: a plain simple type.
func DecodeType(rawDef any) (*model.TypeDefinition, error) {
	switch d := rawDef.(type) {
	case nil:
		return nil, nil
	case string:
		return &model.TypeDefinition{IsA: d}, nil
	case map[string]any:
		if len(d) != 1 {
			return nil, fmt.Errorf("structure must use exactly one keyword")
		}
		for keyword, value := range d {
			return decodeTypeKeyword(keyword, value)
		}
	}
	return nil, fmt.Errorf("definition is not null, a name, or a structure mapping")
}

func decodeTypeKeyword(keyword string, value any) (*model.TypeDefinition, error) {
	switch keyword {
	case "is_a":
		name, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("\"is_a\" is not a type name string")
		}
		return &model.TypeDefinition{IsA: name}, nil

	case "list":
		elem, err := decodeTypeExpr(value)
		if err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		return &model.TypeDefinition{List: elem}, nil

	case "tuple":
		elems, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("\"tuple\" is not a list")
		}
		def := &model.TypeDefinition{Tuple: make([]model.TypeExpr, 0, len(elems))}
		for i, e := range elems {
			expr, err := decodeTypeExpr(e)
			if err != nil {
				return nil, fmt.Errorf("tuple element %d: %w", i, err)
			}
			def.Tuple = append(def.Tuple, expr)
		}
		return def, nil

	case "union":
		members, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("\"union\" is not a list")
		}
		def := &model.TypeDefinition{Union: make([]model.TypeExpr, 0, len(members))}
		for i, m := range members {
			expr, err := decodeTypeExpr(m)
			if err != nil {
				return nil, fmt.Errorf("union member %d: %w", i, err)
			}
			def.Union = append(def.Union, expr)
		}
		return def, nil

	case "mapping":
		switch m := value.(type) {
		case map[string]any:
			def := &model.TypeDefinition{MappingProps: make(map[string]model.TypeExpr, len(m))}
			for prop, e := range m {
				expr, err := decodeTypeExpr(e)
				if err != nil {
					return nil, fmt.Errorf("property %q: %w", prop, err)
				}
				def.MappingProps[prop] = expr
			}
			return def, nil
		case []any:
			if len(m) != 2 {
				return nil, fmt.Errorf("key/value mapping needs exactly [key, value]")
			}
			key, err := decodeTypeExpr(m[0])
			if err != nil {
				return nil, fmt.Errorf("mapping key: %w", err)
			}
			val, err := decodeTypeExpr(m[1])
			if err != nil {
				return nil, fmt.Errorf("mapping value: %w", err)
			}
			return &model.TypeDefinition{MappingKV: []model.TypeExpr{key, val}}, nil
		}
		return nil, fmt.Errorf("\"mapping\" is not a property mapping or [key, value] list")
	}
	return nil, fmt.Errorf("unknown structure keyword %q", keyword)
}

func decodeTypeExpr(value any) (model.TypeExpr, error) {
	if name, ok := value.(string); ok {
		return model.TypeExpr{Name: name}, nil
	}
	structure, err := DecodeType(value)
	if err != nil {
		return model.TypeExpr{}, err
	}
	if structure == nil {
		return model.TypeExpr{}, fmt.Errorf("nested type expression cannot be null")
	}
	return model.TypeExpr{Structure: structure}, nil
}
