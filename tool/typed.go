package tool

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
)

// NewTypedTool builds a tool whose arguments are decoded into T. The schema
// is reflected from T using json and jsonschema struct tags:
//
//	type WeatherArgs struct {
//	    City  string `json:"city" jsonschema:"required,description=City name"`
//	    Units string `json:"units,omitempty" jsonschema:"enum=metric,enum=imperial"`
//	}
//
// Decoding is weakly typed so JSON numbers (float64) fill integer fields.
func NewTypedTool[T any](name, description string, fn func(toolCtx *Context, args T) (any, error)) (*FunctionTool, error) {
	schema, err := reflectSchema(new(T))
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}

	return NewFunctionTool(name, description, schema, func(toolCtx *Context, raw map[string]any) (any, error) {
		var args T
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &args,
			TagName:          "json",
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, &ToolError{Tool: name, Message: err.Error(), Code: CodeValidation}
		}
		return fn(toolCtx, args)
	}), nil
}

// MustTypedTool is like NewTypedTool but panics on schema errors.
func MustTypedTool[T any](name, description string, fn func(toolCtx *Context, args T) (any, error)) *FunctionTool {
	t, err := NewTypedTool(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// reflectSchema builds an object schema from the struct (or struct pointer) v.
func reflectSchema(v any) (map[string]any, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("parameters must be a struct, got %T", v)
	}

	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}

	schema := reflector.Reflect(v)

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	out := map[string]any{
		"type":       "object",
		"properties": m["properties"],
	}
	if out["properties"] == nil {
		out["properties"] = map[string]any{}
	}
	if req, ok := m["required"]; ok {
		out["required"] = req
	}
	return out, nil
}
