package tool

import (
	"fmt"
	"reflect"

	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
	"github.com/teascout/teascout/pkg/reflectx"
	"github.com/teascout/teascout/pkg/stdx"
	"github.com/teascout/teascout/types"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Definition describes a function an agent can call: its advertised name,
// a description for the model, the positional parameter names, and the
// Go function itself.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]string
	Function    any
}

var functionReflector = jsonschema.Reflector{
	AllowAdditionalProperties: true,
	DoNotReference:            true,
}

// ToNameAndSchema derives the tool name and a JSON schema for its
// parameters from the function signature. Parameters of type
// types.ContextVars are injected by the runtime and excluded from the
// schema.
func (td Definition) ToNameAndSchema() (string, *jsonschema.Schema) {
	val := reflect.ValueOf(td.Function)
	typ := val.Type()

	name := td.Name
	if name == "" {
		name = reflectx.FunctionName(td.Function)
	}

	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}

	if typ.Kind() != reflect.Func {
		return name, schema
	}

	numIn := typ.NumIn()
	startIdx := 0
	if numIn > 0 && typ.In(0).Kind() == reflect.Struct {
		startIdx = 1
	}

	var required []string
	for i := startIdx; i < numIn; i++ {
		paramType := typ.In(i)
		if reflectx.IsRefinedType[types.ContextVars](paramType) {
			continue
		}

		paramName := fmt.Sprintf("param%d", i-startIdx)
		if td.Parameters != nil {
			if p, ok := td.Parameters[paramName]; ok {
				paramName = p
			}
		}

		propSchema := functionReflector.ReflectFromType(paramType)
		propSchema.Version = ""
		schema.Properties.Set(paramName, propSchema)
		required = append(required, paramName)
	}
	if len(required) > 0 {
		schema.Required = required
	}

	return name, schema
}

// Option configures a tool Definition.
type Option = opts.Option[Definition]

// Must is New with errors turned into panics. Intended for package-level
// tool declarations.
func Must(f any, options ...Option) Definition {
	return stdx.Must1(New(f, options...))
}

// New builds a Definition around f, which must be a function.
func New(f any, options ...Option) (Definition, error) {
	if !reflectx.IsFunction(f) {
		return Definition{}, fmt.Errorf("provided value is not a function")
	}

	var def Definition
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	if def.Name == "" {
		def.Name = reflectx.FunctionName(f)
	}

	def.Function = f
	return def, nil
}

// Name overrides the tool name advertised to the model.
var Name = opts.ForName[Definition, string]("Name")

// Description sets the tool description advertised to the model.
var Description = opts.ForName[Definition, string]("Description")

// Parameters names the function's positional parameters in order. The
// names become the JSON schema property names.
func Parameters(parameters ...string) opts.Option[Definition] {
	return opts.Type[Definition](func(o *Definition) error {
		o.Parameters = make(map[string]string, len(parameters))
		for i, p := range parameters {
			o.Parameters[fmt.Sprintf("param%d", i)] = p
		}
		return nil
	})
}
