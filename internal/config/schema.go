package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// configSchema constrains value types only. Structs are open, so unknown
// keys (including unknown action kinds under logging) pass.
const configSchema = `
database?: string & != ""
logging?: [string]: bool
query?: {
	default_limit?: int & >0
	max_limit?:     int & >0
	block_limit?:   int & >0
	time_format?:   string
	timezone?:      string
}
queue?: {
	max_depth?: int & >=0
}
`

// validateSchema checks a decoded YAML document against configSchema.
func validateSchema(doc map[string]any) error {
	if doc == nil {
		return nil
	}
	ctx := cuecontext.New()

	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
