package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const biddingSchemaURL = "bidding.json"

var (
	biddingOnce   sync.Once
	biddingSchema *jsonschema.Schema
	biddingErr    error
)

// CompileSchema turns a schema document into a validator.
func CompileSchema(url string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// BiddingSchema is the bidding field schema, compiled on first use.
func BiddingSchema() (*jsonschema.Schema, error) {
	biddingOnce.Do(func() {
		biddingSchema, biddingErr = CompileSchema(biddingSchemaURL, BuildBiddingJSONSchema())
	})
	return biddingSchema, biddingErr
}

// ValidateBidding checks a model reply against the cached bidding schema.
func ValidateBidding(data []byte) error {
	schema, err := BiddingSchema()
	if err != nil {
		return err
	}
	return validate(schema, data)
}

// ValidateJSONAgainstSchema compiles schemaMap and checks data against it.
// Hot paths should prefer ValidateBidding.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	schema, err := CompileSchema(biddingSchemaURL, schemaMap)
	if err != nil {
		return err
	}
	return validate(schema, data)
}

func validate(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
