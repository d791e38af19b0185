package restapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	todoSchemaURL = "https://todolist.local/schema/todo.json"
	listSchemaURL = "https://todolist.local/schema/list.json"
)

const todoSchemaJSON = `{
  "type": "object",
  "required": ["todoName"],
  "properties": {
    "id": {"type": ["integer", "string", "null"]},
    "todoName": {"type": "string"},
    "completed": {"type": ["boolean", "null"]}
  }
}`

const listSchemaJSON = `{
  "type": "array",
  "items": {"$ref": "todo.json"}
}`

// schemas holds the compiled validators for response bodies.
type schemas struct {
	todo *jsonschema.Schema
	list *jsonschema.Schema
}

func compileSchemas() (*schemas, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(todoSchemaURL, strings.NewReader(todoSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add todo schema: %w", err)
	}
	if err := compiler.AddResource(listSchemaURL, strings.NewReader(listSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add list schema: %w", err)
	}

	todo, err := compiler.Compile(todoSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile todo schema: %w", err)
	}
	list, err := compiler.Compile(listSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile list schema: %w", err)
	}
	return &schemas{todo: todo, list: list}, nil
}

// decodeValidated validates body against schema, then decodes it into dst.
func decodeValidated(body []byte, schema *jsonschema.Schema, dst any) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}
