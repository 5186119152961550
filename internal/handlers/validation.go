package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todoapp/internal/models"
)

// maxBodyBytes bounds request bodies; a todo payload is tiny.
const maxBodyBytes = 64 << 10

const createTodoSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"name": {"type": ["string", "null"]},
		"checked": {"type": ["boolean", "null"]}
	}
}`

const updateTodoSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"name": {"type": ["string", "null"]},
		"checked": {"type": "boolean"}
	}
}`

// fieldMessages maps a top-level field to the message reported when its
// value has the wrong type.
var fieldMessages = map[string]string{
	"name":    "Todo name must be a string",
	"checked": "checked must be a boolean",
}

type bodyValidator struct {
	create *jsonschema.Schema
	update *jsonschema.Schema
}

func newBodyValidator() (*bodyValidator, error) {
	compiler := jsonschema.NewCompiler()
	resources := map[string]string{
		"create_todo.json": createTodoSchema,
		"update_todo.json": updateTodoSchema,
	}
	for name, schema := range resources {
		if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	create, err := compiler.Compile("create_todo.json")
	if err != nil {
		return nil, fmt.Errorf("compile create schema: %w", err)
	}
	update, err := compiler.Compile("update_todo.json")
	if err != nil {
		return nil, fmt.Errorf("compile update schema: %w", err)
	}

	return &bodyValidator{create: create, update: update}, nil
}

func mustBodyValidator() *bodyValidator {
	v, err := newBodyValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// decodeBody reads the request body, checks it against schema and decodes
// it into dst. Every failure is a *models.ValidationError.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &models.ValidationError{Message: "request body is too large or unreadable"}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return &models.ValidationError{Message: "invalid JSON body"}
	}

	if err := schema.Validate(raw); err != nil {
		return schemaError(err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return &models.ValidationError{Message: "invalid JSON body"}
	}
	return nil
}

// schemaError converts a schema failure into the message of its first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &models.ValidationError{Message: "invalid request body"}
	}

	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}

	field := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if field == "" {
		return &models.ValidationError{Message: "request body must be a JSON object"}
	}
	if msg, ok := fieldMessages[field]; ok {
		return &models.ValidationError{Field: field, Message: msg}
	}
	return &models.ValidationError{Field: field, Message: fmt.Sprintf("invalid value for %s", field)}
}
