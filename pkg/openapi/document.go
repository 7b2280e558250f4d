package openapi

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/registry"
)

// DocumentOptions tunes the exported document header.
type DocumentOptions struct {
	Title   string
	Version string
	// BasePath prefixes every form route. Defaults to /api/forms.
	BasePath string
}

func (o DocumentOptions) withDefaults() DocumentOptions {
	if o.Title == "" {
		o.Title = "formkit"
	}
	if o.Version == "" {
		o.Version = "1.0.0"
	}
	if o.BasePath == "" {
		o.BasePath = "/api/forms"
	}
	return o
}

// Document describes the validate and submit routes of every definition in
// reg, one path pair per form.
func Document(reg *registry.Registry, opts DocumentOptions) *openapi3.T {
	opts = opts.withDefaults()

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Paths: openapi3.NewPaths(),
	}

	doc.AddOperation(opts.BasePath, http.MethodGet, listOperation())
	if reg == nil {
		return doc
	}

	for _, def := range reg.Definitions() {
		base := opts.BasePath + "/" + def.Name
		payload := SchemaFor(def.Fields)

		doc.AddOperation(base+"/validate", http.MethodPost, validateOperation(def))
		doc.AddOperation(base+"/submit", http.MethodPost, submitOperation(def, payload))
	}
	return doc
}

func listOperation() *openapi3.Operation {
	item := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema())

	op := openapi3.NewOperation()
	op.OperationID = "listForms"
	op.Summary = "List registered forms"
	op.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Registered forms").
		WithJSONSchema(openapi3.NewArraySchema().WithItems(item)))
	return op
}

func validateOperation(def registry.Definition) *openapi3.Operation {
	result := openapi3.NewObjectSchema().
		WithProperty("valid", openapi3.NewBoolSchema()).
		WithProperty("errors", errorMapSchema()).
		WithProperty("issues", issuesSchema())

	op := openapi3.NewOperation()
	op.OperationID = "validate_" + def.Name
	op.Summary = "Validate " + summaryName(def)
	op.Tags = []string{def.Name}
	op.RequestBody = &openapi3.RequestBodyRef{Value: requestBody(def)}
	op.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Validation result").
		WithJSONSchema(result))
	op.AddResponse(http.StatusBadRequest, errorResponse("Malformed body or unknown field"))
	return op
}

func submitOperation(def registry.Definition, payload *openapi3.Schema) *openapi3.Operation {
	accepted := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewUUIDSchema()).
		WithProperty("data", payload).
		WithRequired([]string{"id", "data"})

	rejected := openapi3.NewObjectSchema().
		WithProperty("errors", errorMapSchema()).
		WithProperty("issues", issuesSchema())

	op := openapi3.NewOperation()
	op.OperationID = "submit_" + def.Name
	op.Summary = "Submit " + summaryName(def)
	op.Description = def.Description
	op.Tags = []string{def.Name}
	op.RequestBody = &openapi3.RequestBodyRef{Value: requestBody(def)}
	op.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Accepted payload").
		WithJSONSchema(accepted))
	op.AddResponse(http.StatusUnprocessableEntity, openapi3.NewResponse().
		WithDescription("Field errors").
		WithJSONSchema(rejected))
	op.AddResponse(http.StatusBadRequest, errorResponse("Malformed body or unknown field"))
	return op
}

// requestBody describes {"fields": {...}} with raw string values.
func requestBody(def registry.Definition) *openapi3.RequestBody {
	fields := openapi3.NewObjectSchema().WithoutAdditionalProperties()
	for _, spec := range def.Fields {
		fields.WithProperty(spec.ID, openapi3.NewStringSchema())
	}
	body := openapi3.NewObjectSchema().WithProperty("fields", fields)
	return openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body)
}

func errorMapSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())
}

func issuesSchema() *openapi3.Schema {
	issue := openapi3.NewObjectSchema().
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("kind", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())
	return openapi3.NewArraySchema().WithItems(issue)
}

func errorResponse(description string) *openapi3.Response {
	body := openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema())
	return openapi3.NewResponse().WithDescription(description).WithJSONSchema(body)
}

func summaryName(def registry.Definition) string {
	if def.Title != "" {
		return def.Title
	}
	return def.Name
}
