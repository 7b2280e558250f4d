package openapi

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/registry"
)

func TestAcceptedPayloadMatchesSchema(t *testing.T) {
	t.Parallel()

	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	for _, def := range reg.Definitions() {
		def := def
		t.Run(def.Name, func(t *testing.T) {
			t.Parallel()

			f, err := def.NewForm()
			if err != nil {
				t.Fatalf("NewForm: %v", err)
			}
			for _, spec := range def.Fields {
				if v, _ := f.Value(spec.ID); v != "" {
					continue
				}
				switch spec.Type {
				case model.FieldTypeEmail:
					_ = f.UpdateField(spec.ID, "user@example.com")
				case model.FieldTypeNumber:
					_ = f.UpdateField(spec.ID, "2")
				default:
					_ = f.UpdateField(spec.ID, "value")
				}
			}

			payload, ok := f.GetData()
			if !ok {
				t.Fatalf("expected valid form, errors: %+v", f.Snapshot().Errors)
			}
			if err := ValidatePayload(def.Fields, payload); err != nil {
				t.Fatalf("payload rejected by exported schema: %v", err)
			}
		})
	}
}

func TestSchemaForRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	specs := []model.FieldSpec{
		{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Required: model.Static(true)},
		{ID: "seats", Type: model.FieldTypeNumber, Label: "Seats", MinValue: model.Float(0), MaxValue: model.Float(10)},
	}

	cases := []struct {
		name    string
		payload model.Payload
		wantErr bool
	}{
		{name: "valid", payload: model.Payload{"email": "a@b.co", "seats": 3.0}},
		{name: "null optional number", payload: model.Payload{"email": "a@b.co", "seats": nil}},
		{name: "zero bound honoured", payload: model.Payload{"email": "a@b.co", "seats": -1.0}, wantErr: true},
		{name: "above max", payload: model.Payload{"email": "a@b.co", "seats": 11.0}, wantErr: true},
		{name: "empty required", payload: model.Payload{"email": "", "seats": 1.0}, wantErr: true},
		{name: "bad email", payload: model.Payload{"email": "nope", "seats": 1.0}, wantErr: true},
		{name: "missing key", payload: model.Payload{"email": "a@b.co"}, wantErr: true},
		{name: "extra key", payload: model.Payload{"email": "a@b.co", "seats": 1.0, "x": "y"}, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePayload(specs, tc.payload)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSchemaForCarriesRuleExtensions(t *testing.T) {
	t.Parallel()

	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	def, err := reg.Get("project-settings")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	schema := SchemaFor(def.Fields)
	contact := schema.Properties["contactEmail"].Value
	if contact.Format != "" {
		t.Fatalf("conditionally hidden email must not carry a format, got %q", contact.Format)
	}
	ext, ok := contact.Extensions[ExtensionKey].(map[string]any)
	if !ok {
		t.Fatalf("missing %s extension", ExtensionKey)
	}
	if ext["requiredWhen"] != `visibility == "public"` {
		t.Fatalf("requiredWhen = %v", ext["requiredWhen"])
	}

	seats := schema.Properties["seats"].Value
	if seats.Nullable || seats.Min == nil || *seats.Min != 1 || seats.Max == nil || *seats.Max != 250 {
		t.Fatalf("unexpected seats schema %+v", seats)
	}
}

func TestDocumentValidates(t *testing.T) {
	t.Parallel()

	reg, err := registry.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	doc := Document(reg, DocumentOptions{Title: "formkit test"})

	if doc.Paths.Find("/api/forms/login-email/submit") == nil {
		t.Fatalf("submit path missing")
	}
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("document invalid: %v", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	loaded, err := openapi3.NewLoader().LoadFromData(raw)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Info.Title != "formkit test" {
		t.Fatalf("title = %q", loaded.Info.Title)
	}
}
