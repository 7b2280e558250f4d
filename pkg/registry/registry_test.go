package registry

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
)

func TestDefaultRegistryHasBundledForms(t *testing.T) {
	t.Parallel()

	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	want := []string{
		"change-info",
		"change-password",
		"login-email",
		"login-password",
		"password-reset-confirm",
		"password-reset-request",
		"project-settings",
		"rename-project",
		"sign-up",
		"verify-email",
	}
	if diff := cmp.Diff(want, reg.List()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectSettingsConditionalContact(t *testing.T) {
	t.Parallel()

	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	def, err := reg.Get("project-settings")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	f, err := def.NewForm()
	if err != nil {
		t.Fatalf("NewForm: %v", err)
	}
	if v, _ := f.Value("seats"); v != "1" {
		t.Fatalf("seats default = %q, want 1", v)
	}
	if v, _ := f.Value("visibility"); v != "private" {
		t.Fatalf("visibility default = %q", v)
	}

	_ = f.UpdateField("name", "Atlas")
	if _, ok := f.GetData(); !ok {
		t.Fatalf("private project should not need a contact: %+v", f.Snapshot().Errors)
	}

	_ = f.UpdateField("visibility", "public")
	if _, ok := f.GetData(); ok {
		t.Fatalf("public project without contact must fail")
	}
	if got := f.Error("contactEmail"); got != "Contact Email is required" {
		t.Fatalf("contactEmail error = %q", got)
	}

	_ = f.UpdateField("contactEmail", "ops@example.com")
	payload, ok := f.GetData()
	if !ok {
		t.Fatalf("expected success: %+v", f.Snapshot().Errors)
	}
	if payload["seats"] != float64(1) {
		t.Fatalf("seats = %#v, want 1", payload["seats"])
	}
}

func TestParseRequiredForms(t *testing.T) {
	t.Parallel()

	defs, err := Parse([]byte(`
forms:
  demo:
    title: "<b>Demo</b> &amp; more"
    fields:
      - id: a
        type: String
        label: "<i>Alpha</i>"
        required: true
      - id: b
        type: number
        required: a == "x"
        min_value: 0
      - id: c
        type: text
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("expected one definition, got %d", len(defs))
	}
	def := defs[0]
	if def.Title != "Demo & more" {
		t.Fatalf("title = %q", def.Title)
	}

	a, b, c := def.Fields[0], def.Fields[1], def.Fields[2]
	if a.Type != model.FieldTypeString || a.Label != "Alpha" || !a.Required.IsStatic(true) {
		t.Fatalf("unexpected field a: %+v", a)
	}
	if !b.Required.IsComputed() || b.Required.Source() != `a == "x"` {
		t.Fatalf("expected computed requirement on b, got %+v", b.Required)
	}
	if b.MinValue == nil || *b.MinValue != 0 {
		t.Fatalf("expected zero minimum on b")
	}
	if b.Label != "b" {
		t.Fatalf("missing label should fall back to id, got %q", b.Label)
	}
	if !c.Required.IsStatic(false) || !c.Invisible.IsStatic(false) {
		t.Fatalf("absent flags must be static false")
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no forms":     "forms: {}\n",
		"bad type":     "forms:\n  x:\n    fields:\n      - id: a\n        type: date\n",
		"bad rule":     "forms:\n  x:\n    fields:\n      - id: a\n        type: string\n        required: \"a ==\"\n",
		"list flag":    "forms:\n  x:\n    fields:\n      - id: a\n        type: string\n        required: [1]\n",
		"invalid yaml": "forms: [\n",
	}
	for name, src := range cases {
		name, src := name, src
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse([]byte(src)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadFSRejectsDuplicatesAcrossFiles(t *testing.T) {
	t.Parallel()

	doc := "forms:\n  same:\n    fields:\n      - id: a\n        type: string\n"
	fsys := fstest.MapFS{
		"one.yaml":   {Data: []byte(doc)},
		"two.yml":    {Data: []byte(doc)},
		"readme.txt": {Data: []byte("ignored")},
	}
	_, err := LoadFS(fsys)
	if !errors.Is(err, ErrDuplicateForm) {
		t.Fatalf("expected ErrDuplicateForm, got %v", err)
	}
}

func TestLoadFSDuplicateFieldIDs(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"forms.json": {Data: []byte(`{"forms":{"x":{"fields":[{"id":"a","type":"string"},{"id":"a","type":"email"}]}}}`)},
	}
	_, err := LoadFS(fsys)
	if !errors.Is(err, model.ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
}

func TestRegistryGetReturnsCopies(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.MustRegister(Definition{
		Name:   "copy",
		Fields: []model.FieldSpec{{ID: "a", Type: model.FieldTypeString, Label: "A"}},
	})

	def, err := reg.Get("copy")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	def.Fields[0].Label = "mutated"

	again, _ := reg.Get("copy")
	if again.Fields[0].Label != "A" {
		t.Fatalf("registry state leaked through Get")
	}

	if _, err := reg.Get("missing"); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if !reg.Has("copy") || reg.Has("missing") {
		t.Fatalf("Has mismatch")
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	t.Parallel()

	reg := New()
	def := Definition{Name: "x", Fields: []model.FieldSpec{{ID: "a", Type: model.FieldTypeString}}}
	reg.MustRegister(def)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		if err, ok := r.(error); !ok || !strings.Contains(err.Error(), "already registered") {
			t.Fatalf("unexpected panic value %v", r)
		}
	}()
	reg.MustRegister(def)
}

func TestWithInitialValues(t *testing.T) {
	t.Parallel()

	reg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	def, _ := reg.Get("rename-project")
	seeded := def.WithInitialValues(map[string]any{"name": "Atlas", "unknown": "x"})

	f, err := seeded.NewForm()
	if err != nil {
		t.Fatalf("NewForm: %v", err)
	}
	if v, _ := f.Value("name"); v != "Atlas" {
		t.Fatalf("name = %q, want Atlas", v)
	}
	if def.Fields[0].InitialValue != nil {
		t.Fatalf("WithInitialValues must not mutate the source definition")
	}
}
