package rule

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
)

func TestCompileEvaluates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		expr   string
		fields model.Fields
		want   bool
	}{
		{name: "truthy present", expr: "company", fields: model.Fields{"company": "Acme"}, want: true},
		{name: "truthy blank", expr: "company", fields: model.Fields{"company": "  "}, want: false},
		{name: "truthy missing", expr: "company", fields: model.Fields{}, want: false},
		{name: "not", expr: "!company", fields: model.Fields{"company": ""}, want: true},
		{name: "string eq", expr: `plan == "team"`, fields: model.Fields{"plan": "team"}, want: true},
		{name: "single quoted", expr: `plan == 'team'`, fields: model.Fields{"plan": "team"}, want: true},
		{name: "bare literal", expr: `plan == team`, fields: model.Fields{"plan": "team"}, want: true},
		{name: "string neq", expr: `plan != "team"`, fields: model.Fields{"plan": "solo"}, want: true},
		{name: "number eq", expr: "seats == 3", fields: model.Fields{"seats": "3.0"}, want: true},
		{name: "number non numeric", expr: "seats == 0", fields: model.Fields{"seats": "abc"}, want: true},
		{name: "bool eq", expr: "newsletter == true", fields: model.Fields{"newsletter": "true"}, want: true},
		{name: "bool from text", expr: "newsletter == true", fields: model.Fields{"newsletter": "yes"}, want: true},
		{name: "null eq", expr: "referrer == null", fields: model.Fields{"referrer": ""}, want: true},
		{name: "null neq", expr: "referrer != null", fields: model.Fields{"referrer": "ads"}, want: true},
		{name: "and", expr: `a && b == "x"`, fields: model.Fields{"a": "1", "b": "x"}, want: true},
		{name: "and short", expr: `a && b == "x"`, fields: model.Fields{"a": "", "b": "x"}, want: false},
		{name: "or", expr: "a || b", fields: model.Fields{"b": "1"}, want: true},
		{name: "grouping", expr: `!(a || b) && c`, fields: model.Fields{"c": "1"}, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req, err := Compile(tc.expr)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tc.expr, err)
			}
			if !req.IsComputed() {
				t.Fatalf("expected computed requirement")
			}
			if got := req.Resolve(tc.fields); got != tc.want {
				t.Fatalf("Resolve = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCompileBlankIsStaticTrue(t *testing.T) {
	t.Parallel()

	req, err := Compile("   ")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !req.IsStatic(true) {
		t.Fatalf("expected Static(true)")
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{
		"a = 1",
		"a & b",
		"a | b",
		`a == "open`,
		"(a || b",
		"a b",
		"a ==",
		"== 1",
		"a && ",
	} {
		if _, err := Compile(expr); !errors.Is(err, ErrSyntax) {
			t.Errorf("Compile(%q) error = %v, want ErrSyntax", expr, err)
		}
	}
}

func TestCompiledRequirementsCompareBySource(t *testing.T) {
	t.Parallel()

	a := MustCompile(`plan == "team"`)
	b := MustCompile(`  plan == "team"  `)
	c := MustCompile(`plan == "solo"`)

	if !a.Equal(b) {
		t.Fatalf("expected equal requirements for identical source")
	}
	if a.Equal(c) {
		t.Fatalf("expected different requirements for different source")
	}
	if a.Source() != `plan == "team"` {
		t.Fatalf("unexpected source %q", a.Source())
	}
}

func TestIdentifiers(t *testing.T) {
	t.Parallel()

	got, err := Identifiers(`plan == team && (seats != 0 || !plan) && referrer`)
	if err != nil {
		t.Fatalf("Identifiers: %v", err)
	}
	want := []string{"plan", "seats", "referrer"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
	}
}
