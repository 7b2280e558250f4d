package validation

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
)

func TestValidateRequiredEmail(t *testing.T) {
	t.Parallel()

	specs := []model.FieldSpec{
		{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Required: model.Static(true)},
	}

	got := Validate(specs, model.Fields{"email": ""})
	want := Result{
		Errors: model.Errors{"email": "Email is required"},
		Issues: []Issue{{Field: "email", Kind: MissingRequiredValue, Message: "Email is required"}},
		Valid:  false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateFieldRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		spec    model.FieldSpec
		value   string
		wantMsg string
		kind    Kind
	}{
		{
			name:    "required string missing",
			spec:    model.FieldSpec{ID: "f", Type: model.FieldTypeString, Label: "Name", Required: model.Static(true)},
			value:   "",
			wantMsg: "Name is required",
			kind:    MissingRequiredValue,
		},
		{
			name:  "required string whitespace is present",
			spec:  model.FieldSpec{ID: "f", Type: model.FieldTypeString, Label: "Name", Required: model.Static(true)},
			value: " ",
		},
		{
			name:    "invalid email",
			spec:    model.FieldSpec{ID: "f", Type: model.FieldTypeEmail, Label: "Email"},
			value:   "not-an-email",
			wantMsg: "Invalid email",
			kind:    InvalidEmailFormat,
		},
		{
			name:  "valid email",
			spec:  model.FieldSpec{ID: "f", Type: model.FieldTypeEmail, Label: "Email"},
			value: "a@b.com",
		},
		{
			name:  "invisible email skips format",
			spec:  model.FieldSpec{ID: "f", Type: model.FieldTypeEmail, Label: "Email", Invisible: model.Static(true)},
			value: "nope",
		},
		{
			name:    "optional visible email empty",
			spec:    model.FieldSpec{ID: "f", Type: model.FieldTypeEmail, Label: "Email"},
			value:   "",
			wantMsg: "Invalid email",
			kind:    InvalidEmailFormat,
		},
		{
			name:    "required number not numeric",
			spec:    model.FieldSpec{ID: "f", Type: model.FieldTypeNumber, Label: "Seats", Required: model.Static(true)},
			value:   "abc",
			wantMsg: "Invalid number",
			kind:    InvalidNumberFormat,
		},
		{
			name:  "optional number not numeric",
			spec:  model.FieldSpec{ID: "f", Type: model.FieldTypeNumber, Label: "Seats", MinValue: model.Float(5)},
			value: "abc",
		},
		{
			name:    "below minimum",
			spec:    model.FieldSpec{ID: "f", Type: model.FieldTypeNumber, Label: "Seats", MinValue: model.Float(5)},
			value:   "3",
			wantMsg: "Seats cannot be less than 5",
			kind:    BelowMinimum,
		},
		{
			name:    "above maximum",
			spec:    model.FieldSpec{ID: "f", Type: model.FieldTypeNumber, Label: "Seats", MaxValue: model.Float(8)},
			value:   "10",
			wantMsg: "Seats cannot be more than 8",
			kind:    AboveMaximum,
		},
		{
			name:    "fractional bound formatting",
			spec:    model.FieldSpec{ID: "f", Type: model.FieldTypeNumber, Label: "Ratio", MaxValue: model.Float(0.5)},
			value:   "0.75",
			wantMsg: "Ratio cannot be more than 0.5",
			kind:    AboveMaximum,
		},
		{
			name:  "within bounds",
			spec:  model.FieldSpec{ID: "f", Type: model.FieldTypeNumber, Label: "Seats", Required: model.Static(true), MinValue: model.Float(5), MaxValue: model.Float(8)},
			value: "6",
		},
		{
			name:  "zero minimum is a bound",
			spec:  model.FieldSpec{ID: "f", Type: model.FieldTypeNumber, Label: "Seats", MinValue: model.Float(0)},
			value: "0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := Validate([]model.FieldSpec{tc.spec}, model.Fields{"f": tc.value})
			if tc.wantMsg == "" {
				if !res.Valid {
					t.Fatalf("expected valid, got %+v", res.Issues)
				}
				return
			}
			if res.Valid {
				t.Fatalf("expected invalid")
			}
			if got := res.Errors["f"]; got != tc.wantMsg {
				t.Fatalf("message = %q, want %q", got, tc.wantMsg)
			}
			if len(res.Issues) != 1 || res.Issues[0].Kind != tc.kind {
				t.Fatalf("issues = %+v, want kind %s", res.Issues, tc.kind)
			}
		})
	}
}

func TestValidateComputedRequirement(t *testing.T) {
	t.Parallel()

	specs := []model.FieldSpec{
		{ID: "team", Type: model.FieldTypeString, Label: "Team"},
		{
			ID:    "seats",
			Type:  model.FieldTypeNumber,
			Label: "Seats",
			Required: model.Computed(func(f model.Fields) bool {
				return f["team"] != ""
			}),
		},
	}

	if res := Validate(specs, model.Fields{"team": "", "seats": ""}); !res.Valid {
		t.Fatalf("expected valid without team, got %+v", res.Errors)
	}

	res := Validate(specs, model.Fields{"team": "core", "seats": ""})
	if res.Errors["seats"] != "Seats is required" {
		t.Fatalf("expected seats required, got %+v", res.Errors)
	}

	// computed required numbers are not format checked
	res = Validate(specs, model.Fields{"team": "core", "seats": "many"})
	if !res.Valid {
		t.Fatalf("expected valid for computed requirement, got %+v", res.Errors)
	}
}

func TestValidateKeepsSpecOrderAndDoesNotMutate(t *testing.T) {
	t.Parallel()

	specs := []model.FieldSpec{
		{ID: "b", Type: model.FieldTypeString, Label: "B", Required: model.Static(true)},
		{ID: "a", Type: model.FieldTypeString, Label: "A", Required: model.Static(true)},
	}
	fields := model.Fields{"a": "", "b": ""}

	res := Validate(specs, fields)
	order := []string{res.Issues[0].Field, res.Issues[1].Field}
	if diff := cmp.Diff([]string{"b", "a"}, order); diff != "" {
		t.Fatalf("issue order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.Fields{"a": "", "b": ""}, fields); diff != "" {
		t.Fatalf("fields mutated (-want +got):\n%s", diff)
	}
}

func TestIsEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@b.com", "first.last+tag@example.co.uk", "x_y@sub-domain.io", "a@b.xn--p1ai", "ops@xn--80ak6aa92e.xn--p1ai"}
	invalid := []string{"", "not-an-email", "a@b", "@b.com", "a@.com", ".a@b.com", "a..b@c.com", "a b@c.com", "a@b.c", "a@b.xn-"}

	for _, s := range valid {
		if !IsEmail(s) {
			t.Errorf("IsEmail(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsEmail(s) {
			t.Errorf("IsEmail(%q) = true, want false", s)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	t.Parallel()

	for s, want := range map[string]bool{
		"6": true, "-6": true, "+6.5": true, ".5": true, "0.25": true,
		"": false, "6.": false, "1e3": false, " 6": false, "six": false, "6px": false,
	} {
		if got := IsNumeric(s); got != want {
			t.Errorf("IsNumeric(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseFloat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: "6", want: 6, ok: true},
		{in: "  7.5  ", want: 7.5, ok: true},
		{in: "12px", want: 12, ok: true},
		{in: "1e3", want: 1000, ok: true},
		{in: "1e", want: 1, ok: true},
		{in: ".5", want: 0.5, ok: true},
		{in: "-3", want: -3, ok: true},
		{in: "px", ok: false},
		{in: "", ok: false},
		{in: "-", ok: false},
	}
	for _, tc := range cases {
		got, ok := ParseFloat(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseFloat(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}

	if got, ok := ParseFloat("-Infinity"); !ok || !math.IsInf(got, -1) {
		t.Errorf("ParseFloat(-Infinity) = (%v, %v)", got, ok)
	}
}
