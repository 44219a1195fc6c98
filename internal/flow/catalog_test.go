package flow

import "testing"

func TestCatalogValidate(t *testing.T) {
	good := &Catalog{Name: "ok", Domains: []Domain{{
		ID: "d1", Title: "D1",
		Questions: []Question{
			{ID: "q1", Type: TypeSingle, Options: []string{"yes", "no"}},
			{ID: "q2", Type: TypeBoolean, DependsOn: &Condition{QuestionID: "q1", Values: []string{"yes"}}},
		},
	}}}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid catalog rejected: %v", err)
	}

	cases := []struct {
		name string
		cat  *Catalog
	}{
		{"duplicate id", &Catalog{Domains: []Domain{{ID: "d", Title: "D", Questions: []Question{
			{ID: "q1", Type: TypeBoolean}, {ID: "q1", Type: TypeBoolean},
		}}}}},
		{"select without options", &Catalog{Domains: []Domain{{ID: "d", Title: "D", Questions: []Question{
			{ID: "q1", Type: TypeSingle},
		}}}}},
		{"unknown type", &Catalog{Domains: []Domain{{ID: "d", Title: "D", Questions: []Question{
			{ID: "q1", Type: "slider"},
		}}}}},
		{"dangling depends_on", &Catalog{Domains: []Domain{{ID: "d", Title: "D", Questions: []Question{
			{ID: "q1", Type: TypeBoolean, DependsOn: &Condition{QuestionID: "ghost", Values: []string{"yes"}}},
		}}}}},
		{"dangling paired_with", &Catalog{Domains: []Domain{{ID: "d", Title: "D", Questions: []Question{
			{ID: "q1", Type: TypeBoolean, PairedWith: "ghost"},
		}}}}},
		{"critical without flag", &Catalog{Domains: []Domain{{ID: "d", Title: "D", Questions: []Question{
			{ID: "q1", Type: TypeBoolean, Critical: true},
		}}}}},
	}
	for _, tc := range cases {
		if err := tc.cat.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

func TestVisibilityAgainstMultiSelectDependee(t *testing.T) {
	q := &Question{ID: "follow", Type: TypeText,
		DependsOn: &Condition{QuestionID: "conditions", Values: []string{"diabetes", "hypertension"}}}

	if q.Visible(map[string]interface{}{"conditions": []string{"asthma"}}) {
		t.Fatal("no intersection, question must stay hidden")
	}
	if !q.Visible(map[string]interface{}{"conditions": []string{"asthma", "diabetes"}}) {
		t.Fatal("intersection present, question must be visible")
	}
	if q.Visible(map[string]interface{}{}) {
		t.Fatal("unanswered dependee must hide the question")
	}
}

func TestVisibilityWildcardPerType(t *testing.T) {
	q := &Question{ID: "follow", Type: TypeText,
		DependsOn: &Condition{QuestionID: "dep", Values: []string{AnyValue}}}

	cases := []struct {
		name    string
		answer  interface{}
		visible bool
	}{
		{"bool false still counts", false, true},
		{"number zero still counts", 0.0, true},
		{"empty string", "", false},
		{"non-empty string", "x", true},
		{"empty list", []string{}, false},
		{"non-empty list", []string{"a"}, true},
	}
	for _, tc := range cases {
		got := q.Visible(map[string]interface{}{"dep": tc.answer})
		if got != tc.visible {
			t.Errorf("%s: visible=%v, want %v", tc.name, got, tc.visible)
		}
	}
}
