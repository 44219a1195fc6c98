package query

import (
	"reflect"
	"testing"
)

func TestFilterPredicateBuild(t *testing.T) {
	pred := NewFilterPredicate().
		Equal("user_id", 7).
		NotEqual("recommendation", "pass").
		GreaterOrEqual("trust_score", 50)

	where, args := pred.Build()
	want := "user_id = ? AND recommendation <> ? AND trust_score >= ?"
	if where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if !reflect.DeepEqual(args, []interface{}{7, "pass", 50}) {
		t.Fatalf("args = %v", args)
	}
}

func TestFilterPredicateIn(t *testing.T) {
	where, args := NewFilterPredicate().In("status", "completed", "in_progress").Build()
	if where != "status IN (?,?)" {
		t.Fatalf("where = %q", where)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestFilterPredicateEmpty(t *testing.T) {
	pred := NewFilterPredicate()
	if !pred.Empty() {
		t.Fatal("fresh predicate should be empty")
	}
	pred.Like("email", "%@example.com")
	if pred.Empty() {
		t.Fatal("predicate with a clause reported empty")
	}
}
