package flow

import "testing"

func yesNoQuestion(id string) Question {
	return Question{ID: id, Prompt: id, Type: TypeSingle, Options: []string{"yes", "no"}, Required: true}
}

func TestStartEmptyCatalogCompletesImmediately(t *testing.T) {
	e := NewEngine(&Catalog{Name: "empty"})
	res := e.Start()
	if res.Kind != StepCompletion {
		t.Fatalf("expected completion, got %s", res.Kind)
	}
	if len(res.Responses) != 0 {
		t.Fatalf("expected empty sealed responses, got %v", res.Responses)
	}
	if e.Progress() != 100 {
		t.Fatalf("expected progress 100 after completion, got %f", e.Progress())
	}
}

func TestStartIsIdempotentBeforeFirstAnswer(t *testing.T) {
	cat := &Catalog{Domains: []Domain{{
		ID:        "d1",
		Title:     "Domain 1",
		Questions: []Question{yesNoQuestion("q1")},
	}}}
	e := NewEngine(cat)

	first := e.Start()
	again := e.Start()
	if again.Kind != StepNextQuestion || again.Question.ID != first.Question.ID {
		t.Fatalf("repeat start returned %+v, want the pending question %q", again, first.Question.ID)
	}

	// An empty catalog behaves the same way: completion on every call.
	empty := NewEngine(&Catalog{Name: "empty"})
	empty.Start()
	if res := empty.Start(); res.Kind != StepCompletion {
		t.Fatalf("repeat start on empty catalog returned %s", res.Kind)
	}
}

func TestStartPanicsOnceAnswersExist(t *testing.T) {
	cat := &Catalog{Domains: []Domain{{
		ID:        "d1",
		Title:     "Domain 1",
		Questions: []Question{yesNoQuestion("q1"), yesNoQuestion("q2")},
	}}}
	e := NewEngine(cat)
	e.Start()
	if _, err := e.SubmitAnswer("q1", "yes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for a restart after the first answer")
		}
		if _, ok := r.(*OutOfSequenceError); !ok {
			t.Fatalf("expected *OutOfSequenceError, got %T", r)
		}
	}()
	e.Start()
}

func TestSingleBooleanQuestionFlow(t *testing.T) {
	// Scenario A: one domain, one unconditional boolean question.
	cat := &Catalog{Domains: []Domain{{
		ID:    "intro",
		Title: "Intro",
		Questions: []Question{
			{ID: "smoker", Prompt: "Do you smoke?", Type: TypeBoolean},
		},
	}}}
	e := NewEngine(cat)

	res := e.Start()
	if res.Kind != StepNextQuestion || res.Question.ID != "smoker" {
		t.Fatalf("expected first question smoker, got %+v", res)
	}

	res, err := e.SubmitAnswer("smoker", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != StepCompletion {
		t.Fatalf("expected completion, got %s", res.Kind)
	}
	if v, ok := res.Responses["smoker"].(bool); !ok || !v {
		t.Fatalf("sealed responses missing answer: %v", res.Responses)
	}
}

func TestConditionalQuestionNeverSurfacedWhenConditionFalse(t *testing.T) {
	// Scenario B: Q2 depends on Q1 == "yes"; Q1 answered "no".
	q2 := yesNoQuestion("q2")
	q2.DependsOn = &Condition{QuestionID: "q1", Values: []string{"yes"}}
	cat := &Catalog{Domains: []Domain{{
		ID:        "d1",
		Title:     "Domain 1",
		Questions: []Question{yesNoQuestion("q1"), q2},
	}}}
	e := NewEngine(cat)
	e.Start()

	res, err := e.SubmitAnswer("q1", "no")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != StepCompletion {
		t.Fatalf("q2 should have been skipped, got %s", res.Kind)
	}
	if _, ok := res.Responses["q2"]; ok {
		t.Fatal("q2 must not appear in the sealed responses")
	}
}

func TestConditionalQuestionSurfacedWhenConditionTrue(t *testing.T) {
	q2 := yesNoQuestion("q2")
	q2.DependsOn = &Condition{QuestionID: "q1", Values: []string{"yes"}}
	cat := &Catalog{Domains: []Domain{{
		ID:        "d1",
		Title:     "Domain 1",
		Questions: []Question{yesNoQuestion("q1"), q2},
	}}}
	e := NewEngine(cat)
	e.Start()

	res, _ := e.SubmitAnswer("q1", "yes")
	if res.Kind != StepNextQuestion || res.Question.ID != "q2" {
		t.Fatalf("expected q2 to surface, got %+v", res)
	}
}

func TestWildcardConditionNeedsNonEmptyAnswer(t *testing.T) {
	followup := Question{ID: "details", Prompt: "Details", Type: TypeText,
		DependsOn: &Condition{QuestionID: "notes", Values: []string{AnyValue}}}
	cat := &Catalog{Domains: []Domain{{
		ID:    "d1",
		Title: "Domain 1",
		Questions: []Question{
			{ID: "notes", Prompt: "Notes", Type: TypeText},
			followup,
		},
	}}}

	e := NewEngine(cat)
	e.Start()
	res, _ := e.SubmitAnswer("notes", "")
	if res.Kind != StepCompletion {
		t.Fatalf("empty text must not satisfy the wildcard, got %s", res.Kind)
	}

	e = NewEngine(cat)
	e.Start()
	res, _ = e.SubmitAnswer("notes", "chest pain after exercise")
	if res.Kind != StepNextQuestion || res.Question.ID != "details" {
		t.Fatalf("non-empty text should satisfy the wildcard, got %+v", res)
	}
}

func TestDomainTransitionRequiresExplicitContinue(t *testing.T) {
	// Scenario C: two domains, one question each.
	cat := &Catalog{Domains: []Domain{
		{ID: "d1", Title: "First", Questions: []Question{yesNoQuestion("q1")}},
		{ID: "d2", Title: "Second", Questions: []Question{yesNoQuestion("q2")}},
	}}
	e := NewEngine(cat)
	e.Start()

	res, _ := e.SubmitAnswer("q1", "yes")
	if res.Kind != StepDomainTransition {
		t.Fatalf("expected domain transition, got %s", res.Kind)
	}
	if res.CompletedDomain != "d1" || res.NextDomain != "d2" {
		t.Fatalf("transition should identify d1 -> d2, got %+v", res)
	}
	if !e.AwaitingContinue() {
		t.Fatal("engine must park at the boundary until the caller continues")
	}

	res = e.Continue()
	if res.Kind != StepNextQuestion || res.Question.ID != "q2" {
		t.Fatalf("continue should surface q2, got %+v", res)
	}

	res, _ = e.SubmitAnswer("q2", "no")
	if res.Kind != StepCompletion {
		t.Fatalf("expected completion, got %s", res.Kind)
	}
}

func TestCriticalItemFlagsImmediately(t *testing.T) {
	// Scenario D: a critical instrument item answered above zero raises the
	// flag regardless of every other answer being zero.
	cat := &Catalog{Domains: []Domain{{
		ID:    "mental",
		Title: "Mental Health",
		Questions: []Question{
			{ID: "phq9_1", Prompt: "Little interest", Type: TypeScale,
				Options:    []string{"Not at all", "Several days", "More than half the days", "Nearly every day"},
				Instrument: "PHQ-9", RiskWeight: 1, RiskCategory: CategoryMentalHealth},
			{ID: "phq9_9", Prompt: "Thoughts of self-harm", Type: TypeScale,
				Options:    []string{"Not at all", "Several days", "More than half the days", "Nearly every day"},
				Instrument: "PHQ-9", RiskWeight: 3, RiskCategory: CategoryMentalHealth,
				Critical: true, CriticalFlag: "suicide_risk"},
		},
	}}}
	e := NewEngine(cat)
	e.Start()

	if _, err := e.SubmitAnswer("phq9_1", "Not at all"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := e.SubmitAnswer("phq9_9", "Several days")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != StepCompletion {
		t.Fatalf("expected completion, got %s", res.Kind)
	}
	if !res.Risk.HasFlag("suicide_risk") {
		t.Fatalf("expected suicide_risk flag, got %v", res.Risk.Flags)
	}
}

func TestEmergencyFlagIsNeverCleared(t *testing.T) {
	cat := &Catalog{Domains: []Domain{{
		ID:    "mental",
		Title: "Mental Health",
		Questions: []Question{
			{ID: "phq9_9", Prompt: "Thoughts of self-harm", Type: TypeScale,
				Options:  []string{"Not at all", "Several days", "More than half the days", "Nearly every day"},
				Critical: true, CriticalFlag: "suicide_risk"},
			yesNoQuestion("q2"),
		},
	}}}
	e := NewEngine(cat)
	e.Start()
	e.SubmitAnswer("phq9_9", "Several days")
	if !e.Risk().HasFlag("suicide_risk") {
		t.Fatal("flag should be raised")
	}

	// Walk back and downgrade the answer; the session keeps the flag.
	back := e.GoBack()
	if back.Question == nil || back.Question.ID != "phq9_9" {
		t.Fatalf("expected to re-open phq9_9, got %+v", back)
	}
	e.SubmitAnswer("phq9_9", "Not at all")
	if !e.Risk().HasFlag("suicide_risk") {
		t.Fatal("emergency flag must not be cleared by later answers")
	}
}

func TestGoBackAtFirstQuestionIsNoOp(t *testing.T) {
	// Scenario E.
	cat := &Catalog{Domains: []Domain{
		{ID: "d1", Title: "First", Questions: []Question{yesNoQuestion("q1"), yesNoQuestion("q2")}},
	}}
	e := NewEngine(cat)
	first := e.Start()

	res := e.GoBack()
	if res.Kind != StepNextQuestion || res.Question.ID != first.Question.ID {
		t.Fatalf("goBack at the first question must return the same question, got %+v", res)
	}
	if e.Pending() != "q1" {
		t.Fatalf("pending pointer moved to %q", e.Pending())
	}
}

func TestGoBackCrossesDomainBoundary(t *testing.T) {
	cat := &Catalog{Domains: []Domain{
		{ID: "d1", Title: "First", Questions: []Question{yesNoQuestion("q1")}},
		{ID: "d2", Title: "Second", Questions: []Question{yesNoQuestion("q2")}},
	}}
	e := NewEngine(cat)
	e.Start()
	e.SubmitAnswer("q1", "yes")
	e.Continue()

	res := e.GoBack()
	if res.Question == nil || res.Question.ID != "q1" {
		t.Fatalf("expected to land on q1, got %+v", res)
	}

	// Forward again: the answer is overwritten and the flow proceeds.
	step, _ := e.SubmitAnswer("q1", "no")
	if step.Kind != StepDomainTransition || step.NextDomain != "d2" {
		t.Fatalf("expected the d1 -> d2 transition again, got %+v", step)
	}
}

func TestGoBackFromTransitionReopensDomain(t *testing.T) {
	cat := &Catalog{Domains: []Domain{
		{ID: "d1", Title: "First", Questions: []Question{yesNoQuestion("q1"), yesNoQuestion("q2")}},
		{ID: "d2", Title: "Second", Questions: []Question{yesNoQuestion("q3")}},
	}}
	e := NewEngine(cat)
	e.Start()
	e.SubmitAnswer("q1", "yes")
	e.SubmitAnswer("q2", "yes")
	if !e.AwaitingContinue() {
		t.Fatal("expected a parked transition")
	}

	res := e.GoBack()
	if res.Question == nil || res.Question.ID != "q2" {
		t.Fatalf("expected to re-open q2, got %+v", res)
	}
	if e.AwaitingContinue() {
		t.Fatal("transition should be withdrawn after goBack")
	}
}

func TestOutOfSequenceSubmissionPanics(t *testing.T) {
	cat := &Catalog{Domains: []Domain{
		{ID: "d1", Title: "First", Questions: []Question{yesNoQuestion("q1"), yesNoQuestion("q2")}},
	}}
	e := NewEngine(cat)
	e.Start()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for an out-of-sequence submission")
		}
		if _, ok := r.(*OutOfSequenceError); !ok {
			t.Fatalf("expected *OutOfSequenceError, got %T", r)
		}
	}()
	e.SubmitAnswer("q2", "yes")
}

func TestValidationErrorLeavesStateUntouched(t *testing.T) {
	cat := &Catalog{Domains: []Domain{
		{ID: "d1", Title: "First", Questions: []Question{yesNoQuestion("q1")}},
	}}
	e := NewEngine(cat)
	e.Start()

	_, err := e.SubmitAnswer("q1", 42)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.QuestionID != "q1" {
		t.Fatalf("error should be keyed by question id, got %q", verr.QuestionID)
	}
	if len(e.Responses()) != 0 {
		t.Fatal("a rejected answer must not reach the response map")
	}
	if e.Pending() != "q1" {
		t.Fatal("the flow must not advance on a rejected answer")
	}

	// The same question accepts a well-formed retry.
	res, err := e.SubmitAnswer("q1", "yes")
	if err != nil || res.Kind != StepCompletion {
		t.Fatalf("retry should complete the flow, got %+v / %v", res, err)
	}
}

func TestProgressMonotoneUnderForwardNavigation(t *testing.T) {
	trigger := yesNoQuestion("q2")
	reveal := func(id string) Question {
		q := yesNoQuestion(id)
		q.DependsOn = &Condition{QuestionID: "q2", Values: []string{"yes"}}
		return q
	}
	cat := &Catalog{Domains: []Domain{
		{ID: "d1", Title: "First", Questions: []Question{
			yesNoQuestion("q1"), trigger, reveal("q3"), reveal("q4"), reveal("q5"),
		}},
		{ID: "d2", Title: "Second", Questions: []Question{yesNoQuestion("q6")}},
	}}
	e := NewEngine(cat)
	e.Start()

	last := e.Progress()
	if last < 0 || last > 100 {
		t.Fatalf("progress out of range: %f", last)
	}
	check := func() {
		p := e.Progress()
		if p < last {
			t.Fatalf("progress decreased from %f to %f under forward navigation", last, p)
		}
		if p < 0 || p > 100 {
			t.Fatalf("progress out of range: %f", p)
		}
		last = p
	}

	// Answering q2 "yes" reveals three more questions, shrinking the raw
	// answered share; the reported value must still not decrease.
	for _, id := range []string{"q1", "q2", "q3", "q4", "q5"} {
		if _, err := e.SubmitAnswer(id, "yes"); err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
		check()
	}
	e.Continue()
	check()
	res, _ := e.SubmitAnswer("q6", "no")
	check()
	if res.Kind != StepCompletion || e.Progress() != 100 {
		t.Fatalf("expected completion at 100%%, got %+v at %f", res, e.Progress())
	}
}

func TestProgressIdempotentBetweenAnswers(t *testing.T) {
	cat := &Catalog{Domains: []Domain{
		{ID: "d1", Title: "First", Questions: []Question{yesNoQuestion("q1"), yesNoQuestion("q2")}},
	}}
	e := NewEngine(cat)
	e.Start()
	e.SubmitAnswer("q1", "yes")

	p1 := e.Progress()
	r1 := e.Risk()
	c1 := e.Consistency()
	p2 := e.Progress()
	r2 := e.Risk()
	c2 := e.Consistency()
	if p1 != p2 {
		t.Fatalf("progress not idempotent: %f vs %f", p1, p2)
	}
	if len(r1.Flags) != len(r2.Flags) || r1.Categories[CategoryMentalHealth] != r2.Categories[CategoryMentalHealth] {
		t.Fatal("risk score not idempotent")
	}
	if c1.InconsistencyScore != c2.InconsistencyScore || c1.Recommendation != c2.Recommendation {
		t.Fatal("consistency report not idempotent")
	}
}

func TestCompletionRiskRoundTrip(t *testing.T) {
	cat := &Catalog{Domains: []Domain{{
		ID:    "d1",
		Title: "First",
		Questions: []Question{
			{ID: "exercise", Prompt: "Exercise?", Type: TypeBoolean, RiskWeight: 2, RiskCategory: CategoryLifestyle},
			{ID: "stress", Prompt: "Stress level", Type: TypeScale,
				Options:    []string{"none", "mild", "moderate", "severe"},
				RiskWeight: 1.5, RiskCategory: CategoryMentalHealth},
		},
	}}}
	e := NewEngine(cat)
	e.Start()
	e.SubmitAnswer("exercise", true)
	res, _ := e.SubmitAnswer("stress", "severe")
	if res.Kind != StepCompletion {
		t.Fatalf("expected completion, got %s", res.Kind)
	}

	// Feeding the sealed response map back through the pure recompute yields
	// the same score.
	again := ComputeRisk(cat, res.Responses)
	for category, v := range res.Risk.Categories {
		if again.Categories[category] != v {
			t.Fatalf("category %s: %f != %f", category, again.Categories[category], v)
		}
	}
	if len(again.Flags) != len(res.Risk.Flags) {
		t.Fatalf("flags differ: %v vs %v", again.Flags, res.Risk.Flags)
	}
}
