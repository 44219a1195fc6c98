package flow

import "sort"

// StepKind discriminates the engine's output after each operation.
type StepKind string

const (
	StepNextQuestion     StepKind = "next_question"
	StepDomainTransition StepKind = "domain_transition"
	StepCompletion       StepKind = "completion"
)

// StepResult is the engine's output after start, an accepted answer, a
// continue, or a back navigation. Exactly one of the kind-specific field sets
// is populated.
type StepResult struct {
	Kind StepKind `json:"kind"`

	// next_question
	Question *Question `json:"question,omitempty"`
	DomainID string    `json:"domain_id,omitempty"`

	// domain_transition
	CompletedDomain string `json:"completed_domain,omitempty"`
	NextDomain      string `json:"next_domain,omitempty"`
	Message         string `json:"message,omitempty"`

	// completion: the sealed response map plus final signals
	Responses   map[string]interface{} `json:"responses,omitempty"`
	Risk        *RiskScore             `json:"risk,omitempty"`
	Consistency *ConsistencyReport     `json:"consistency,omitempty"`
}

// Engine drives one assessment session over a static catalog. It owns its
// response map exclusively and expects strictly sequential, single-threaded
// use; all operations are synchronous and perform no I/O.
type Engine struct {
	catalog   *Catalog
	responses map[string]interface{}

	started          bool
	done             bool
	awaitingContinue bool
	domainIdx        int    // active domain while in flow
	nextDomainIdx    int    // target domain while awaiting an explicit continue
	pending          string // pending question ID, empty between domains and after completion

	risk        RiskScore
	consistency ConsistencyReport
	sticky      map[string]bool // emergency flags are never cleared within a session

	watermark float64 // progress floor under forward-only navigation
}

// NewEngine builds an engine over a validated catalog with an empty response
// map.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{
		catalog:   catalog,
		responses: make(map[string]interface{}),
		risk:      RiskScore{Categories: map[string]float64{}},
		consistency: ConsistencyReport{
			TrustScore:     100,
			Recommendation: RecommendPass,
		},
		sticky: make(map[string]bool),
	}
}

// Start surfaces the first visible question of the first domain, or an
// immediate completion for an empty catalog. Repeat calls before the first
// answer re-return the same result; once a response is recorded, restarting
// is a programming error.
func (e *Engine) Start() StepResult {
	if e.started {
		if len(e.responses) != 0 {
			panic(&OutOfSequenceError{Submitted: "", Pending: e.pending})
		}
		if e.done {
			return e.complete()
		}
		return e.questionResult(e.catalog.QuestionByID(e.pending))
	}
	e.started = true
	for di := range e.catalog.Domains {
		if q := e.firstVisible(di, 0); q != nil {
			e.domainIdx = di
			e.pending = q.ID
			return e.questionResult(q)
		}
	}
	return e.complete()
}

// SubmitAnswer records the value for the currently pending question, then
// recomputes the risk and consistency signals and resolves the next step. A
// shape mismatch is returned as *ValidationError with no state change; a
// submission for any question other than the pending one panics with
// *OutOfSequenceError.
func (e *Engine) SubmitAnswer(questionID string, value interface{}) (StepResult, error) {
	if !e.started || e.done || e.awaitingContinue || questionID != e.pending {
		panic(&OutOfSequenceError{Submitted: questionID, Pending: e.pending})
	}
	q := e.catalog.QuestionByID(questionID)
	normalized, verr := validateAnswer(q, value)
	if verr != nil {
		return StepResult{}, verr
	}

	e.responses[questionID] = normalized
	e.recompute()

	// Next visible question within the active domain, in declared order.
	domain := &e.catalog.Domains[e.domainIdx]
	pos := questionIndex(domain, questionID)
	if next := e.firstVisible(e.domainIdx, pos+1); next != nil {
		e.pending = next.ID
		return e.questionResult(next), nil
	}

	// Domain exhausted. Hand control back: the engine never advances domains
	// on its own.
	completed := domain.ID
	for di := e.domainIdx + 1; di < len(e.catalog.Domains); di++ {
		if e.firstVisible(di, 0) != nil {
			e.awaitingContinue = true
			e.nextDomainIdx = di
			e.pending = ""
			return StepResult{
				Kind:            StepDomainTransition,
				CompletedDomain: completed,
				NextDomain:      e.catalog.Domains[di].ID,
				Message:         "Section \"" + domain.Title + "\" complete. Continue to \"" + e.catalog.Domains[di].Title + "\".",
			}, nil
		}
	}

	return e.complete(), nil
}

// Continue advances past a domain transition to the first visible question of
// the announced domain. Calling it in any other state is a programming error.
func (e *Engine) Continue() StepResult {
	if !e.awaitingContinue {
		panic(&OutOfSequenceError{Submitted: "", Pending: e.pending})
	}
	e.awaitingContinue = false
	e.domainIdx = e.nextDomainIdx
	q := e.firstVisible(e.domainIdx, 0)
	if q == nil {
		// Visibility shifted since the transition was announced; fall through
		// to the next domain that still has work, or finish.
		for di := e.domainIdx + 1; di < len(e.catalog.Domains); di++ {
			if first := e.firstVisible(di, 0); first != nil {
				e.domainIdx = di
				e.pending = first.ID
				return e.questionResult(first)
			}
		}
		return e.complete()
	}
	e.pending = q.ID
	return e.questionResult(q)
}

// GoBack moves the pending pointer to the previous visible question, crossing
// a domain boundary when needed. It is a no-op at the very first question.
// Back navigation resets the monotone progress floor.
func (e *Engine) GoBack() StepResult {
	if !e.started || e.done {
		panic(&OutOfSequenceError{Submitted: "", Pending: e.pending})
	}
	if e.awaitingContinue {
		// Re-open the just-finished domain at its last visible question.
		e.awaitingContinue = false
		if q := e.lastVisible(e.domainIdx); q != nil {
			e.pending = q.ID
			e.watermark = 0
			return e.questionResult(q)
		}
	}

	domain := &e.catalog.Domains[e.domainIdx]
	pos := questionIndex(domain, e.pending)
	for i := pos - 1; i >= 0; i-- {
		q := &domain.Questions[i]
		if q.Visible(e.responses) {
			e.pending = q.ID
			e.watermark = 0
			return e.questionResult(q)
		}
	}
	for di := e.domainIdx - 1; di >= 0; di-- {
		if q := e.lastVisible(di); q != nil {
			e.domainIdx = di
			e.pending = q.ID
			e.watermark = 0
			return e.questionResult(q)
		}
	}

	// Already at the very first question: state unchanged.
	return e.questionResult(e.catalog.QuestionByID(e.pending))
}

// Progress reports completion as a 0-100 percentage: fully completed domains
// weighted against the answered share of the current domain's visible
// questions. It never decreases under forward-only navigation.
func (e *Engine) Progress() float64 {
	if e.done {
		return 100
	}
	total := len(e.catalog.Domains)
	if total == 0 {
		return 100
	}

	completed := float64(e.domainIdx)
	fraction := 0.0
	if e.awaitingContinue {
		fraction = 1
	} else if e.pending != "" {
		answered, visible := 0, 0
		for i := range e.catalog.Domains[e.domainIdx].Questions {
			q := &e.catalog.Domains[e.domainIdx].Questions[i]
			if !q.Visible(e.responses) {
				continue
			}
			visible++
			if _, ok := e.responses[q.ID]; ok {
				answered++
			}
		}
		if visible > 0 {
			fraction = float64(answered) / float64(visible)
		}
	}

	p := (completed + fraction) / float64(total) * 100
	if p < e.watermark {
		return e.watermark
	}
	e.watermark = p
	return p
}

// Risk returns the current risk score including sticky emergency flags.
func (e *Engine) Risk() RiskScore { return e.risk }

// Consistency returns the current fraud/consistency report.
func (e *Engine) Consistency() ConsistencyReport { return e.consistency }

// Pending returns the ID of the question awaiting an answer, or empty.
func (e *Engine) Pending() string { return e.pending }

// Done reports whether the session has reached its terminal state.
func (e *Engine) Done() bool { return e.done }

// AwaitingContinue reports whether the engine is parked at a domain boundary.
func (e *Engine) AwaitingContinue() bool { return e.awaitingContinue }

// Responses returns a copy of the current response map.
func (e *Engine) Responses() map[string]interface{} {
	out := make(map[string]interface{}, len(e.responses))
	for k, v := range e.responses {
		out[k] = v
	}
	return out
}

// recompute rebuilds both derived signals from scratch and merges previously
// raised flags back in so an emergency flag is never silently cleared.
func (e *Engine) recompute() {
	e.risk = ComputeRisk(e.catalog, e.responses)
	for _, f := range e.risk.Flags {
		e.sticky[f] = true
	}
	if len(e.sticky) > len(e.risk.Flags) {
		merged := make([]string, 0, len(e.sticky))
		for f := range e.sticky {
			merged = append(merged, f)
		}
		e.risk.Flags = merged
		sort.Strings(e.risk.Flags)
	}
	e.consistency = ComputeConsistency(e.catalog, e.responses)
}

func (e *Engine) complete() StepResult {
	e.done = true
	e.pending = ""
	e.awaitingContinue = false
	e.domainIdx = len(e.catalog.Domains)
	responses := e.Responses()
	risk := e.risk
	consistency := e.consistency
	return StepResult{
		Kind:        StepCompletion,
		Responses:   responses,
		Risk:        &risk,
		Consistency: &consistency,
	}
}

func (e *Engine) questionResult(q *Question) StepResult {
	return StepResult{
		Kind:     StepNextQuestion,
		Question: q,
		DomainID: e.catalog.Domains[e.domainIdx].ID,
	}
}

func (e *Engine) firstVisible(domainIdx, from int) *Question {
	d := &e.catalog.Domains[domainIdx]
	for i := from; i < len(d.Questions); i++ {
		if d.Questions[i].Visible(e.responses) {
			return &d.Questions[i]
		}
	}
	return nil
}

func (e *Engine) lastVisible(domainIdx int) *Question {
	d := &e.catalog.Domains[domainIdx]
	for i := len(d.Questions) - 1; i >= 0; i-- {
		if d.Questions[i].Visible(e.responses) {
			return &d.Questions[i]
		}
	}
	return nil
}

func questionIndex(d *Domain, id string) int {
	for i := range d.Questions {
		if d.Questions[i].ID == id {
			return i
		}
	}
	return -1
}
