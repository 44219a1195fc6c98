package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"wellpath-backend-V2.0/internal/cache"
	"wellpath-backend-V2.0/internal/events"
	"wellpath-backend-V2.0/internal/flow"
	"wellpath-backend-V2.0/internal/model"
	"wellpath-backend-V2.0/internal/repository"
	"wellpath-backend-V2.0/utilities"
)

var (
	ErrSessionNotFound = errors.New("session not found or already completed")
	ErrOutOfSequence   = errors.New("answer out of sequence")
)

// AssessmentCompletedEvent is the payload published on the in-process bus
// when a session seals.
type AssessmentCompletedEvent struct {
	SessionID string
	UserID    uint
}

// SessionView is what the API returns after every engine interaction.
type SessionView struct {
	SessionID      string              `json:"session_id"`
	Step           flow.StepResult     `json:"step"`
	Progress       float64             `json:"progress"`
	TrustScore     float64             `json:"trust_score"`
	Recommendation flow.Recommendation `json:"recommendation"`
	RiskFlags      []string            `json:"risk_flags,omitempty"`
	Done           bool                `json:"done"`
}

type AssessmentService interface {
	StartAssessment(userID uint) (*SessionView, error)
	SubmitAnswer(sessionID, questionID string, value interface{}) (*SessionView, error)
	ContinueSession(sessionID string) (*SessionView, error)
	GoBack(sessionID string) (*SessionView, error)
	GetSessionState(sessionID string) (*SessionView, error)
	GetAssessments(filter repository.AssessmentFilter) ([]model.Assessment, error)
	GetAssessmentBySessionID(sessionID string) (*model.Assessment, error)
}

// Sessions idle longer than this are evicted and their records abandoned.
const sessionIdleTTL = 2 * time.Hour

type sessionState struct {
	mu                sync.Mutex // serializes engine access per session
	engine            *flow.Engine
	userID            uint
	lastStep          flow.StepResult
	emergencyNotified bool
	lastActive        time.Time // guarded by the service mutex, not mu
}

type assessmentService struct {
	assessmentRepo repository.AssessmentRepository
	userRepo       repository.UserRepository
	catalog        *flow.Catalog
	trustCache     cache.TrustCache
	producer       *events.Producer

	mu       sync.Mutex
	sessions map[string]*sessionState
}

func NewAssessmentService(
	assessmentRepo repository.AssessmentRepository,
	userRepo repository.UserRepository,
	catalog *flow.Catalog,
	trustCache cache.TrustCache,
	producer *events.Producer,
) AssessmentService {
	svc := &assessmentService{
		assessmentRepo: assessmentRepo,
		userRepo:       userRepo,
		catalog:        catalog,
		trustCache:     trustCache,
		producer:       producer,
		sessions:       make(map[string]*sessionState),
	}
	go svc.janitor()
	return svc
}

func (s *assessmentService) janitor() {
	for range time.Tick(10 * time.Minute) {
		s.evictIdle(sessionIdleTTL)
	}
}

// evictIdle drops live sessions idle for longer than the given duration and
// marks their records abandoned.
func (s *assessmentService) evictIdle(olderThan time.Duration) {
	cutoff := time.Now().Add(-olderThan)

	s.mu.Lock()
	var stale []string
	for sessionID, state := range s.sessions {
		if state.lastActive.Before(cutoff) {
			stale = append(stale, sessionID)
			delete(s.sessions, sessionID)
		}
	}
	s.mu.Unlock()

	for _, sessionID := range stale {
		assessment, err := s.assessmentRepo.GetAssessmentBySessionID(sessionID)
		if err != nil {
			continue
		}
		assessment.Status = "abandoned"
		if err := s.assessmentRepo.UpdateAssessment(assessment); err != nil {
			utilities.Warn("Failed to abandon idle session %s: %v", sessionID, err)
			continue
		}
		utilities.Info("Evicted idle session %s", sessionID)
	}
}

// StartAssessment opens a fresh engine for the user and persists the
// in-progress record. Any earlier in-progress session for the same user is
// superseded: its engine is dropped and its record marked abandoned.
func (s *assessmentService) StartAssessment(userID uint) (*SessionView, error) {
	if prev, err := s.assessmentRepo.GetCurrentAssessmentByUser(userID); err == nil {
		s.mu.Lock()
		delete(s.sessions, prev.SessionID)
		s.mu.Unlock()
		prev.Status = "abandoned"
		if err := s.assessmentRepo.UpdateAssessment(prev); err != nil {
			utilities.Warn("Failed to abandon session %s for user %d: %v", prev.SessionID, userID, err)
		}
	}

	sessionID := uuid.New().String()
	engine := flow.NewEngine(s.catalog)

	assessment := model.Assessment{
		UserID:      userID,
		SessionID:   sessionID,
		CatalogName: s.catalog.Name,
		Status:      "in_progress",
	}
	if err := s.assessmentRepo.CreateAssessment(&assessment); err != nil {
		return nil, err
	}

	state := &sessionState{engine: engine, userID: userID, lastActive: time.Now()}
	state.mu.Lock()
	defer state.mu.Unlock()
	state.lastStep = engine.Start()

	s.mu.Lock()
	s.sessions[sessionID] = state
	s.mu.Unlock()

	// An empty catalog completes on start.
	if engine.Done() {
		if err := s.seal(sessionID, state); err != nil {
			return nil, err
		}
	}

	view := s.view(sessionID, state)
	s.cacheSnapshot(sessionID, state)
	return view, nil
}

// SubmitAnswer feeds one answer into the session's engine. Validation
// problems come back as *flow.ValidationError and leave the session intact.
// Out-of-sequence submissions surface as ErrOutOfSequence.
func (s *assessmentService) SubmitAnswer(sessionID, questionID string, value interface{}) (view *SessionView, err error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			if seq, ok := r.(*flow.OutOfSequenceError); ok {
				utilities.Warn("Out-of-sequence answer on session %s: %v", sessionID, seq)
				err = fmt.Errorf("%w: %v", ErrOutOfSequence, seq)
				return
			}
			panic(r)
		}
	}()

	step, err := state.engine.SubmitAnswer(questionID, value)
	if err != nil {
		return nil, err
	}
	state.lastStep = step

	s.notifyEmergency(sessionID, state)

	if state.engine.Done() {
		if err := s.seal(sessionID, state); err != nil {
			return nil, err
		}
	}

	view = s.view(sessionID, state)
	s.cacheSnapshot(sessionID, state)
	return view, nil
}

// ContinueSession acknowledges a domain transition and moves to the next
// section's first visible question.
func (s *assessmentService) ContinueSession(sessionID string) (view *SessionView, err error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			if seq, ok := r.(*flow.OutOfSequenceError); ok {
				utilities.Warn("Continue without pending transition on session %s: %v", sessionID, seq)
				err = fmt.Errorf("%w: %v", ErrOutOfSequence, seq)
				return
			}
			panic(r)
		}
	}()

	state.lastStep = state.engine.Continue()

	if state.engine.Done() {
		if err := s.seal(sessionID, state); err != nil {
			return nil, err
		}
	}

	view = s.view(sessionID, state)
	s.cacheSnapshot(sessionID, state)
	return view, nil
}

// GoBack re-opens the previous visible question.
func (s *assessmentService) GoBack(sessionID string) (*SessionView, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	state.lastStep = state.engine.GoBack()
	view := s.view(sessionID, state)
	s.cacheSnapshot(sessionID, state)
	return view, nil
}

// GetSessionState returns the current step without advancing anything.
func (s *assessmentService) GetSessionState(sessionID string) (*SessionView, error) {
	state, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	return s.view(sessionID, state), nil
}

// GetAssessments - fetch persisted sessions, optionally filtered
func (s *assessmentService) GetAssessments(filter repository.AssessmentFilter) ([]model.Assessment, error) {
	return s.assessmentRepo.GetAssessments(filter)
}

// GetAssessmentBySessionID - fetch a specific persisted session
func (s *assessmentService) GetAssessmentBySessionID(sessionID string) (*model.Assessment, error) {
	return s.assessmentRepo.GetAssessmentBySessionID(sessionID)
}

func (s *assessmentService) lookup(sessionID string) (*sessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	state.lastActive = time.Now()
	return state, nil
}

func (s *assessmentService) view(sessionID string, state *sessionState) *SessionView {
	consistency := state.engine.Consistency()
	risk := state.engine.Risk()
	return &SessionView{
		SessionID:      sessionID,
		Step:           state.lastStep,
		Progress:       state.engine.Progress(),
		TrustScore:     consistency.TrustScore,
		Recommendation: consistency.Recommendation,
		RiskFlags:      risk.Flags,
		Done:           state.engine.Done(),
	}
}

// notifyEmergency publishes the emergency event the first time a critical
// flag shows up. The flag itself stays sticky inside the engine.
func (s *assessmentService) notifyEmergency(sessionID string, state *sessionState) {
	if state.emergencyNotified {
		return
	}
	risk := state.engine.Risk()
	for _, f := range risk.Flags {
		if strings.HasSuffix(f, "suicide_risk") {
			state.emergencyNotified = true
			utilities.Error("Emergency flag raised on session %s (user %d)", sessionID, state.userID)
			utilities.GlobalEventBus.Publish(utilities.EventEmergencyFlag, AssessmentCompletedEvent{
				SessionID: sessionID,
				UserID:    state.userID,
			})
			return
		}
	}
}

// seal persists the finished engine output, drops the live session and
// fans the completion out to the bus and Kafka.
func (s *assessmentService) seal(sessionID string, state *sessionState) error {
	assessment, err := s.assessmentRepo.GetAssessmentBySessionID(sessionID)
	if err != nil {
		return err
	}

	responses := state.engine.Responses()
	risk := state.engine.Risk()
	consistency := state.engine.Consistency()

	responsesJSON, err := json.Marshal(responses)
	if err != nil {
		return err
	}
	riskJSON, err := json.Marshal(risk)
	if err != nil {
		return err
	}
	consistencyJSON, err := json.Marshal(consistency)
	if err != nil {
		return err
	}

	now := time.Now()
	assessment.Status = "completed"
	assessment.Progress = state.engine.Progress()
	assessment.Responses = responsesJSON
	assessment.Risk = riskJSON
	assessment.Consistency = consistencyJSON
	assessment.TrustScore = consistency.TrustScore
	assessment.Recommendation = string(consistency.Recommendation)
	assessment.RiskFlags = strings.Join(risk.Flags, ",")
	assessment.CompletedAt = &now

	if err := s.assessmentRepo.UpdateAssessment(assessment); err != nil {
		return err
	}
	if err := s.userRepo.MarkOnboardingDone(state.userID); err != nil {
		utilities.Warn("Failed to mark onboarding done for user %d: %v", state.userID, err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	completed := AssessmentCompletedEvent{SessionID: sessionID, UserID: state.userID}
	utilities.GlobalEventBus.Publish(utilities.EventAssessmentCompleted, completed)
	if consistency.Recommendation == flow.RecommendBlock {
		utilities.GlobalEventBus.Publish(utilities.EventAssessmentBlocked, completed)
	}

	if s.producer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.producer.PublishEvent(ctx, utilities.EventAssessmentCompleted, "assessment-service", map[string]interface{}{
			"session_id":     sessionID,
			"user_id":        state.userID,
			"trust_score":    consistency.TrustScore,
			"recommendation": consistency.Recommendation,
			"risk_flags":     risk.Flags,
		})
	}

	utilities.Info("Session %s sealed for user %d (trust %.1f, %s)",
		sessionID, state.userID, consistency.TrustScore, consistency.Recommendation)
	return nil
}

// cacheSnapshot pushes the live trust view to Redis so status endpoints can
// answer without touching the engine. Best effort.
func (s *assessmentService) cacheSnapshot(sessionID string, state *sessionState) {
	if s.trustCache == nil {
		return
	}
	consistency := state.engine.Consistency()
	risk := state.engine.Risk()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.trustCache.Set(ctx, &cache.TrustSnapshot{
		SessionID:      sessionID,
		UserID:         state.userID,
		Progress:       state.engine.Progress(),
		TrustScore:     consistency.TrustScore,
		Recommendation: string(consistency.Recommendation),
		RiskFlags:      risk.Flags,
		UpdatedAt:      time.Now(),
	})
	if err != nil {
		utilities.Warn("Failed to cache trust snapshot for %s: %v", sessionID, err)
	}
}
