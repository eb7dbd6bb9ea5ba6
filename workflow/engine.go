package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/dhruvladia/career-coach-ai/types"
)

// StateStore is the durable checkpoint store: one record per session holding
// the full workflow state, last-writer-wins per key. Defined here so store
// implementations depend on the workflow package and not the other way around.
type StateStore interface {
	// Load returns the latest checkpoint for a session, or an error carrying
	// types.ErrNotFound when none exists.
	Load(ctx context.Context, sessionID string) (*State, error)
	// Save overwrites the session's checkpoint.
	Save(ctx context.Context, sessionID string, st *State) error
}

// Engine orchestrates one session's turns through the stage graph:
// router -> specialist stages -> gate -> {continue | suspend | finalize}.
// It serializes turns per session and checkpoints state at every suspension
// point and at turn completion.
type Engine struct {
	router  Router
	table   *DispatchTable
	store   StateStore
	locks   *sessionLocks
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the engine metrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer sets the engine tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// NewEngine creates a workflow engine.
func NewEngine(router Router, table *DispatchTable, store StateStore, opts ...Option) *Engine {
	e := &Engine{
		router: router,
		table:  table,
		store:  store,
		locks:  newSessionLocks(),
		logger: zap.NewNop(),
		tracer: otel.Tracer("career-coach-ai/workflow"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("component", "workflow_engine"))
	return e
}

// StartTurn processes one user message through the stage graph. It returns
// either a completed response or a suspend response asking for human input.
//
// A session in awaiting_input receiving a fresh message is treated as an
// implicit decline: the pending side effect is discarded and a new turn
// begins.
func (e *Engine) StartTurn(ctx context.Context, sessionID, userMessage string, profile *types.UserProfile) (*TurnResult, error) {
	release, ok := e.locks.tryAcquire(sessionID)
	if !ok {
		return nil, types.NewError(types.ErrInvalidState, "a turn is already in progress for this session").
			WithHTTPStatus(409)
	}
	defer release()

	ctx, span := e.tracer.Start(ctx, "workflow.turn",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	st, err := e.store.Load(ctx, sessionID)
	if err != nil {
		if types.IsCode(err, types.ErrNotFound) {
			st = NewState(sessionID, profile)
		} else {
			e.metrics.countTurn("error")
			return nil, types.NewError(types.ErrStoreFailure, "failed to load checkpoint").WithCause(err)
		}
	}
	if profile != nil {
		st.Profile = profile
	}

	// Implicit-decline policy: a new message while a confirmation is pending
	// discards the deferred side effect before the fresh turn starts.
	if st.Phase == PhaseAwaitingInput {
		e.logger.Info("new turn while awaiting input, discarding pending confirmation",
			zap.String("session_id", sessionID))
		if st.Pending != nil {
			st, err = e.handleConfirmation(ctx, st, false)
			if err != nil {
				e.metrics.countTurn("error")
				return nil, err
			}
		}
		st.ClearHumanInput()
	}

	st.BeginTurn(userMessage)

	decision, err := e.router.Route(ctx, st)
	if err != nil {
		e.metrics.countTurn("error")
		return nil, types.NewError(types.ErrRoutingContract, "router failed").WithCause(err)
	}
	if err := decision.Validate(); err != nil {
		e.metrics.countTurn("error")
		return nil, err
	}
	st.RoutingPlan = decision.Labels

	e.logger.Info("turn routed",
		zap.String("session_id", sessionID),
		zap.Int("turn", st.Turn),
		zap.Strings("labels", decision.Labels),
		zap.Bool("used_fallback", decision.UsedFallback),
	)

	return e.dispatch(ctx, st)
}

// Resume continues a suspended turn with the human input. It fails with
// types.ErrInvalidState when the session is not awaiting input, and with
// types.ErrNotFound when the session has no checkpoint. Calling resume twice
// for the same suspension yields ErrInvalidState on the second call, so the
// deferred side effect commits at most once.
func (e *Engine) Resume(ctx context.Context, sessionID, humanInput string) (*TurnResult, error) {
	release, ok := e.locks.tryAcquire(sessionID)
	if !ok {
		return nil, types.NewError(types.ErrInvalidState, "a turn is already in progress for this session").
			WithHTTPStatus(409)
	}
	defer release()

	ctx, span := e.tracer.Start(ctx, "workflow.resume",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	st, err := e.store.Load(ctx, sessionID)
	if err != nil {
		if types.IsCode(err, types.ErrNotFound) {
			e.metrics.countResume("error")
			return nil, types.NewError(types.ErrNotFound, "unknown session").WithHTTPStatus(404).WithCause(err)
		}
		e.metrics.countResume("error")
		return nil, types.NewError(types.ErrStoreFailure, "failed to load checkpoint").WithCause(err)
	}

	if st.Phase != PhaseAwaitingInput {
		e.metrics.countResume("error")
		return nil, types.NewError(types.ErrInvalidState,
			fmt.Sprintf("session is not awaiting input (workflow_stage=%s)", st.Phase)).
			WithHTTPStatus(409)
	}

	approved := IsAffirmative(humanInput)
	st.HumanInputReceived = humanInput
	st.Phase = PhaseConfirmed

	st, err = e.handleConfirmation(ctx, st, approved)
	if err != nil {
		e.metrics.countResume("error")
		return nil, err
	}

	// Human input handled; awaiting_input fields are cleared either way, and
	// the turn continues through the remaining routing labels.
	st.ClearHumanInput()
	st.Phase = PhaseProcessing
	if err := st.Validate(); err != nil {
		e.metrics.countResume("error")
		return nil, err
	}

	if approved {
		e.metrics.countResume("approved")
	} else {
		e.metrics.countResume("declined")
	}

	return e.dispatch(ctx, st)
}

// handleConfirmation re-invokes the stage that requested confirmation with the
// checkpointed pending payload still attached to the state.
func (e *Engine) handleConfirmation(ctx context.Context, st *State, approved bool) (*State, error) {
	if st.Pending == nil {
		return nil, types.NewError(types.ErrInternal, "awaiting input with no pending confirmation")
	}
	stage, ok := e.table.Lookup(st.Pending.Stage)
	if !ok {
		return nil, types.NewError(types.ErrInternal,
			fmt.Sprintf("no stage registered for pending confirmation: %s", st.Pending.Stage))
	}
	handler, ok := stage.(ConfirmationHandler)
	if !ok {
		return nil, types.NewError(types.ErrInternal,
			fmt.Sprintf("stage %s requested confirmation but cannot handle one", st.Pending.Stage))
	}

	next, err := handler.Confirm(ctx, st, approved)
	if err != nil {
		return nil, types.NewError(types.ErrStageExecution,
			fmt.Sprintf("stage %s failed to resolve confirmation", st.Pending.Stage)).WithCause(err)
	}
	return next, nil
}

// dispatch runs the gate-driven loop: execute the next pending label, then
// continue, suspend, or finalize per the gate's verdict.
func (e *Engine) dispatch(ctx context.Context, st *State) (*TurnResult, error) {
	for {
		pending := st.PendingLabels()
		if len(pending) == 0 {
			return e.finalize(ctx, st)
		}

		label := pending[0]
		stage, ok := e.table.Resolve(label)
		if !ok {
			e.metrics.countTurn("error")
			return nil, types.NewError(types.ErrRoutingContract,
				fmt.Sprintf("no stage registered for label: %s", label))
		}

		// An unregistered label resolves to the default stage, which appends
		// history under its own name. Rewrite the plan entry so routing
		// history, summaries, and at-most-once tracking all use that name.
		if resolved := stage.Name(); resolved != label {
			st.ReplacePlanLabel(label, resolved)
			if st.HasRouted(resolved) {
				continue
			}
			label = resolved
		}

		st.ConsumeLabel(label)

		next, err := e.runStage(ctx, stage, label, st)
		if err != nil {
			e.metrics.countTurn("error")
			return nil, err
		}
		st = next

		switch action := Gate(st); action {
		case GateSuspend:
			return e.suspend(ctx, st)
		case GateContinue, GateFinalize:
			// Loop condition handles both.
		}
	}
}

// runStage executes one specialist stage against a clone of the state, so a
// failing stage cannot leave the state half-updated.
func (e *Engine) runStage(ctx context.Context, stage Stage, label string, st *State) (*State, error) {
	ctx, span := e.tracer.Start(ctx, "workflow.stage",
		trace.WithAttributes(
			attribute.String("stage.label", label),
			attribute.String("session.id", st.SessionID),
		))
	defer span.End()

	clone, err := st.Clone()
	if err != nil {
		return nil, types.NewError(types.ErrInternal, "failed to snapshot state").WithCause(err)
	}

	start := time.Now()
	next, err := stage.Handle(ctx, clone)
	duration := time.Since(start)
	e.metrics.observeStage(label, duration)

	if err != nil {
		e.logger.Error("stage failed",
			zap.String("session_id", st.SessionID),
			zap.String("stage", label),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, types.NewError(types.ErrStageExecution,
			fmt.Sprintf("stage %s failed", label)).WithCause(err)
	}

	e.logger.Debug("stage completed",
		zap.String("session_id", st.SessionID),
		zap.String("stage", label),
		zap.Duration("duration", duration),
	)
	return next, nil
}

func (e *Engine) suspend(ctx context.Context, st *State) (*TurnResult, error) {
	st.Phase = PhaseAwaitingInput
	if err := st.Validate(); err != nil {
		e.metrics.countTurn("error")
		return nil, err
	}
	if err := e.saveCheckpoint(ctx, st); err != nil {
		e.metrics.countTurn("error")
		return nil, err
	}

	e.logger.Info("turn suspended for human input",
		zap.String("session_id", st.SessionID),
		zap.Int("turn", st.Turn),
		zap.String("input_type", string(st.HumanInputType)),
	)
	e.metrics.countTurn("suspended")
	return suspendResult(st), nil
}

func (e *Engine) finalize(ctx context.Context, st *State) (*TurnResult, error) {
	st.Phase = PhaseCompleted
	if err := st.Validate(); err != nil {
		e.metrics.countTurn("error")
		return nil, err
	}
	result := Finalize(st)
	if err := e.saveCheckpoint(ctx, st); err != nil {
		e.metrics.countTurn("error")
		return nil, err
	}

	e.logger.Info("turn completed",
		zap.String("session_id", st.SessionID),
		zap.Int("turn", st.Turn),
		zap.Strings("stages", st.RoutingHistory),
	)
	e.metrics.countTurn("completed")
	return result, nil
}

func (e *Engine) saveCheckpoint(ctx context.Context, st *State) error {
	st.UpdatedAt = time.Now().UTC()
	if err := e.store.Save(ctx, st.SessionID, st); err != nil {
		return types.NewError(types.ErrStoreFailure, "failed to save checkpoint").WithCause(err)
	}
	return nil
}

// sessionLocks serializes turns per session: a given session never has two
// turns or a turn-and-a-resume executing concurrently, while unrelated
// sessions proceed fully in parallel.
type sessionLocks struct {
	mu     sync.Mutex
	leases map[string]*semaphore.Weighted
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{leases: make(map[string]*semaphore.Weighted)}
}

func (l *sessionLocks) tryAcquire(sessionID string) (func(), bool) {
	l.mu.Lock()
	sem, ok := l.leases[sessionID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.leases[sessionID] = sem
	}
	l.mu.Unlock()

	if !sem.TryAcquire(1) {
		return nil, false
	}
	return func() { sem.Release(1) }, true
}
