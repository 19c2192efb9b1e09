package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/careops/careops/internal/domain"
	"github.com/careops/careops/pkg/cache"
	"github.com/careops/careops/pkg/logger"
	"github.com/careops/careops/pkg/slug"
	"github.com/careops/careops/pkg/tracing"
)

const (
	msgSaveFailed   = "Could not save your changes, please try again"
	msgSaveTimedOut = "Saving took too long, please try again"
)

// OnboardingConfig holds the wizard tunables
type OnboardingConfig struct {
	WizardTTL          time.Duration
	SaveTimeout        time.Duration
	ActivationRedirect string
}

type wizard struct {
	mu    sync.Mutex
	state domain.WizardSession
}

// OnboardingService drives the eight-step setup wizard. Wizards are kept in
// memory per user and expire after WizardTTL without activity.
type OnboardingService struct {
	workspaceRepo domain.WorkspaceRepository
	store         domain.OnboardingStore
	wizards       cache.Cache[*wizard]
	config        OnboardingConfig
	logger        logger.Logger
	now           func() time.Time
}

func NewOnboardingService(
	workspaceRepo domain.WorkspaceRepository,
	store domain.OnboardingStore,
	config OnboardingConfig,
	logger logger.Logger,
) *OnboardingService {
	return &OnboardingService{
		workspaceRepo: workspaceRepo,
		store:         store,
		wizards:       cache.NewInMemoryCache[*wizard](time.Minute),
		config:        config,
		logger:        logger,
		now:           time.Now,
	}
}

// Close stops the wizard cache sweeper
func (s *OnboardingService) Close() {
	s.wizards.Stop()
}

// Forget drops a user's wizard, used when the user signs out
func (s *OnboardingService) Forget(userID string) {
	s.wizards.Delete(userID)
}

// Enter (re)creates the wizard from the persisted workspace row
func (s *OnboardingService) Enter(ctx context.Context, session domain.Session) (*domain.TransitionResult, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "OnboardingService", "Enter")
	defer span.End()

	w, res, err := s.enter(ctx, session)
	if err != nil {
		tracing.MarkSpanError(ctx, err)
		return nil, err
	}
	if res != nil {
		return s.finish(ctx, res), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return s.finish(ctx, snapshot("enter", domain.OutcomeSuccess, w.state, "")), nil
}

func (s *OnboardingService) enter(ctx context.Context, session domain.Session) (*wizard, *domain.TransitionResult, error) {
	workspaceID := session.WorkspaceID()
	if workspaceID == "" {
		return nil, nil, domain.ErrNoWorkspace
	}
	tracing.AddAttribute(ctx, "workspace_id", workspaceID)

	ws, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.WithField("workspace_id", workspaceID).Warn("Workspace referenced by profile does not exist")
			return nil, nil, domain.ErrNoWorkspace
		}
		s.logger.WithField("workspace_id", workspaceID).
			WithField("error", err.Error()).
			Error("Failed to load workspace for onboarding")
		return nil, &domain.TransitionResult{
			Operation: "enter",
			Outcome:   domain.OutcomeTransientError,
			Message:   "Could not load your workspace, please try again",
		}, nil
	}

	timezone := ws.Timezone
	if timezone == "" {
		timezone = domain.DefaultTimezone
	}

	w := &wizard{
		state: domain.WizardSession{
			UserID:        session.UserID(),
			WorkspaceID:   ws.ID,
			CurrentStep:   domain.EntryStep(ws.Status, ws.OnboardingStep),
			HighWaterMark: ws.OnboardingStep,
			Status:        ws.Status,
			WorkspaceDraft: domain.WorkspaceDraft{
				Name:         ws.Name,
				Address:      ws.Address,
				Timezone:     timezone,
				ContactEmail: ws.ContactEmail,
			},
			ServiceDraft:   domain.DefaultServiceDraft(),
			InventoryDraft: domain.DefaultInventoryDraft(),
			EnteredAt:      s.now(),
		},
	}
	s.wizards.Set(session.UserID(), w, s.config.WizardTTL)

	return w, nil, nil
}

// wizardFor returns the cached wizard, entering when it is missing or belongs
// to another workspace
func (s *OnboardingService) wizardFor(ctx context.Context, session domain.Session) (*wizard, *domain.TransitionResult, error) {
	workspaceID := session.WorkspaceID()
	if workspaceID == "" {
		return nil, nil, domain.ErrNoWorkspace
	}

	if w, ok := s.wizards.Get(session.UserID()); ok {
		w.mu.Lock()
		same := w.state.WorkspaceID == workspaceID
		w.mu.Unlock()
		if same {
			return w, nil, nil
		}
	}

	return s.enter(ctx, session)
}

// State returns the current wizard, entering it first when needed
func (s *OnboardingService) State(ctx context.Context, session domain.Session) (*domain.TransitionResult, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "OnboardingService", "State")
	defer span.End()

	w, res, err := s.wizardFor(ctx, session)
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return snapshot("state", domain.OutcomeSuccess, w.state, ""), nil
}

// Leave discards the user's wizard
func (s *OnboardingService) Leave(ctx context.Context, session domain.Session) error {
	_, span := tracing.StartServiceSpan(ctx, "OnboardingService", "Leave")
	defer span.End()

	s.wizards.Delete(session.UserID())
	return nil
}

// transition describes one persisted wizard operation
type transition struct {
	operation string

	// check gates the operation against the wizard state; an empty outcome
	// lets it proceed
	check func(st domain.WizardSession) (domain.TransitionOutcome, string)

	// write persists the step together with mark
	write func(ctx context.Context, st domain.WizardSession, mark int) error

	// advance updates the wizard after a successful write. Defaults to
	// moving one step forward.
	advance func(st *domain.WizardSession)
}

func requireStep(step domain.Step) func(domain.WizardSession) (domain.TransitionOutcome, string) {
	return func(st domain.WizardSession) (domain.TransitionOutcome, string) {
		if st.CurrentStep != step {
			return domain.OutcomeValidationError, fmt.Sprintf("this action is only available on the %s step", step.Name())
		}
		return "", ""
	}
}

// run executes t against the user's wizard. Only one transition per wizard is
// in flight at a time. The session is refreshed after every write attempt and
// the wizard moves forward only when the write succeeded.
func (s *OnboardingService) run(ctx context.Context, session domain.Session, t transition, stage func(st *domain.WizardSession) error) (*domain.TransitionResult, error) {
	w, res, err := s.wizardFor(ctx, session)
	if err != nil {
		return nil, err
	}
	if res != nil {
		res.Operation = t.operation
		return s.finish(ctx, res), nil
	}

	w.mu.Lock()
	if w.state.Saving {
		w.mu.Unlock()
		return nil, domain.ErrSaveInProgress
	}
	if t.check != nil {
		if outcome, msg := t.check(w.state); outcome != "" {
			res := snapshot(t.operation, outcome, w.state, msg)
			w.mu.Unlock()
			return s.finish(ctx, res), nil
		}
	}
	if stage != nil {
		if err := stage(&w.state); err != nil {
			res := snapshot(t.operation, domain.OutcomeValidationError, w.state, validationMessage(err))
			w.mu.Unlock()
			return s.finish(ctx, res), nil
		}
	}
	w.state.Saving = true
	state := w.state
	w.mu.Unlock()

	mark := domain.NextHighWaterMark(state.CurrentStep, state.HighWaterMark)
	tracing.AddAttribute(ctx, "workspace_id", state.WorkspaceID)
	tracing.AddAttribute(ctx, "onboarding_step", mark)

	writeCtx, cancel := context.WithTimeout(ctx, s.config.SaveTimeout)
	writeErr := t.write(writeCtx, state, mark)
	timedOut := writeErr != nil && errors.Is(writeCtx.Err(), context.DeadlineExceeded)
	cancel()

	if err := session.Refresh(ctx); err != nil {
		s.logger.WithField("user_id", session.UserID()).
			WithField("error", err.Error()).
			Warn("Failed to refresh session after onboarding write")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Saving = false

	if p := session.CurrentProfile(); p.HasWorkspace() && *p.WorkspaceID == w.state.WorkspaceID {
		w.state.HighWaterMark = max(w.state.HighWaterMark, p.OnboardingStep)
		if p.WorkspaceStatus != "" {
			w.state.Status = p.WorkspaceStatus
		}
	}

	if writeErr != nil {
		tracing.MarkSpanError(ctx, writeErr)
		s.logger.WithField("workspace_id", state.WorkspaceID).
			WithField("operation", t.operation).
			WithField("error", (&domain.TransientError{Op: t.operation, Err: writeErr}).Error()).
			Error("Onboarding write failed")

		msg := msgSaveFailed
		if timedOut {
			msg = msgSaveTimedOut
		}
		return s.finish(ctx, snapshot(t.operation, domain.OutcomeTransientError, w.state, msg)), nil
	}

	w.state.HighWaterMark = max(w.state.HighWaterMark, mark)
	if t.advance != nil {
		t.advance(&w.state)
	} else if w.state.CurrentStep < domain.StepActivate {
		w.state.CurrentStep++
	}

	return s.finish(ctx, snapshot(t.operation, domain.OutcomeSuccess, w.state, "")), nil
}

// SaveWorkspace persists the step 1 details and the mark in one update
func (s *OnboardingService) SaveWorkspace(ctx context.Context, session domain.Session, draft domain.WorkspaceDraft) (*domain.TransitionResult, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "OnboardingService", "SaveWorkspace")
	defer span.End()

	draft.Normalize()
	workspaceSlug := slug.Make(draft.Name)

	return s.run(ctx, session, transition{
		operation: "save_workspace",
		check:     requireStep(domain.StepWorkspace),
		write: func(ctx context.Context, st domain.WizardSession, mark int) error {
			update := domain.WorkspaceUpdate{
				Name:           &draft.Name,
				Address:        &draft.Address,
				Timezone:       &draft.Timezone,
				Slug:           &workspaceSlug,
				OnboardingStep: mark,
			}
			if draft.ContactEmail != "" {
				update.ContactEmail = &draft.ContactEmail
			}
			return s.workspaceRepo.UpdateFields(ctx, st.WorkspaceID, update)
		},
	}, func(st *domain.WizardSession) error {
		st.WorkspaceDraft = draft
		if err := draft.Validate(); err != nil {
			return err
		}
		if workspaceSlug == "" {
			return domain.NewValidationError("workspace name must contain letters or digits")
		}
		return nil
	})
}

// SaveEmail stores the contact email. A blank email skips the step.
func (s *OnboardingService) SaveEmail(ctx context.Context, session domain.Session, email string) (*domain.TransitionResult, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "OnboardingService", "SaveEmail")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" {
		return s.skip(ctx, session, requireStep(domain.StepEmail))
	}

	return s.run(ctx, session, transition{
		operation: "save_email",
		check:     requireStep(domain.StepEmail),
		write: func(ctx context.Context, st domain.WizardSession, mark int) error {
			return s.workspaceRepo.UpdateFields(ctx, st.WorkspaceID, domain.WorkspaceUpdate{
				ContactEmail:   &email,
				OnboardingStep: mark,
			})
		},
	}, func(st *domain.WizardSession) error {
		st.WorkspaceDraft.ContactEmail = email
		if !govalidator.IsEmail(email) {
			return domain.NewValidationError("contact email is invalid")
		}
		return nil
	})
}

// CreateService inserts the first bookable service and advances the mark
// in one transaction
func (s *OnboardingService) CreateService(ctx context.Context, session domain.Session, draft domain.ServiceDraft) (*domain.TransitionResult, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "OnboardingService", "CreateService")
	defer span.End()

	draft.Name = strings.TrimSpace(draft.Name)
	draft.Location = strings.TrimSpace(draft.Location)
	serviceSlug := slug.Make(draft.Name)

	return s.run(ctx, session, transition{
		operation: "create_service",
		check:     requireStep(domain.StepBookings),
		write: func(ctx context.Context, st domain.WizardSession, mark int) error {
			return s.store.InsertServiceAndAdvance(ctx, &domain.ServiceOffering{
				ID:          uuid.New().String(),
				WorkspaceID: st.WorkspaceID,
				Name:        draft.Name,
				Duration:    draft.Duration,
				Price:       draft.Price,
				Location:    draft.Location,
				Slug:        serviceSlug,
				IsActive:    true,
				CreatedAt:   s.now().UTC(),
			}, mark)
		},
		advance: func(st *domain.WizardSession) {
			st.ServiceDraft = domain.ServiceDraft{Duration: st.ServiceDraft.Duration}
			st.CurrentStep++
		},
	}, func(st *domain.WizardSession) error {
		st.ServiceDraft = draft
		if err := draft.Validate(); err != nil {
			return err
		}
		if serviceSlug == "" {
			return domain.NewValidationError("service name must contain letters or digits")
		}
		return nil
	})
}

// AddInventoryItem inserts a stock item and advances the mark in one transaction
func (s *OnboardingService) AddInventoryItem(ctx context.Context, session domain.Session, draft domain.InventoryDraft) (*domain.TransitionResult, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "OnboardingService", "AddInventoryItem")
	defer span.End()

	draft.ItemName = strings.TrimSpace(draft.ItemName)

	return s.run(ctx, session, transition{
		operation: "add_inventory_item",
		check:     requireStep(domain.StepInventory),
		write: func(ctx context.Context, st domain.WizardSession, mark int) error {
			now := s.now().UTC()
			return s.store.InsertInventoryAndAdvance(ctx, &domain.InventoryItem{
				ID:                uuid.New().String(),
				WorkspaceID:       st.WorkspaceID,
				ItemName:          draft.ItemName,
				Quantity:          draft.Quantity,
				LowStockThreshold: draft.LowStockThreshold,
				SKU:               fmt.Sprintf("SKU-%d", now.UnixMilli()),
				CreatedAt:         now,
			}, mark)
		},
		advance: func(st *domain.WizardSession) {
			st.InventoryDraft.ItemName = ""
			st.CurrentStep++
		},
	}, func(st *domain.WizardSession) error {
		st.InventoryDraft = draft
		return draft.Validate()
	})
}

// Skip advances past an optional step, persisting only the mark
func (s *OnboardingService) Skip(ctx context.Context, session domain.Session) (*domain.TransitionResult, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "OnboardingService", "Skip")
	defer span.End()

	return s.skip(ctx, session, nil)
}

// skip advances past a skippable step, after guard when one is given
func (s *OnboardingService) skip(ctx context.Context, session domain.Session, guard func(domain.WizardSession) (domain.TransitionOutcome, string)) (*domain.TransitionResult, error) {
	return s.run(ctx, session, transition{
		operation: "skip",
		check: func(st domain.WizardSession) (domain.TransitionOutcome, string) {
			if guard != nil {
				if outcome, msg := guard(st); outcome != "" {
					return outcome, msg
				}
			}
			if !st.CurrentStep.Skippable() {
				return domain.OutcomeValidationError, fmt.Sprintf("the %s step cannot be skipped", st.CurrentStep.Name())
			}
			return "", ""
		},
		write: func(ctx context.Context, st domain.WizardSession, mark int) error {
			return s.workspaceRepo.AdvanceOnboarding(ctx, st.WorkspaceID, mark)
		},
	}, nil)
}

// GoTo moves the wizard to a step the user has already unlocked. Nothing is
// persisted; a locked step leaves the wizard where it is.
func (s *OnboardingService) GoTo(ctx context.Context, session domain.Session, step domain.Step) (*domain.TransitionResult, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "OnboardingService", "GoTo")
	defer span.End()
	tracing.AddAttribute(ctx, "target_step", int(step))

	w, res, err := s.wizardFor(ctx, session)
	if err != nil {
		return nil, err
	}
	if res != nil {
		res.Operation = "goto"
		return s.finish(ctx, res), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Saving {
		return nil, domain.ErrSaveInProgress
	}
	if !domain.CanJump(step, w.state.CurrentStep, w.state.HighWaterMark) {
		return s.finish(ctx, snapshot("goto", domain.OutcomeLocked, w.state, fmt.Sprintf("%s is locked", step.Name()))), nil
	}

	w.state.CurrentStep = step
	return s.finish(ctx, snapshot("goto", domain.OutcomeSuccess, w.state, "")), nil
}

// Activate turns a provisional workspace live. On success the wizard resets
// to the first step and the result carries the post-activation redirect.
func (s *OnboardingService) Activate(ctx context.Context, session domain.Session) (*domain.TransitionResult, error) {
	ctx, span := tracing.StartServiceSpan(ctx, "OnboardingService", "Activate")
	defer span.End()

	res, err := s.run(ctx, session, transition{
		operation: "activate",
		check: func(st domain.WizardSession) (domain.TransitionOutcome, string) {
			if st.CurrentStep != domain.StepActivate || st.HighWaterMark < int(domain.StepActivate) {
				return domain.OutcomeLocked, "complete the previous steps before going live"
			}
			if st.Status == domain.WorkspaceStatusInactive {
				return domain.OutcomeValidationError, "an inactive workspace cannot be activated"
			}
			return "", ""
		},
		write: func(ctx context.Context, st domain.WizardSession, _ int) error {
			if st.Status == domain.WorkspaceStatusActive {
				return nil
			}
			return s.workspaceRepo.SetStatus(ctx, st.WorkspaceID, domain.WorkspaceStatusActive)
		},
		advance: func(st *domain.WizardSession) {
			st.Status = domain.WorkspaceStatusActive
			st.CurrentStep = domain.StepWorkspace
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	if res.Succeeded() {
		res.Redirect = s.config.ActivationRedirect
		s.logger.WithField("workspace_id", res.Wizard.WorkspaceID).Info("Workspace activated")
	}
	return res, nil
}

// finish records the transition metric and returns res
func (s *OnboardingService) finish(ctx context.Context, res *domain.TransitionResult) *domain.TransitionResult {
	tracing.AddAttribute(ctx, "outcome", string(res.Outcome))
	recordTransition(ctx, res.Operation, res.Outcome)
	return res
}

func snapshot(operation string, outcome domain.TransitionOutcome, st domain.WizardSession, msg string) *domain.TransitionResult {
	wizard := st
	return &domain.TransitionResult{
		Operation:      operation,
		Outcome:        outcome,
		CurrentStep:    st.CurrentStep,
		OnboardingStep: st.HighWaterMark,
		Status:         st.Status,
		Message:        msg,
		Wizard:         &wizard,
	}
}

func validationMessage(err error) string {
	var ve domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

var _ domain.OnboardingService = (*OnboardingService)(nil)
