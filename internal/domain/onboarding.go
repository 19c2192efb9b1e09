package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_onboarding_service.go -package mocks github.com/careops/careops/internal/domain OnboardingService
//go:generate mockgen -destination mocks/mock_onboarding_store.go -package mocks github.com/careops/careops/internal/domain OnboardingStore

// Step is a stage of the setup wizard. 1..7 collect data, 8 is the
// synthetic activation stage.
type Step int

const (
	StepWorkspace Step = iota + 1
	StepEmail
	StepContactForm
	StepBookings
	StepForms
	StepInventory
	StepStaff
	StepActivate
)

// LastContentStep is the final data-collecting stage before activation
const LastContentStep = StepStaff

type StepInfo struct {
	Number    Step   `json:"number"`
	Name      string `json:"name"`
	Skippable bool   `json:"skippable"`
}

var stepCatalog = []StepInfo{
	{Number: StepWorkspace, Name: "Workspace"},
	{Number: StepEmail, Name: "Email", Skippable: true},
	{Number: StepContactForm, Name: "Contact Form", Skippable: true},
	{Number: StepBookings, Name: "Bookings", Skippable: true},
	{Number: StepForms, Name: "Forms", Skippable: true},
	{Number: StepInventory, Name: "Inventory", Skippable: true},
	{Number: StepStaff, Name: "Staff", Skippable: true},
	{Number: StepActivate, Name: "Activate"},
}

// Steps returns a copy of the step catalog in order
func Steps() []StepInfo {
	out := make([]StepInfo, len(stepCatalog))
	copy(out, stepCatalog)
	return out
}

func (s Step) Valid() bool {
	return s >= StepWorkspace && s <= StepActivate
}

func (s Step) Name() string {
	if !s.Valid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepCatalog[s-1].Name
}

func (s Step) Skippable() bool {
	return s.Valid() && stepCatalog[s-1].Skippable
}

// EntryStep is the step the wizard opens on. An active workspace always
// starts over at the first step; otherwise the persisted mark is resumed.
func EntryStep(status WorkspaceStatus, persisted int) Step {
	if status == WorkspaceStatusActive {
		return StepWorkspace
	}
	if persisted < int(StepWorkspace) {
		return StepWorkspace
	}
	if persisted > int(StepActivate) {
		return StepActivate
	}
	return Step(persisted)
}

// NextHighWaterMark is the mark to persist after completing current.
// It never falls below persisted.
func NextHighWaterMark(current Step, persisted int) int {
	mark := int(current) + 1
	if persisted > mark {
		mark = persisted
	}
	if mark > int(StepActivate) {
		mark = int(StepActivate)
	}
	return mark
}

// CanJump reports whether clicking the indicator for target is allowed.
// Content steps open when already reached or currently shown; the
// activation stage opens only once every content step is done.
func CanJump(target, current Step, mark int) bool {
	if !target.Valid() {
		return false
	}
	if target == StepActivate {
		return mark >= int(StepActivate)
	}
	return int(target) <= mark || target == current
}

// WorkspaceDraft holds the step 1 form
type WorkspaceDraft struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Timezone     string `json:"timezone"`
	ContactEmail string `json:"contact_email"`
}

func (d *WorkspaceDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Address = strings.TrimSpace(d.Address)
	d.Timezone = strings.TrimSpace(d.Timezone)
	d.ContactEmail = strings.TrimSpace(d.ContactEmail)
	if d.Timezone == "" {
		d.Timezone = DefaultTimezone
	}
}

func (d WorkspaceDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("workspace name is required")
	}
	if len(d.Name) > 255 {
		return NewValidationError("workspace name length must be between 1 and 255")
	}
	if err := ValidateTimezone(d.Timezone); err != nil {
		return NewValidationError(err.Error())
	}
	if d.ContactEmail != "" && !govalidator.IsEmail(d.ContactEmail) {
		return NewValidationError("contact email is invalid")
	}
	return nil
}

// ServiceDraft holds the step 4 form. Duration is in minutes.
type ServiceDraft struct {
	Name     string   `json:"name"`
	Duration int      `json:"duration"`
	Price    *float64 `json:"price,omitempty"`
	Location string   `json:"location"`
}

func DefaultServiceDraft() ServiceDraft {
	return ServiceDraft{Duration: 60}
}

func (d ServiceDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("service name is required")
	}
	if d.Duration <= 0 {
		return NewValidationError("service duration must be greater than 0")
	}
	if d.Price != nil && *d.Price < 0 {
		return NewValidationError("service price must not be negative")
	}
	return nil
}

// InventoryDraft holds the step 6 form
type InventoryDraft struct {
	ItemName          string `json:"item_name"`
	Quantity          int    `json:"quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

func DefaultInventoryDraft() InventoryDraft {
	return InventoryDraft{Quantity: 10, LowStockThreshold: 5}
}

func (d InventoryDraft) Validate() error {
	if strings.TrimSpace(d.ItemName) == "" {
		return NewValidationError("item name is required")
	}
	if d.Quantity < 0 {
		return NewValidationError("quantity must not be negative")
	}
	if d.LowStockThreshold < 0 {
		return NewValidationError("low stock threshold must not be negative")
	}
	return nil
}

// WizardSession is the server-held state of one user's setup wizard.
// HighWaterMark mirrors the last refreshed workspace onboarding_step.
type WizardSession struct {
	UserID         string          `json:"-"`
	WorkspaceID    string          `json:"workspace_id"`
	CurrentStep    Step            `json:"current_step"`
	HighWaterMark  int             `json:"onboarding_step"`
	Status         WorkspaceStatus `json:"status"`
	WorkspaceDraft WorkspaceDraft  `json:"workspace"`
	ServiceDraft   ServiceDraft    `json:"service"`
	InventoryDraft InventoryDraft  `json:"inventory"`
	Saving         bool            `json:"saving"`
	EnteredAt      time.Time       `json:"entered_at"`
}

type TransitionOutcome string

const (
	OutcomeSuccess         TransitionOutcome = "success"
	OutcomeValidationError TransitionOutcome = "validation_error"
	OutcomeTransientError  TransitionOutcome = "transient_error"
	OutcomeLocked          TransitionOutcome = "locked"
)

// TransitionResult is returned by every wizard operation. On any outcome
// other than success the wizard's CurrentStep is unchanged.
type TransitionResult struct {
	Operation      string            `json:"operation"`
	Outcome        TransitionOutcome `json:"outcome"`
	CurrentStep    Step              `json:"current_step"`
	OnboardingStep int               `json:"onboarding_step"`
	Status         WorkspaceStatus   `json:"status"`
	Redirect       string            `json:"redirect,omitempty"`
	Message        string            `json:"message,omitempty"`
	Wizard         *WizardSession    `json:"wizard"`
}

func (r *TransitionResult) Succeeded() bool {
	return r != nil && r.Outcome == OutcomeSuccess
}

// Session is the per-user view of the authenticated profile that the
// wizard reads from and refreshes after every write.
type Session interface {
	UserID() string
	CurrentProfile() *Profile
	Refresh(ctx context.Context) error
	WorkspaceID() string
	WorkspaceStatus() WorkspaceStatus
	OnboardingStep() int
}

// OnboardingStore writes a row and advances the workspace mark atomically
type OnboardingStore interface {
	InsertServiceAndAdvance(ctx context.Context, service *ServiceOffering, mark int) error
	InsertInventoryAndAdvance(ctx context.Context, item *InventoryItem, mark int) error
}

// OnboardingService drives the setup wizard. Operations return a result
// for every outcome of the transition itself; the error is reserved for
// ErrNoWorkspace, ErrSaveInProgress and a missing workspace row.
type OnboardingService interface {
	Enter(ctx context.Context, session Session) (*TransitionResult, error)
	State(ctx context.Context, session Session) (*TransitionResult, error)
	SaveWorkspace(ctx context.Context, session Session, draft WorkspaceDraft) (*TransitionResult, error)
	SaveEmail(ctx context.Context, session Session, email string) (*TransitionResult, error)
	CreateService(ctx context.Context, session Session, draft ServiceDraft) (*TransitionResult, error)
	AddInventoryItem(ctx context.Context, session Session, draft InventoryDraft) (*TransitionResult, error)
	Skip(ctx context.Context, session Session) (*TransitionResult, error)
	GoTo(ctx context.Context, session Session, step Step) (*TransitionResult, error)
	Activate(ctx context.Context, session Session) (*TransitionResult, error)
	Leave(ctx context.Context, session Session) error
}
