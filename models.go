package console

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Credential is the opaque bearer token issued on login. It is never
// inspected locally, only replayed as an Authorization header.
type Credential struct {
	Token string `json:"token"`
	Type  string `json:"token_type"`
}

// UserProfile is the authenticated identity as returned by /auth/me. A
// profile without a valid token is stale and must be discarded with it.
type UserProfile struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     Role       `json:"role"`
	Admin    bool       `json:"is_admin,omitempty"`
	SectorID *uuid.UUID `json:"sector_id,omitempty"`
}

// IsAdmin covers both the role and the legacy is_admin flag.
func (u *UserProfile) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.Role == RoleAdmin || u.Admin
}

func (u *UserProfile) IsManager() bool {
	return u != nil && u.Role == RoleManager
}

func (u *UserProfile) IsOperator() bool {
	return u != nil && u.Role == RoleOperator
}

// RegisterRequest is the payload for /auth/register. SectorID is omitted
// for admin accounts and mandatory for everyone else.
type RegisterRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     Role       `json:"role,omitempty"`
	SectorID *uuid.UUID `json:"sector_id,omitempty"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Role, validation.In(RoleAdmin, RoleManager, RoleOperator)),
		validation.Field(&r.SectorID, validation.By(r.validateSector)),
	)
}

func (r RegisterRequest) validateSector(any) error {
	if r.Role == RoleAdmin {
		return nil
	}
	if r.SectorID == nil {
		return validation.NewError(
			"validation_sector_required",
			"sector is required for manager and operator accounts",
		)
	}
	return nil
}

// RegisterResult is the backend acknowledgement for a new account.
type RegisterResult struct {
	OK     bool      `json:"ok"`
	UserID uuid.UUID `json:"user_id"`
}

// Automation as listed by GET /automations.
type Automation struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	OwnerType   string     `json:"owner_type"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	SectorID    *uuid.UUID `json:"sector_id,omitempty"`
	Sector      string     `json:"sector,omitempty"`
	Enabled     bool       `json:"enabled"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// AutomationGroup is one entry of the grouped listing ("mine" plus one
// group per sector).
type AutomationGroup struct {
	Group       string       `json:"group"`
	SectorID    *uuid.UUID   `json:"sector_id,omitempty"`
	Title       string       `json:"title"`
	Automations []Automation `json:"automations"`
}

// AutomationRequest is the payload for POST /automations.
type AutomationRequest struct {
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	ModulePath     string         `json:"module_path"`
	FuncName       string         `json:"func_name"`
	OwnerType      string         `json:"owner_type,omitempty"`
	OwnerID        *uuid.UUID     `json:"owner_id,omitempty"`
	DefaultPayload map[string]any `json:"default_payload,omitempty"`
	ConfigSchema   map[string]any `json:"config_schema,omitempty"`
}

func (r AutomationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ModulePath, validation.Required),
		validation.Field(&r.FuncName, validation.Required),
		validation.Field(&r.OwnerType, validation.In("user", "sector")),
		validation.Field(&r.OwnerID, validation.By(r.validateOwner)),
	)
}

func (r AutomationRequest) validateOwner(any) error {
	if r.OwnerType == "sector" && r.OwnerID == nil {
		return validation.NewError(
			"validation_owner_required",
			"owner_id is required when owner_type is sector",
		)
	}
	return nil
}

// Run is a single automation execution.
type Run struct {
	ID           uuid.UUID      `json:"id"`
	AutomationID uuid.UUID      `json:"automation_id"`
	UserID       *uuid.UUID     `json:"user_id,omitempty"`
	Status       string         `json:"status"`
	Payload      map[string]any `json:"payload,omitempty"`
	Result       map[string]any `json:"result,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
}

// RunRequest enqueues a run. AutomationID accepts a UUID or the automation
// name, the backend resolves both.
type RunRequest struct {
	AutomationID string         `json:"automation_id"`
	Payload      map[string]any `json:"payload,omitempty"`
	TimeoutSec   int            `json:"timeout_sec,omitempty"`
}

// RunSyncResult is the immediate outcome of POST /runs/sync.
type RunSyncResult struct {
	Message  string    `json:"message"`
	RunID    uuid.UUID `json:"run_id"`
	OK       bool      `json:"ok"`
	ExitCode *int      `json:"exit_code,omitempty"`
	Stdout   string    `json:"stdout,omitempty"`
	Stderr   string    `json:"stderr,omitempty"`
	Result   any       `json:"result,omitempty"`
}

// Schedule types supported by the backend.
const (
	ScheduleOnce     = "once"
	ScheduleInterval = "interval"
)

// Schedule is a stored execution plan for an automation.
type Schedule struct {
	ID              uuid.UUID  `json:"id"`
	AutomationID    uuid.UUID  `json:"automation_id"`
	OwnerType       string     `json:"owner_type"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	Type            string     `json:"type"`
	RunAt           *time.Time `json:"run_at,omitempty"`
	IntervalSeconds *int       `json:"interval_seconds,omitempty"`
	Enabled         bool       `json:"enabled"`
	LastRunAt       *time.Time `json:"last_run_at,omitempty"`
	NextRunAt       *time.Time `json:"next_run_at,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// ScheduleRequest is the payload for POST /schedules.
type ScheduleRequest struct {
	AutomationID    string     `json:"automation_id"`
	OwnerType       string     `json:"owner_type"`
	OwnerID         string     `json:"owner_id"`
	Type            string     `json:"type"`
	RunAt           *time.Time `json:"run_at,omitempty"`
	IntervalSeconds *int       `json:"interval_seconds,omitempty"`
	Enabled         bool       `json:"enabled"`
}

func (r ScheduleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AutomationID, validation.Required),
		validation.Field(&r.OwnerType, validation.Required, validation.In("user", "sector")),
		validation.Field(&r.OwnerID, validation.Required),
		validation.Field(&r.Type, validation.Required, validation.In(ScheduleOnce, ScheduleInterval)),
		validation.Field(&r.RunAt, validation.By(r.validateTiming)),
	)
}

func (r ScheduleRequest) validateTiming(any) error {
	switch r.Type {
	case ScheduleOnce:
		if r.RunAt == nil {
			return validation.NewError(
				"validation_run_at_required",
				"run_at is required for a one-shot schedule",
			)
		}
	case ScheduleInterval:
		if r.IntervalSeconds == nil || *r.IntervalSeconds <= 0 {
			return validation.NewError(
				"validation_interval_required",
				"interval_seconds must be positive for an interval schedule",
			)
		}
	}
	return nil
}

// SchedulePatch carries partial updates for PATCH /schedules/{id}. Nil
// fields are left untouched.
type SchedulePatch struct {
	Enabled         *bool      `json:"enabled,omitempty"`
	RunAt           *time.Time `json:"run_at,omitempty"`
	IntervalSeconds *int       `json:"interval_seconds,omitempty"`
}

// Secret metadata; the plaintext value only travels on write and on an
// explicit read of a single secret.
type Secret struct {
	ID        uuid.UUID `json:"id"`
	OwnerType string    `json:"owner_type"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Key       string    `json:"key"`
	CreatedAt string    `json:"created_at,omitempty"`
}

// SecretValue is the decrypted payload of GET /secrets/{id}.
type SecretValue struct {
	ID    uuid.UUID `json:"id"`
	Key   string    `json:"key"`
	Value string    `json:"value"`
}

// SecretRequest upserts a secret for a user or sector owner.
type SecretRequest struct {
	OwnerType string `json:"owner_type"`
	OwnerID   string `json:"owner_id"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

func (r SecretRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OwnerType, validation.Required, validation.In("user", "sector")),
		validation.Field(&r.OwnerID, validation.Required, is.UUID),
		validation.Field(&r.Key, validation.Required),
		validation.Field(&r.Value, validation.Required),
	)
}

// Sector is a minimal org unit reference.
type Sector struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Dashboard is a stored dashboard capture configuration.
type Dashboard struct {
	ID                     uuid.UUID      `json:"id"`
	Name                   string         `json:"name"`
	DisplayName            string         `json:"display_name"`
	Description            string         `json:"description,omitempty"`
	MenuPath               []string       `json:"menu_path"`
	SearchText             string         `json:"search_text,omitempty"`
	SearchImage            string         `json:"search_image,omitempty"`
	ClickCoords            map[string]any `json:"click_coords,omitempty"`
	MenuCoords             map[string]any `json:"menu_coords,omitempty"`
	ScreenshotRegion       []int          `json:"screenshot_region"`
	HasPeriodSelector      bool           `json:"has_period_selector"`
	AvailablePeriodicities []string       `json:"available_periodicities"`
	IsActive               bool           `json:"is_active"`
	CreatedAt              string         `json:"created_at,omitempty"`
	UpdatedAt              string         `json:"updated_at,omitempty"`
}

// DashboardRequest creates a dashboard configuration.
type DashboardRequest struct {
	Name                   string         `json:"name"`
	DisplayName            string         `json:"display_name"`
	Description            string         `json:"description,omitempty"`
	MenuPath               []string       `json:"menu_path"`
	SearchText             string         `json:"search_text,omitempty"`
	SearchImage            string         `json:"search_image,omitempty"`
	ClickCoords            map[string]any `json:"click_coords,omitempty"`
	MenuCoords             map[string]any `json:"menu_coords,omitempty"`
	ScreenshotRegion       []int          `json:"screenshot_region"`
	HasPeriodSelector      bool           `json:"has_period_selector"`
	AvailablePeriodicities []string       `json:"available_periodicities,omitempty"`
	IsActive               bool           `json:"is_active"`
}

func (r DashboardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.MenuPath, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.ScreenshotRegion, validation.Required, validation.Length(4, 4)),
	)
}

// DashboardPatch carries partial updates for PUT /dashboards/{id}.
type DashboardPatch struct {
	DisplayName            *string        `json:"display_name,omitempty"`
	Description            *string        `json:"description,omitempty"`
	MenuPath               []string       `json:"menu_path,omitempty"`
	SearchText             *string        `json:"search_text,omitempty"`
	SearchImage            *string        `json:"search_image,omitempty"`
	ClickCoords            map[string]any `json:"click_coords,omitempty"`
	MenuCoords             map[string]any `json:"menu_coords,omitempty"`
	ScreenshotRegion       []int          `json:"screenshot_region,omitempty"`
	HasPeriodSelector      *bool          `json:"has_period_selector,omitempty"`
	AvailablePeriodicities []string       `json:"available_periodicities,omitempty"`
	IsActive               *bool          `json:"is_active,omitempty"`
}
