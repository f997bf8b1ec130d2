package console

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// normalizeEmail applies the same canonical form the backend uses before
// comparing addresses.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login exchanges credentials for a bearer token. The backend answers with
// access_token, older deployments with token; either is accepted. A 2xx
// response carrying neither is a contract violation and fails with
// ErrNoCredentialIssued.
func (c *Client) Login(ctx context.Context, email, password string) (*Credential, error) {
	body := map[string]string{
		"email":    normalizeEmail(email),
		"password": password,
	}

	var res struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &res); err != nil {
		return nil, err
	}

	token := res.AccessToken
	if token == "" {
		token = res.Token
	}
	if token == "" {
		return nil, ErrNoCredentialIssued
	}

	credType := res.TokenType
	if credType == "" {
		credType = "bearer"
	}

	return &Credential{Token: token, Type: credType}, nil
}

// Me returns the profile bound to the current credential.
func (c *Client) Me(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Register creates an account. The payload is validated locally before it
// goes out; sector_id stays omitted for admin accounts.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	req.Email = normalizeEmail(req.Email)
	if req.Role == RoleAdmin {
		req.SectorID = nil
	}

	var res RegisterResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListAutomations(ctx context.Context) ([]Automation, error) {
	var items []Automation
	if err := c.do(ctx, http.MethodGet, "/automations", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListAutomationsGrouped returns automations bucketed into "mine" plus one
// group per sector, the shape the console sidebar renders directly.
func (c *Client) ListAutomationsGrouped(ctx context.Context) ([]AutomationGroup, error) {
	query := url.Values{"grouped": {"true"}}
	var groups []AutomationGroup
	if err := c.do(ctx, http.MethodGet, "/automations", query, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) CreateAutomation(ctx context.Context, req AutomationRequest) (*Automation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var automation Automation
	if err := c.do(ctx, http.MethodPost, "/automations", nil, req, &automation); err != nil {
		return nil, err
	}
	return &automation, nil
}

// CreateRun enqueues an asynchronous run.
func (c *Client) CreateRun(ctx context.Context, req RunRequest) (*Run, error) {
	var run Run
	if err := c.do(ctx, http.MethodPost, "/runs", nil, req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// RunSync executes an automation inline and waits for its outcome.
func (c *Client) RunSync(ctx context.Context, req RunRequest) (*RunSyncResult, error) {
	var res RunSyncResult
	if err := c.do(ctx, http.MethodPost, "/runs/sync", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListRuns returns run history, optionally scoped to one automation.
func (c *Client) ListRuns(ctx context.Context, automationID *uuid.UUID) ([]Run, error) {
	var query url.Values
	if automationID != nil {
		query = url.Values{"automation_id": {automationID.String()}}
	}

	var runs []Run
	if err := c.do(ctx, http.MethodGet, "/runs", query, nil, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (c *Client) ListSchedules(ctx context.Context, automationID *uuid.UUID) ([]Schedule, error) {
	var query url.Values
	if automationID != nil {
		query = url.Values{"automation_id": {automationID.String()}}
	}

	var schedules []Schedule
	if err := c.do(ctx, http.MethodGet, "/schedules", query, nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (c *Client) CreateSchedule(ctx context.Context, req ScheduleRequest) (*Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var schedule Schedule
	if err := c.do(ctx, http.MethodPost, "/schedules", nil, req, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *Client) PatchSchedule(ctx context.Context, id uuid.UUID, patch SchedulePatch) (*Schedule, error) {
	var schedule Schedule
	if err := c.do(ctx, http.MethodPatch, "/schedules/"+id.String(), nil, patch, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/schedules/"+id.String(), nil, nil, nil)
}

// UpsertSecret creates or replaces a secret for its owner. The value is
// only ever sent, never echoed back.
func (c *Client) UpsertSecret(ctx context.Context, req SecretRequest) (*Secret, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var secret Secret
	if err := c.do(ctx, http.MethodPost, "/secrets", nil, req, &secret); err != nil {
		return nil, err
	}
	return &secret, nil
}

func (c *Client) ListSecrets(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]Secret, error) {
	query := url.Values{
		"owner_type": {ownerType},
		"owner_id":   {ownerID.String()},
	}

	var secrets []Secret
	if err := c.do(ctx, http.MethodGet, "/secrets", query, nil, &secrets); err != nil {
		return nil, err
	}
	return secrets, nil
}

func (c *Client) ReadSecret(ctx context.Context, id uuid.UUID) (*SecretValue, error) {
	var value SecretValue
	if err := c.do(ctx, http.MethodGet, "/secrets/"+id.String(), nil, nil, &value); err != nil {
		return nil, err
	}
	return &value, nil
}

func (c *Client) DeleteSecret(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/secrets/"+id.String(), nil, nil, nil)
}

func (c *Client) ListSectors(ctx context.Context) ([]Sector, error) {
	var sectors []Sector
	if err := c.do(ctx, http.MethodGet, "/sectors/", nil, nil, &sectors); err != nil {
		return nil, err
	}
	return sectors, nil
}

func (c *Client) ListDashboards(ctx context.Context) ([]Dashboard, error) {
	var dashboards []Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboards", nil, nil, &dashboards); err != nil {
		return nil, err
	}
	return dashboards, nil
}

func (c *Client) GetDashboard(ctx context.Context, id uuid.UUID) (*Dashboard, error) {
	var dashboard Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboards/"+id.String(), nil, nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *Client) GetDashboardByName(ctx context.Context, name string) (*Dashboard, error) {
	var dashboard Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboards/by-name/"+url.PathEscape(name), nil, nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *Client) CreateDashboard(ctx context.Context, req DashboardRequest) (*Dashboard, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var dashboard Dashboard
	if err := c.do(ctx, http.MethodPost, "/dashboards", nil, req, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *Client) UpdateDashboard(ctx context.Context, id uuid.UUID, patch DashboardPatch) (*Dashboard, error) {
	var dashboard Dashboard
	if err := c.do(ctx, http.MethodPut, "/dashboards/"+id.String(), nil, patch, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *Client) DeleteDashboard(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/dashboards/"+id.String(), nil, nil, nil)
}
