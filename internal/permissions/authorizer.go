package permissions

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/domain"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/users"
)

var ErrGrantRoleInvalid = errors.New("permissions: grant role is invalid")

// Authorizer answers translate, manage and view questions from stored grants.
// Superusers and context checkers bypass grants.
type Authorizer struct {
	grants GrantRepository
}

func NewAuthorizer(grants GrantRepository) *Authorizer {
	return &Authorizer{grants: grants}
}

// GrantRequest captures a new grant.
type GrantRequest struct {
	UserID    uuid.UUID
	Role      domain.Role
	ProjectID *uuid.UUID
	LocaleID  *uuid.UUID
}

func (a *Authorizer) Grant(ctx context.Context, req GrantRequest) (*Grant, error) {
	switch req.Role {
	case domain.RoleTranslator, domain.RoleManager:
	default:
		return nil, ErrGrantRoleInvalid
	}
	return a.grants.Create(ctx, &Grant{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Role:      req.Role,
		ProjectID: req.ProjectID,
		LocaleID:  req.LocaleID,
	})
}

// CanTranslate reports whether user may approve strings for the locale in
// the project.
func (a *Authorizer) CanTranslate(ctx context.Context, user *users.User, projectID, localeID uuid.UUID) (bool, error) {
	if ContextAllows(ctx, TranslationsTranslate) {
		return true, nil
	}
	if user == nil {
		return false, nil
	}
	if user.IsSuperuser {
		return true, nil
	}
	grants, err := a.grants.ListByUser(ctx, user.ID)
	if err != nil {
		return false, err
	}
	for _, grant := range grants {
		if grant.coversProject(projectID) && grant.coversLocale(localeID) {
			return true, nil
		}
	}
	return false, nil
}

// CanManage reports whether user manages the project.
func (a *Authorizer) CanManage(ctx context.Context, user *users.User, projectID uuid.UUID) (bool, error) {
	if ContextAllows(ctx, ProjectsManage) {
		return true, nil
	}
	if user == nil {
		return false, nil
	}
	if user.IsSuperuser {
		return true, nil
	}
	grants, err := a.grants.ListByUser(ctx, user.ID)
	if err != nil {
		return false, err
	}
	for _, grant := range grants {
		if grant.Role == domain.RoleManager && grant.LocaleID == nil && grant.coversProject(projectID) {
			return true, nil
		}
	}
	return false, nil
}

// RequireManage returns an Error when user cannot manage the project.
func (a *Authorizer) RequireManage(ctx context.Context, user *users.User, projectID uuid.UUID) error {
	ok, err := a.CanManage(ctx, user, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return Error{Permission: ProjectsManage}
	}
	return nil
}

// CanView implements projects.VisibilityPolicy. Private projects are visible
// to users holding a grant scoped to them.
func (a *Authorizer) CanView(ctx context.Context, user *users.User, project *projects.Project) (bool, error) {
	if project == nil {
		return false, nil
	}
	if ContextAllows(ctx, ProjectsView) || (user != nil && user.IsSuperuser) {
		return true, nil
	}
	if project.Disabled || project.SystemProject {
		return false, nil
	}
	if project.IsPublic() {
		return true, nil
	}
	if user == nil {
		return false, nil
	}
	grants, err := a.grants.ListByUser(ctx, user.ID)
	if err != nil {
		return false, err
	}
	for _, grant := range grants {
		if grant.ProjectID != nil && *grant.ProjectID == project.ID {
			return true, nil
		}
	}
	return false, nil
}

// Managers returns the users holding a project-wide manager grant.
func (a *Authorizer) Managers(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	grants, err := a.grants.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	seen := map[uuid.UUID]struct{}{}
	var out []uuid.UUID
	for _, grant := range grants {
		if grant.Role != domain.RoleManager || grant.LocaleID != nil {
			continue
		}
		if _, ok := seen[grant.UserID]; ok {
			continue
		}
		seen[grant.UserID] = struct{}{}
		out = append(out, grant.UserID)
	}
	return out, nil
}

var _ projects.VisibilityPolicy = (*Authorizer)(nil)
