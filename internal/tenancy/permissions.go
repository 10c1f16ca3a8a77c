package tenancy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// PermissionSet is an unordered set of granted permission names. Wildcard
// grants ("products.*", "*") are kept as-is and expanded at match time only;
// a concrete grant never satisfies a wildcard check.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the given names.
func NewPermissionSet(names ...string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether the set grants the named permission, honoring wildcard
// grants.
func (s PermissionSet) Has(name string) bool {
	if _, ok := s[name]; ok {
		return true
	}
	if _, ok := s["*"]; ok {
		return true
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		if _, ok := s[name[:i]+".*"]; ok {
			return true
		}
	}
	return false
}

// HasAny reports whether the set grants any (or, with requireAll, every) one
// of the named permissions.
func (s PermissionSet) HasAny(names []string, requireAll bool) bool {
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if s.Has(n) {
			if !requireAll {
				return true
			}
		} else if requireAll {
			return false
		}
	}
	return requireAll
}

// Missing returns the subset of names the set does not grant.
func (s PermissionSet) Missing(names []string) []string {
	var missing []string
	for _, n := range names {
		if !s.Has(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Names returns the granted names in sorted order.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PermissionResolver computes effective permission sets from role assignments
// and role grants. It always reads current state; any caching is the caller's
// concern, so a role change takes effect on the next request.
type PermissionResolver struct {
	dir Directory
}

// NewPermissionResolver wires the resolver to a credential directory.
func NewPermissionResolver(dir Directory) *PermissionResolver {
	return &PermissionResolver{dir: dir}
}

// EffectivePermissions returns the union of all permissions granted by the
// user's tenant-wide role assignments plus, when storeID is given, the
// assignments scoped to that store. Store-scoped roles only ever add grants.
func (r *PermissionResolver) EffectivePermissions(ctx context.Context, userID, tenantID uuid.UUID, storeID *uuid.UUID) (PermissionSet, error) {
	assignments, err := r.dir.ListRoleAssignments(ctx, userID, tenantID, storeID)
	if err != nil {
		return nil, fmt.Errorf("list role assignments: %w", err)
	}
	if len(assignments) == 0 {
		return PermissionSet{}, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(assignments))
	roleIDs := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		if _, dup := seen[a.RoleID]; dup {
			continue
		}
		seen[a.RoleID] = struct{}{}
		roleIDs = append(roleIDs, a.RoleID)
	}

	names, err := r.dir.ListRolePermissions(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	return NewPermissionSet(names...), nil
}

// HasPermission reports whether the user holds the permission within the
// tenant (optionally narrowed to a store).
func (r *PermissionResolver) HasPermission(ctx context.Context, userID, tenantID uuid.UUID, permission string, storeID *uuid.UUID) (bool, error) {
	set, err := r.EffectivePermissions(ctx, userID, tenantID, storeID)
	if err != nil {
		return false, err
	}
	return set.Has(permission), nil
}

// HasAnyPermission reports whether the user holds any (or all, with
// requireAll) of the given permissions.
func (r *PermissionResolver) HasAnyPermission(ctx context.Context, userID, tenantID uuid.UUID, permissions []string, requireAll bool, storeID *uuid.UUID) (bool, error) {
	set, err := r.EffectivePermissions(ctx, userID, tenantID, storeID)
	if err != nil {
		return false, err
	}
	return set.HasAny(permissions, requireAll), nil
}
