package custodykit

import (
	"sync"
)

// Policy holds the action capability map for each role.
// It is created at startup and should be treated as immutable after
// initialization. Entry-point authorization always evaluates the named
// caller predicates (see Checker); the policy is the queryable capability
// surface consumed by Checker.Allows and the HTTP middleware.
type Policy struct {
	mu    sync.RWMutex
	roles map[Role]*RoleGrants
}

// RoleGrants defines the actions a role may perform.
type RoleGrants struct {
	role    Role
	actions []string
	policy  *Policy
}

// NewPolicy creates an empty Policy.
func NewPolicy() *Policy {
	return &Policy{
		roles: make(map[Role]*RoleGrants),
	}
}

// Grant starts defining the capabilities of a role.
// Returns a RoleGrants builder for fluent configuration.
//
// Example:
//
//	policy := custodykit.NewPolicy()
//	policy.Grant(custodykit.RolePatient).
//	    Actions("access.grant", "access.revoke", "records.read").
//	    Grant(custodykit.RoleDoctor).
//	    Actions("records.*")
func (p *Policy) Grant(role Role) *RoleGrants {
	p.mu.Lock()
	defer p.mu.Unlock()

	rg := &RoleGrants{
		role:   role,
		policy: p,
	}
	p.roles[role] = rg
	return rg
}

// Actions sets the action patterns the role may perform.
func (rg *RoleGrants) Actions(actions ...string) *RoleGrants {
	rg.actions = append(rg.actions, actions...)
	return rg
}

// Grant continues the fluent chain with another role.
func (rg *RoleGrants) Grant(role Role) *RoleGrants {
	return rg.policy.Grant(role)
}

// Role returns the role this grant set belongs to.
func (rg *RoleGrants) Role() Role {
	return rg.role
}

// GetActions returns the action patterns granted to this role.
func (rg *RoleGrants) GetActions() []string {
	return rg.actions
}

// Roles returns all roles with defined grants.
func (p *Policy) Roles() []Role {
	p.mu.RLock()
	defer p.mu.RUnlock()

	roles := make([]Role, 0, len(p.roles))
	for role := range p.roles {
		roles = append(roles, role)
	}
	return roles
}

// ActionsFor returns the action patterns granted to a role.
// Returns nil for roles without grants.
func (p *Policy) ActionsFor(role Role) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rg, ok := p.roles[role]
	if !ok {
		return nil
	}
	return rg.actions
}

// Allows checks if a role's grants cover an action, with wildcard matching.
func (p *Policy) Allows(role Role, action string) bool {
	return MatchAnyAction(p.ActionsFor(role), action)
}

// DefaultPolicy returns the built-in capability map for the three roles.
//
// Patients manage their own consent and read their own records. Doctors
// author and maintain records. Hospital administrators run vetting and
// suspension of their roster and can toggle nothing record-related:
// custody never grants them write access to record payloads.
func DefaultPolicy() *Policy {
	p := NewPolicy()
	p.Grant(RolePatient).
		Actions("access.grant", "access.revoke", "records.read", "records.list").
		Grant(RoleDoctor).
		Actions("records.create", "records.update", "records.read", "records.list").
		Grant(RoleHospital).
		Actions("doctors.vet", "doctors.suspend", "doctors.unsuspend", "roster.read")
	return p
}
