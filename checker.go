package custodykit

// Checker evaluates the cross-cutting authorization predicates for one
// caller. It is a pure decision object over state loaded once: the caller's
// profile, the designated admin slot and the action policy. Every mutating
// or sensitive read operation of the service composes exactly one of these
// predicates with the system gate check.
type Checker struct {
	identity Identity
	adminID  string
	policy   *Policy
}

// NewChecker creates a Checker for a loaded identity profile.
func NewChecker(identity Identity, adminID string, policy *Policy) *Checker {
	return &Checker{
		identity: identity,
		adminID:  adminID,
		policy:   policy,
	}
}

// ActorID returns the identity this checker is for.
func (c *Checker) ActorID() string {
	return c.identity.ID
}

// Identity returns the loaded profile.
func (c *Checker) Identity() Identity {
	return c.identity
}

// IsPatientCaller reports whether the caller is a registered, active patient.
func (c *Checker) IsPatientCaller() bool {
	return c.identity.Role == RolePatient && c.identity.Active
}

// IsDoctorCaller reports whether the caller is a doctor in good standing:
// vetted by their custodian hospital, active, and not suspended. All three
// status flags are evaluated as one test.
func (c *Checker) IsDoctorCaller() bool {
	return c.identity.Role == RoleDoctor &&
		c.identity.Verified &&
		c.identity.Active &&
		!c.identity.Suspended
}

// IsHospitalCaller reports whether the caller is a registered, active
// hospital administrator.
func (c *Checker) IsHospitalCaller() bool {
	return c.identity.Role == RoleHospital && c.identity.Active
}

// IsSystemAdmin reports whether the caller occupies the single designated
// admin slot. The admin need not be a registered identity.
func (c *Checker) IsSystemAdmin() bool {
	return c.adminID != "" && c.identity.ID == c.adminID
}

// inGoodStanding is the baseline standing predicate for the caller's role.
func (c *Checker) inGoodStanding() bool {
	switch c.identity.Role {
	case RolePatient:
		return c.IsPatientCaller()
	case RoleDoctor:
		return c.IsDoctorCaller()
	case RoleHospital:
		return c.IsHospitalCaller()
	}
	return false
}

// Allows checks if the caller may perform an action: the caller must be in
// good standing for their role and the policy must grant the action.
//
// Example:
//
//	if checker.Allows("records.create") {
//	    // caller is a practicing doctor
//	}
func (c *Checker) Allows(action string) bool {
	if c.policy == nil {
		return false
	}
	if !c.inGoodStanding() {
		return false
	}
	return c.policy.Allows(c.identity.Role, action)
}

// AllowsAny checks if the caller may perform any of the actions.
func (c *Checker) AllowsAny(actions []string) bool {
	for _, action := range actions {
		if c.Allows(action) {
			return true
		}
	}
	return false
}

// AllowsAll checks if the caller may perform all of the actions.
func (c *Checker) AllowsAll(actions []string) bool {
	for _, action := range actions {
		if !c.Allows(action) {
			return false
		}
	}
	return true
}

// HasRole checks if the caller holds a specific role, regardless of standing.
func (c *Checker) HasRole(role Role) bool {
	return c.identity.Role == role
}

// IsRegistered reports whether the caller exists in the identity registry.
func (c *Checker) IsRegistered() bool {
	return c.identity.IsRegistered()
}
