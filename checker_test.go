package custodykit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func practicingDoctor(id, custodian string) Identity {
	return Identity{
		ID:          id,
		Role:        RoleDoctor,
		CustodianID: custodian,
		Verified:    true,
		Active:      true,
	}
}

// TestCheckerPatientCaller tests the patient standing predicate
func TestCheckerPatientCaller(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		expected bool
	}{
		{
			name:     "Active patient",
			identity: Identity{ID: "pat1", Role: RolePatient, Active: true},
			expected: true,
		},
		{
			name:     "Deactivated patient",
			identity: Identity{ID: "pat1", Role: RolePatient, Active: false},
			expected: false,
		},
		{
			name:     "Doctor is not a patient caller",
			identity: practicingDoctor("doc1", "hosp1"),
			expected: false,
		},
		{
			name:     "Unregistered identity",
			identity: Identity{ID: "ghost"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(tt.identity, "", DefaultPolicy())
			assert.Equal(t, tt.expected, checker.IsPatientCaller())
		})
	}
}

// TestCheckerDoctorCaller tests the three-flag doctor standing predicate
func TestCheckerDoctorCaller(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Identity)
		expected bool
	}{
		{
			name:     "Vetted active doctor",
			modify:   func(i *Identity) {},
			expected: true,
		},
		{
			name:     "Unvetted doctor cannot practice",
			modify:   func(i *Identity) { i.Verified = false },
			expected: false,
		},
		{
			name:     "Suspended doctor cannot practice",
			modify:   func(i *Identity) { i.Suspended = true },
			expected: false,
		},
		{
			name:     "Deactivated doctor cannot practice",
			modify:   func(i *Identity) { i.Active = false },
			expected: false,
		},
		{
			name: "Suspension overrides vetting",
			modify: func(i *Identity) {
				i.Verified = true
				i.Suspended = true
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := practicingDoctor("doc1", "hosp1")
			tt.modify(&identity)
			checker := NewChecker(identity, "", DefaultPolicy())
			assert.Equal(t, tt.expected, checker.IsDoctorCaller())
		})
	}
}

// TestCheckerHospitalCaller tests the hospital standing predicate
func TestCheckerHospitalCaller(t *testing.T) {
	checker := NewChecker(Identity{ID: "hosp1", Role: RoleHospital, Active: true}, "", DefaultPolicy())
	assert.True(t, checker.IsHospitalCaller())

	checker = NewChecker(Identity{ID: "hosp1", Role: RoleHospital, Active: false}, "", DefaultPolicy())
	assert.False(t, checker.IsHospitalCaller())

	checker = NewChecker(Identity{ID: "pat1", Role: RolePatient, Active: true}, "", DefaultPolicy())
	assert.False(t, checker.IsHospitalCaller())
}

// TestCheckerSystemAdmin tests the designated admin slot
func TestCheckerSystemAdmin(t *testing.T) {
	t.Run("Admin slot match", func(t *testing.T) {
		checker := NewChecker(Identity{ID: "root"}, "root", DefaultPolicy())
		assert.True(t, checker.IsSystemAdmin())
	})

	t.Run("Admin need not be registered", func(t *testing.T) {
		checker := NewChecker(Identity{ID: "root"}, "root", DefaultPolicy())
		assert.False(t, checker.IsRegistered())
		assert.True(t, checker.IsSystemAdmin())
	})

	t.Run("Non-admin identity", func(t *testing.T) {
		checker := NewChecker(Identity{ID: "pat1", Role: RolePatient, Active: true}, "root", DefaultPolicy())
		assert.False(t, checker.IsSystemAdmin())
	})

	t.Run("Empty admin slot matches nobody", func(t *testing.T) {
		checker := NewChecker(Identity{ID: ""}, "", DefaultPolicy())
		assert.False(t, checker.IsSystemAdmin())
	})
}

// TestCheckerAllows tests policy evaluation through caller standing
func TestCheckerAllows(t *testing.T) {
	t.Run("Practicing doctor can create records", func(t *testing.T) {
		checker := NewChecker(practicingDoctor("doc1", "hosp1"), "", DefaultPolicy())
		assert.True(t, checker.Allows("records.create"))
		assert.True(t, checker.Allows("records.update"))
		assert.False(t, checker.Allows("access.grant"))
	})

	t.Run("Suspended doctor loses all actions", func(t *testing.T) {
		identity := practicingDoctor("doc1", "hosp1")
		identity.Suspended = true
		checker := NewChecker(identity, "", DefaultPolicy())
		assert.False(t, checker.Allows("records.create"))
		assert.False(t, checker.Allows("records.read"))
	})

	t.Run("Patient manages consent", func(t *testing.T) {
		checker := NewChecker(Identity{ID: "pat1", Role: RolePatient, Active: true}, "", DefaultPolicy())
		assert.True(t, checker.Allows("access.grant"))
		assert.True(t, checker.Allows("access.revoke"))
		assert.False(t, checker.Allows("records.create"))
	})

	t.Run("Nil policy denies everything", func(t *testing.T) {
		checker := NewChecker(practicingDoctor("doc1", "hosp1"), "", nil)
		assert.False(t, checker.Allows("records.create"))
	})
}

// TestCheckerAllowsAnyAll tests the composite action checks
func TestCheckerAllowsAnyAll(t *testing.T) {
	checker := NewChecker(practicingDoctor("doc1", "hosp1"), "", DefaultPolicy())

	assert.True(t, checker.AllowsAny([]string{"doctors.vet", "records.create"}))
	assert.False(t, checker.AllowsAny([]string{"doctors.vet", "access.grant"}))
	assert.True(t, checker.AllowsAll([]string{"records.create", "records.read"}))
	assert.False(t, checker.AllowsAll([]string{"records.create", "doctors.vet"}))
	assert.False(t, checker.AllowsAny(nil))
	assert.True(t, checker.AllowsAll(nil))
}

// TestCheckerHasRole tests role checks independent of standing
func TestCheckerHasRole(t *testing.T) {
	identity := practicingDoctor("doc1", "hosp1")
	identity.Suspended = true

	checker := NewChecker(identity, "", DefaultPolicy())
	assert.True(t, checker.HasRole(RoleDoctor))
	assert.False(t, checker.HasRole(RolePatient))
	assert.False(t, checker.IsDoctorCaller())
}

// TestCheckerAccessors tests the simple accessors
func TestCheckerAccessors(t *testing.T) {
	identity := practicingDoctor("doc1", "hosp1")
	checker := NewChecker(identity, "root", DefaultPolicy())

	assert.Equal(t, "doc1", checker.ActorID())
	assert.Equal(t, identity, checker.Identity())
	assert.True(t, checker.IsRegistered())
}
