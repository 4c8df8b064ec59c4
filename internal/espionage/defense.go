/*
Package espionage
File: defense.go
Description:
    Counter-espionage defense profiles. Each targetable company carries a
    security posture (level, budget, personnel, adopted technologies) from
    which a 0-100 detection efficiency score is derived. The probability
    engine reads that score whenever an agent moves against the company.
*/

package espionage

import "fmt"

// Default posture for a company that never configured anything.
const (
	defaultSecurityLevel = 1
	minSecurityLevel     = 1
	maxSecurityLevel     = 5
)

// DefenseRegistry owns the per-company defense profiles.
type DefenseRegistry struct {
	store *Store
}

// NewDefenseRegistry wires the registry to the shared store.
func NewDefenseRegistry(store *Store) *DefenseRegistry {
	return &DefenseRegistry{store: store}
}

// Profile returns the company's defense profile, creating a default one
// lazily if the company has never configured its security.
func (d *DefenseRegistry) Profile(company string) *DefenseProfile {
	if p, ok := d.store.Profiles[company]; ok {
		return p
	}
	p := &DefenseProfile{
		Company:       company,
		SecurityLevel: defaultSecurityLevel,
	}
	d.store.Profiles[company] = p
	return p
}

// Configure validates and replaces the company's security posture.
// Nothing is mutated when validation fails.
func (d *DefenseRegistry) Configure(company string, securityLevel, budget, personnel int, technologies []string) error {
	if securityLevel < minSecurityLevel || securityLevel > maxSecurityLevel {
		return fmt.Errorf("%w: security level %d outside %d-%d", ErrValidation, securityLevel, minSecurityLevel, maxSecurityLevel)
	}
	if budget < 0 {
		return fmt.Errorf("%w: budget must be >= 0", ErrValidation)
	}
	if personnel < 0 {
		return fmt.Errorf("%w: personnel must be >= 0", ErrValidation)
	}

	p := d.Profile(company)
	p.SecurityLevel = securityLevel
	p.Budget = budget
	p.Personnel = personnel
	p.Technologies = append([]string(nil), technologies...)
	return nil
}

// DetectionEfficiency derives the company's 0-100 ability to catch
// espionage attempts. The weights and caps below are a design contract:
//
//	security_level * 10                (10-50)
//	+ min(30, budget / 10000)
//	+ min(20, personnel / 10 * 5)
//	+ min(25, technology_count * 5)
//
// clamped to [0, 100]. The function is deterministic and monotonically
// non-decreasing in each input.
func (d *DefenseRegistry) DetectionEfficiency(company string) int {
	p := d.Profile(company)

	score := p.SecurityLevel * 10

	budgetBonus := p.Budget / 10000
	if budgetBonus > 30 {
		budgetBonus = 30
	}
	score += budgetBonus

	staffBonus := p.Personnel / 10 * 5
	if staffBonus > 20 {
		staffBonus = 20
	}
	score += staffBonus

	techBonus := len(p.Technologies) * 5
	if techBonus > 25 {
		techBonus = 25
	}
	score += techBonus

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// RecordIncident appends a detected espionage attempt to the company's
// history. History is for the UI only; it deliberately does not feed back
// into DetectionEfficiency. If escalating defenses are ever wanted, this
// is the extension point.
func (d *DefenseRegistry) RecordIncident(company string, inc Incident) {
	p := d.Profile(company)
	p.Incidents = append(p.Incidents, inc)
}
