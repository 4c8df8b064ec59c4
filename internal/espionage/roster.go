/*
Package espionage
File: roster.go
Description:
    The agent roster: candidate generation, hiring, firing, retirement,
    and the agent state machine. Transition is the single entry point for
    agent-state mutation; the mission lifecycle manager drives it and
    nothing else writes agent state. DailyUpdate handles the time-driven
    parts (recovery countdowns, notoriety decay).
*/

package espionage

import (
	"fmt"
	"math/rand"
)

// Cover-identity name pools for candidate generation.
var (
	agentFirstNames = []string{
		"Vera", "Marcus", "Ilsa", "Dmitri", "Sofia", "Jun", "Amara",
		"Felix", "Nadia", "Oskar", "Lena", "Rafael", "Mei", "Hugo",
	}
	agentLastNames = []string{
		"Falk", "Moreau", "Ivanov", "Tanaka", "Reyes", "Lindqvist",
		"Okafor", "Novak", "Silva", "Keller", "Marchetti", "Duval",
	}
)

// TransitionContext carries the side data a state transition needs:
// mission binding on assignment, gains and recovery time on release.
type TransitionContext struct {
	MissionID      string // Required for Available -> OnMission
	ExperienceGain int
	NotorietyGain  int
	RecoveryDays   int // Required > 0 for OnMission -> Recovering
}

// Roster owns the lifecycle of espionage agents.
type Roster struct {
	store *Store
	bal   *Balance
	rng   *rand.Rand
}

// NewRoster wires the roster to the shared store, balance and random
// source. The roster shares the simulation's single RNG; candidate
// generation is its only entropy consumer.
func NewRoster(store *Store, bal *Balance, rng *rand.Rand) *Roster {
	return &Roster{store: store, bal: bal, rng: rng}
}

// GenerateCandidates adds n new hireable agents to the candidate pool and
// returns them. Skill and loyalty are rolled 1-5, specialization is
// uniform over the declared set, and cost correlates with skill. Existing
// roster records are never touched.
func (r *Roster) GenerateCandidates(n int) []*Agent {
	out := make([]*Agent, 0, n)
	for i := 0; i < n; i++ {
		skill := r.rng.Intn(5) + 1
		cost := r.bal.BaseMonthlyCost + (skill-1)*r.bal.CostPerSkill
		if r.bal.CostJitter > 0 {
			cost += r.rng.Intn(r.bal.CostJitter)
		}

		a := &Agent{
			ID:             r.store.NextAgentID(),
			Name:           r.generateName(),
			Specialization: Specializations[r.rng.Intn(len(Specializations))],
			Skill:          skill,
			Loyalty:        r.rng.Intn(5) + 1,
			MonthlyCost:    cost,
			State:          AgentAvailable,
		}
		r.store.Candidates[a.ID] = a
		out = append(out, a)
	}
	return out
}

func (r *Roster) generateName() string {
	first := agentFirstNames[r.rng.Intn(len(agentFirstNames))]
	last := agentLastNames[r.rng.Intn(len(agentLastNames))]
	return first + " " + last
}

// Hire moves a candidate into the active roster in Available state.
func (r *Roster) Hire(candidateID string) (*Agent, error) {
	a, ok := r.store.Candidates[candidateID]
	if !ok {
		return nil, fmt.Errorf("%w: candidate %s", ErrNotFound, candidateID)
	}
	delete(r.store.Candidates, candidateID)
	a.State = AgentAvailable
	r.store.Agents[a.ID] = a
	return a, nil
}

// Fire removes an agent from the active roster. An agent on a mission
// cannot be fired; the mission lock must resolve first.
func (r *Roster) Fire(agentID string) error {
	a, ok := r.store.Agents[agentID]
	if !ok {
		return fmt.Errorf("%w: agent %s", ErrNotFound, agentID)
	}
	if a.State == AgentOnMission {
		return fmt.Errorf("%w: agent %s is on mission %s", ErrInvalidState, agentID, a.MissionID)
	}
	delete(r.store.Agents, agentID)
	return nil
}

// Retire is the manual Available -> Retired action. Retired is terminal;
// the record stays in the store for history but leaves the active roster.
func (r *Roster) Retire(agentID string) error {
	return r.Transition(agentID, AgentRetired, TransitionContext{})
}

// Get returns a hired agent by id.
func (r *Roster) Get(agentID string) (*Agent, error) {
	a, ok := r.store.Agents[agentID]
	if !ok {
		return nil, fmt.Errorf("%w: agent %s", ErrNotFound, agentID)
	}
	return a, nil
}

// ListActive returns every hired agent that has not retired, sorted by id
// for stable output.
func (r *Roster) ListActive() []*Agent {
	out := make([]*Agent, 0, len(r.store.Agents))
	for _, id := range sortedKeys(r.store.Agents) {
		a := r.store.Agents[id]
		if a.State != AgentRetired {
			out = append(out, a)
		}
	}
	return out
}

// ListCandidates returns the hireable pool, sorted by id.
func (r *Roster) ListCandidates() []*Agent {
	out := make([]*Agent, 0, len(r.store.Candidates))
	for _, id := range sortedKeys(r.store.Candidates) {
		out = append(out, r.store.Candidates[id])
	}
	return out
}

// Transition enforces the agent state machine and is the sole mutation
// point for agent state:
//
//	Available  -> OnMission | Retired
//	OnMission  -> Available | Recovering | Captured
//	Recovering -> Available (when the countdown hits zero)
//	Captured   -> Available (only when capture is a long recovery)
//
// Everything outside this graph fails with ErrInvalidTransition and
// mutates nothing. Gains from ctx are applied after the edge check, with
// notoriety clamped to 0-100.
func (r *Roster) Transition(agentID string, next AgentState, ctx TransitionContext) error {
	a, ok := r.store.Agents[agentID]
	if !ok {
		return fmt.Errorf("%w: agent %s", ErrNotFound, agentID)
	}

	if err := r.checkEdge(a, next, ctx); err != nil {
		return err
	}

	switch next {
	case AgentOnMission:
		a.MissionID = ctx.MissionID
	case AgentAvailable:
		a.MissionID = ""
		a.RecoveryDays = 0
	case AgentRecovering:
		a.MissionID = ""
		a.RecoveryDays = ctx.RecoveryDays
	case AgentCaptured:
		a.MissionID = ""
		a.RecoveryDays = ctx.RecoveryDays // 0 when capture is permanent
	case AgentRetired:
		a.MissionID = ""
	}

	a.Experience += ctx.ExperienceGain
	a.Notoriety = clampNotoriety(a.Notoriety + ctx.NotorietyGain)
	a.State = next
	return nil
}

// checkEdge validates a single transition without mutating anything.
func (r *Roster) checkEdge(a *Agent, next AgentState, ctx TransitionContext) error {
	switch a.State {
	case AgentAvailable:
		if next == AgentOnMission {
			if ctx.MissionID == "" {
				return fmt.Errorf("%w: assignment without a mission id", ErrInvalidTransition)
			}
			return nil
		}
		if next == AgentRetired {
			return nil
		}

	case AgentOnMission:
		switch next {
		case AgentAvailable, AgentCaptured:
			return nil
		case AgentRecovering:
			if ctx.RecoveryDays <= 0 {
				return fmt.Errorf("%w: recovery requires a positive day count", ErrInvalidTransition)
			}
			return nil
		}

	case AgentRecovering:
		if next == AgentAvailable && a.RecoveryDays <= 0 {
			return nil
		}

	case AgentCaptured:
		// Captured agents only come back when capture is configured as a
		// long recovery, and only once the countdown has run out.
		if next == AgentAvailable && r.bal.CaptureRecoveryDays > 0 && a.RecoveryDays <= 0 {
			return nil
		}
	}

	return fmt.Errorf("%w: agent %s cannot go %s -> %s", ErrInvalidTransition, a.ID, a.State, next)
}

// DailyUpdate advances the time-driven parts of the roster by one
// simulated day: recovery countdowns (including capture, when capture is
// recoverable) and the slow notoriety decay. Returns the ids of agents
// that came back to Available today.
func (r *Roster) DailyUpdate(day int) []string {
	var recovered []string

	decay := r.bal.NotorietyDecayInterval > 0 && day%r.bal.NotorietyDecayInterval == 0

	for _, id := range sortedKeys(r.store.Agents) {
		a := r.store.Agents[id]

		switch a.State {
		case AgentRecovering:
			a.RecoveryDays--
			if a.RecoveryDays <= 0 {
				if err := r.Transition(a.ID, AgentAvailable, TransitionContext{}); err == nil {
					recovered = append(recovered, a.ID)
				}
			}
		case AgentCaptured:
			if r.bal.CaptureRecoveryDays > 0 {
				a.RecoveryDays--
				if a.RecoveryDays <= 0 {
					if err := r.Transition(a.ID, AgentAvailable, TransitionContext{}); err == nil {
						recovered = append(recovered, a.ID)
					}
				}
			}
		}

		if decay && a.Notoriety > 0 {
			a.Notoriety--
		}
	}

	return recovered
}

func clampNotoriety(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
