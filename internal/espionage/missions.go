/*
Package espionage
File: missions.go
Description:
    The mission lifecycle manager. Owns the mission state machine from
    Planning through InProgress to exactly one terminal state, advances
    progress on each simulated day, invokes the probability engine at
    completion, and drives the roster's agent transitions. Missions are
    advanced in ascending-id order so randomness consumption is
    reproducible under a seeded source.

    State machine:
        Planning   -> InProgress | Cancelled
        InProgress -> Completed | Failed | Discovered   (decided once)
    All four right-hand states are terminal.
*/

package espionage

import (
	"fmt"

	"github.com/google/uuid"
)

// CreateMissionParams are the inputs for planning a new mission.
type CreateMissionParams struct {
	Type      MissionType `json:"type"`
	Owner     string      `json:"owner"`     // Company running the operation
	Target    string      `json:"target"`    // Company being targeted
	Objective string      `json:"objective"` // Tech id, product key, free-form detail
	AgentID   string      `json:"agent_id"`
}

// MissionManager owns mission records and their lifecycle.
type MissionManager struct {
	store     *Store
	bal       *Balance
	roster    *Roster
	defense   *DefenseRegistry
	engine    *Engine
	companies map[string]Company
}

// NewMissionManager wires the manager to its collaborators. The companies
// map is the target directory; a mission can only aim at a key in it.
func NewMissionManager(store *Store, bal *Balance, roster *Roster, defense *DefenseRegistry, engine *Engine, companies map[string]Company) *MissionManager {
	return &MissionManager{
		store:     store,
		bal:       bal,
		roster:    roster,
		defense:   defense,
		engine:    engine,
		companies: companies,
	}
}

// Create validates the preconditions, computes the initial probability
// estimate, and returns a new mission in Planning. The agent is not
// locked yet; that happens at Start. Nothing is mutated on failure.
func (m *MissionManager) Create(p CreateMissionParams, day int) (*Mission, error) {
	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown mission type %q", ErrValidation, p.Type)
	}
	if _, ok := m.companies[p.Target]; !ok {
		return nil, fmt.Errorf("%w: company %q", ErrInvalidTarget, p.Target)
	}
	if p.Target == p.Owner {
		return nil, fmt.Errorf("%w: cannot target own company", ErrInvalidTarget)
	}

	agent, err := m.roster.Get(p.AgentID)
	if err != nil {
		return nil, err
	}
	if agent.State != AgentAvailable {
		return nil, fmt.Errorf("%w: agent %s is %s", ErrInvalidAgent, agent.ID, agent.State)
	}

	tun := m.bal.Tuning(p.Type)
	duration := tun.BaseDays - (agent.Skill-1)/2
	if duration < m.bal.MinMissionDays {
		duration = m.bal.MinMissionDays
	}

	success, detection := m.engine.Estimate(p.Type, agent, m.defense.DetectionEfficiency(p.Target))

	mis := &Mission{
		ID:                m.store.NextMissionID(),
		Type:              p.Type,
		Owner:             p.Owner,
		Target:            p.Target,
		Objective:         p.Objective,
		AgentID:           agent.ID,
		EstimatedDuration: duration,
		Cost:              tun.BaseCost + duration*m.bal.DailyOperationCost,
		SuccessChance:     success,
		DetectionChance:   detection,
		State:             MissionPlanning,
		CreatedDay:        day,
	}
	m.store.Missions[mis.ID] = mis
	return mis, nil
}

// Start moves a Planning mission to InProgress and locks the agent. The
// agent transition runs first; if the agent was claimed by another
// mission in the meantime the start fails and the mission stays Planning.
func (m *MissionManager) Start(missionID string, day int) error {
	mis, err := m.Get(missionID)
	if err != nil {
		return err
	}
	if mis.State != MissionPlanning {
		return fmt.Errorf("%w: mission %s is %s, not planning", ErrInvalidState, mis.ID, mis.State)
	}

	if err := m.roster.Transition(mis.AgentID, AgentOnMission, TransitionContext{MissionID: mis.ID}); err != nil {
		return err
	}

	mis.State = MissionInProgress
	mis.StartDay = day
	mis.ElapsedDays = 0
	return nil
}

// Cancel aborts a mission that has not started. InProgress missions
// cannot be cancelled: the agent lock must resolve naturally, which keeps
// the exclusivity invariant trivial.
func (m *MissionManager) Cancel(missionID string) error {
	mis, err := m.Get(missionID)
	if err != nil {
		return err
	}
	if mis.State != MissionPlanning {
		return fmt.Errorf("%w: mission %s is %s, only planning missions can be cancelled", ErrInvalidState, mis.ID, mis.State)
	}
	mis.State = MissionCancelled
	return nil
}

// AdvanceAll is the daily tick for missions: every InProgress mission
// gains one elapsed day, and any mission reaching its estimated duration
// resolves on this same tick. Missions are walked in ascending-id order.
// Terminal missions are never touched again.
func (m *MissionManager) AdvanceAll(day int) []ResolvedMission {
	var resolved []ResolvedMission

	for _, id := range sortedKeys(m.store.Missions) {
		mis := m.store.Missions[id]
		if mis.State != MissionInProgress {
			continue
		}

		mis.ElapsedDays++
		if mis.ElapsedDays < mis.EstimatedDuration {
			continue
		}

		resolved = append(resolved, m.resolve(mis, day))
	}

	return resolved
}

// resolve runs the single resolution point for a mission: one outcome
// draw, one effect computation, one agent transition, one incident
// record. After this the mission is terminal and immutable.
func (m *MissionManager) resolve(mis *Mission, day int) ResolvedMission {
	agent, err := m.roster.Get(mis.AgentID)
	if err != nil {
		// The roster never loses an OnMission agent (firing them is
		// blocked), so this is unreachable; fail the mission cleanly
		// rather than panic if the invariant is ever broken.
		mis.State = MissionFailed
		mis.ActualDuration = mis.ElapsedDays
		mis.Result = &MissionResult{}
		return ResolvedMission{Mission: *mis}
	}

	eff := m.defense.DetectionEfficiency(mis.Target)
	res := m.engine.Resolve(mis, agent, eff)
	cons := m.engine.ComputeEffects(mis, res, agent)

	mis.State = TerminalState(res)
	mis.ActualDuration = mis.ElapsedDays
	res.Effects = cons.Target
	mis.Result = &res

	next := AgentAvailable
	switch {
	case cons.Agent.Captured:
		next = AgentCaptured
	case cons.Agent.RecoveryDays > 0:
		next = AgentRecovering
	}

	ctx := TransitionContext{
		ExperienceGain: cons.Agent.ExperienceGain,
		NotorietyGain:  cons.Agent.NotorietyGain,
		RecoveryDays:   cons.Agent.RecoveryDays,
	}
	// The edge OnMission -> {Available,Recovering,Captured} is always in
	// the graph, so this cannot fail for a live agent.
	_ = m.roster.Transition(agent.ID, next, ctx)

	if res.Detected {
		m.defense.RecordIncident(mis.Target, Incident{
			ID:        uuid.NewString(),
			Day:       day,
			MissionID: mis.ID,
			Type:      mis.Type,
			Foiled:    !res.Success,
		})
	}

	return ResolvedMission{
		Mission:      *mis,
		Consequences: cons.Agent,
		Effects:      cons.Target,
	}
}

// Get returns a mission by id.
func (m *MissionManager) Get(missionID string) (*Mission, error) {
	mis, ok := m.store.Missions[missionID]
	if !ok {
		return nil, fmt.Errorf("%w: mission %s", ErrNotFound, missionID)
	}
	return mis, nil
}

// ListByState returns missions in the given state, ascending by id.
func (m *MissionManager) ListByState(state MissionState) []*Mission {
	var out []*Mission
	for _, id := range sortedKeys(m.store.Missions) {
		if mis := m.store.Missions[id]; mis.State == state {
			out = append(out, mis)
		}
	}
	return out
}

// ListForAgent returns every mission ever assigned to the agent.
func (m *MissionManager) ListForAgent(agentID string) []*Mission {
	var out []*Mission
	for _, id := range sortedKeys(m.store.Missions) {
		if mis := m.store.Missions[id]; mis.AgentID == agentID {
			out = append(out, mis)
		}
	}
	return out
}

// ListForTarget returns every mission aimed at the company. NPC logic
// reads this to notice Discovered operations against itself and retaliate
// with its own missions; the engine only reports, it never retaliates.
func (m *MissionManager) ListForTarget(company string) []*Mission {
	var out []*Mission
	for _, id := range sortedKeys(m.store.Missions) {
		if mis := m.store.Missions[id]; mis.Target == company {
			out = append(out, mis)
		}
	}
	return out
}
