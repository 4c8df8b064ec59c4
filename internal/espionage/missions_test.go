package espionage

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type missionFixture struct {
	store   *Store
	roster  *Roster
	defense *DefenseRegistry
	engine  *Engine
	manager *MissionManager
	bal     *Balance
}

func newMissionFixture(seed int64) *missionFixture {
	bal := DefaultBalance()
	store := NewStore()
	rng := rand.New(rand.NewSource(seed))
	roster := NewRoster(store, &bal, rng)
	defense := NewDefenseRegistry(store)
	engine := NewEngine(&bal, rng)
	companies := map[string]Company{
		"player":   {Key: "player", Name: "Player Corp"},
		"omnicorp": {Key: "omnicorp", Name: "OmniCorp Industries"},
		"vertex":   {Key: "vertex", Name: "Vertex Dynamics"},
	}
	return &missionFixture{
		store:   store,
		roster:  roster,
		defense: defense,
		engine:  engine,
		manager: NewMissionManager(store, &bal, roster, defense, engine, companies),
		bal:     &bal,
	}
}

func (f *missionFixture) agent(spec Specialization, skill int) *Agent {
	return addAgent(f.store, &Agent{
		Name:           "Vera Falk",
		Specialization: spec,
		Skill:          skill,
		Loyalty:        3,
	})
}

func (f *missionFixture) params(agentID string) CreateMissionParams {
	return CreateMissionParams{
		Type:      MissionInfoGathering,
		Owner:     "player",
		Target:    "omnicorp",
		Objective: "pricing-ledger",
		AgentID:   agentID,
	}
}

func TestCreateMission(t *testing.T) {
	f := newMissionFixture(1)
	a := f.agent(SpecInfoGathering, 3)

	m, err := f.manager.Create(f.params(a.ID), 4)
	require.NoError(t, err)

	assert.Equal(t, MissionPlanning, m.State)
	assert.Equal(t, 4, m.CreatedDay)
	assert.Equal(t, a.ID, m.AgentID)
	assert.Nil(t, m.Result)

	// Skill 3 shaves a day off the 6-day info-gathering baseline.
	assert.Equal(t, 5, m.EstimatedDuration)
	assert.Equal(t, f.bal.Tuning(MissionInfoGathering).BaseCost+5*f.bal.DailyOperationCost, m.Cost)

	// Estimates are snapshotted on the mission.
	success, detection := f.engine.Estimate(m.Type, a, f.defense.DetectionEfficiency("omnicorp"))
	assert.Equal(t, success, m.SuccessChance)
	assert.Equal(t, detection, m.DetectionChance)

	// Planning does not lock the agent.
	assert.Equal(t, AgentAvailable, a.State)
}

func TestCreateMissionPreconditions(t *testing.T) {
	f := newMissionFixture(1)
	a := f.agent(SpecInfoGathering, 3)

	t.Run("unknown mission type", func(t *testing.T) {
		p := f.params(a.ID)
		p.Type = "seduction"
		_, err := f.manager.Create(p, 0)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown target company", func(t *testing.T) {
		p := f.params(a.ID)
		p.Target = "ghost-inc"
		_, err := f.manager.Create(p, 0)
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("cannot target own company", func(t *testing.T) {
		p := f.params(a.ID)
		p.Target = "player"
		_, err := f.manager.Create(p, 0)
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("unknown agent", func(t *testing.T) {
		_, err := f.manager.Create(f.params("AGT-9999"), 0)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("busy agent", func(t *testing.T) {
		busy := f.agent(SpecSabotage, 2)
		require.NoError(t, f.roster.Transition(busy.ID, AgentOnMission, TransitionContext{MissionID: "MIS-0099"}))
		_, err := f.manager.Create(f.params(busy.ID), 0)
		assert.ErrorIs(t, err, ErrInvalidAgent)
	})

	t.Run("nothing persisted on failure", func(t *testing.T) {
		assert.Empty(t, f.manager.ListByState(MissionPlanning))
	})
}

func TestStartMission(t *testing.T) {
	f := newMissionFixture(1)
	a := f.agent(SpecInfoGathering, 3)
	m, err := f.manager.Create(f.params(a.ID), 0)
	require.NoError(t, err)

	require.NoError(t, f.manager.Start(m.ID, 3))
	assert.Equal(t, MissionInProgress, m.State)
	assert.Equal(t, 3, m.StartDay)
	assert.Equal(t, AgentOnMission, a.State)
	assert.Equal(t, m.ID, a.MissionID)

	// Starting twice is a lifecycle violation.
	assert.ErrorIs(t, f.manager.Start(m.ID, 3), ErrInvalidState)
}

func TestStartMissionAgentContention(t *testing.T) {
	f := newMissionFixture(1)
	a := f.agent(SpecInfoGathering, 3)

	first, err := f.manager.Create(f.params(a.ID), 0)
	require.NoError(t, err)
	second, err := f.manager.Create(f.params(a.ID), 0)
	require.NoError(t, err)

	require.NoError(t, f.manager.Start(first.ID, 0))

	// The agent is locked; the rival plan cannot launch and stays in
	// Planning, so it can be started later or cancelled.
	err = f.manager.Start(second.ID, 0)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, MissionPlanning, second.State)
	assert.Equal(t, first.ID, a.MissionID)
}

func TestCancelMission(t *testing.T) {
	f := newMissionFixture(1)
	a := f.agent(SpecInfoGathering, 3)

	t.Run("planning mission cancels", func(t *testing.T) {
		m, err := f.manager.Create(f.params(a.ID), 0)
		require.NoError(t, err)
		require.NoError(t, f.manager.Cancel(m.ID))
		assert.Equal(t, MissionCancelled, m.State)
		assert.Nil(t, m.Result, "a cancelled mission never resolved")

		// Terminal: cancelling again is rejected.
		assert.ErrorIs(t, f.manager.Cancel(m.ID), ErrInvalidState)
	})

	t.Run("in-progress mission cannot cancel", func(t *testing.T) {
		m, err := f.manager.Create(f.params(a.ID), 0)
		require.NoError(t, err)
		require.NoError(t, f.manager.Start(m.ID, 0))

		assert.ErrorIs(t, f.manager.Cancel(m.ID), ErrInvalidState)
		assert.Equal(t, MissionInProgress, m.State, "failed cancel must not change state")
		assert.Equal(t, AgentOnMission, a.State, "agent lock stays intact")
	})
}

func TestAdvanceAllRoundTrip(t *testing.T) {
	f := newMissionFixture(3)
	a := f.agent(SpecInfoGathering, 3)
	m, err := f.manager.Create(f.params(a.ID), 0)
	require.NoError(t, err)
	require.NoError(t, f.manager.Start(m.ID, 0))

	var resolved []ResolvedMission
	for day := 1; day <= m.EstimatedDuration; day++ {
		if day < m.EstimatedDuration {
			assert.Empty(t, f.manager.AdvanceAll(day))
			assert.Equal(t, MissionInProgress, m.State)
			assert.Equal(t, day, m.ElapsedDays)
		} else {
			resolved = f.manager.AdvanceAll(day)
		}
	}

	// Reaching the estimate forces resolution on that same tick.
	require.Len(t, resolved, 1)
	assert.Contains(t, []MissionState{MissionCompleted, MissionFailed, MissionDiscovered}, m.State)
	require.NotNil(t, m.Result)
	assert.Equal(t, m.EstimatedDuration, m.ActualDuration)

	// Agent is released to a post-mission state, never left OnMission.
	assert.Contains(t, []AgentState{AgentAvailable, AgentRecovering, AgentCaptured}, a.State)
	assert.Empty(t, a.MissionID)
	assert.Positive(t, a.Experience)
}

func TestAdvanceAllIdempotentPastResolution(t *testing.T) {
	f := newMissionFixture(3)
	a := f.agent(SpecInfoGathering, 3)
	m, err := f.manager.Create(f.params(a.ID), 0)
	require.NoError(t, err)
	require.NoError(t, f.manager.Start(m.ID, 0))

	var day int
	for day = 1; !m.State.Terminal(); day++ {
		f.manager.AdvanceAll(day)
	}

	finalState := m.State
	finalResult := m.Result
	finalElapsed := m.ElapsedDays

	for ; day <= 30; day++ {
		assert.Empty(t, f.manager.AdvanceAll(day))
	}
	assert.Equal(t, finalState, m.State)
	assert.Same(t, finalResult, m.Result)
	assert.Equal(t, finalElapsed, m.ElapsedDays)
}

func TestAdvanceAllAgentExclusivity(t *testing.T) {
	f := newMissionFixture(11)

	// A small stable of agents running missions back to back.
	var agents []*Agent
	for i := 0; i < 4; i++ {
		agents = append(agents, f.agent(Specializations[i], 2+i%3))
	}

	for day := 1; day <= 120; day++ {
		// Keep every Available agent busy.
		for _, a := range agents {
			if a.State != AgentAvailable {
				continue
			}
			m, err := f.manager.Create(f.params(a.ID), day)
			require.NoError(t, err)
			require.NoError(t, f.manager.Start(m.ID, day))
		}

		f.manager.AdvanceAll(day)
		f.roster.DailyUpdate(day)

		// Invariant: no two InProgress missions share an agent.
		seen := map[string]string{}
		for _, m := range f.manager.ListByState(MissionInProgress) {
			prev, dup := seen[m.AgentID]
			require.False(t, dup, "agent %s on missions %s and %s", m.AgentID, prev, m.ID)
			seen[m.AgentID] = m.ID
			assert.Equal(t, AgentOnMission, f.store.Agents[m.AgentID].State)
		}
	}
}

func TestResolutionForcedOutcomes(t *testing.T) {
	t.Run("guaranteed discovery records an incident and punishes", func(t *testing.T) {
		f := newMissionFixture(5)
		// Impossible mission against a fortress: success floors at 0,
		// detection saturates.
		f.bal.MinChance = 0
		f.bal.MaxChance = 100
		tun := f.bal.Missions[MissionTechTheft]
		tun.Difficulty = 1000
		f.bal.Missions[MissionTechTheft] = tun
		require.NoError(t, f.defense.Configure("omnicorp", 5, 300000, 20, []string{"a", "b", "c", "d", "e"}))
		require.Equal(t, 100, f.defense.DetectionEfficiency("omnicorp"))

		a := f.agent(SpecSabotage, 1)
		a.Notoriety = 90

		p := f.params(a.ID)
		p.Type = MissionTechTheft
		m, err := f.manager.Create(p, 0)
		require.NoError(t, err)
		require.NoError(t, f.manager.Start(m.ID, 0))

		var resolved []ResolvedMission
		for day := 1; len(resolved) == 0; day++ {
			resolved = f.manager.AdvanceAll(day)
		}

		assert.Equal(t, MissionDiscovered, m.State)
		require.NotNil(t, m.Result)
		assert.False(t, m.Result.Success)
		assert.True(t, m.Result.Detected)

		// Notoriety 90 is far over the capture threshold.
		assert.Equal(t, AgentCaptured, a.State)
		assert.True(t, resolved[0].Consequences.Captured)

		incidents := f.defense.Profile("omnicorp").Incidents
		require.Len(t, incidents, 1)
		assert.Equal(t, m.ID, incidents[0].MissionID)
		assert.True(t, incidents[0].Foiled)
		assert.NotEmpty(t, incidents[0].ID)
	})

	t.Run("detected success records a non-foiled incident", func(t *testing.T) {
		f := newMissionFixture(5)
		f.bal.MinChance = 100 // both rolls always succeed...
		f.bal.MaxChance = 100

		a := f.agent(SpecInfoGathering, 5)
		m, err := f.manager.Create(f.params(a.ID), 0)
		require.NoError(t, err)
		require.NoError(t, f.manager.Start(m.ID, 0))

		var resolved []ResolvedMission
		for day := 1; len(resolved) == 0; day++ {
			resolved = f.manager.AdvanceAll(day)
		}

		// ...so the mission completes but is also detected.
		assert.Equal(t, MissionCompleted, m.State)
		assert.True(t, m.Result.Detected)
		require.Len(t, f.defense.Profile("omnicorp").Incidents, 1)
		assert.False(t, f.defense.Profile("omnicorp").Incidents[0].Foiled)
	})
}

func TestMissionReadAccessors(t *testing.T) {
	f := newMissionFixture(1)
	a := f.agent(SpecInfoGathering, 3)
	b := f.agent(SpecSabotage, 2)

	m1, err := f.manager.Create(f.params(a.ID), 0)
	require.NoError(t, err)

	p2 := f.params(b.ID)
	p2.Target = "vertex"
	p2.Type = MissionSabotage
	m2, err := f.manager.Create(p2, 0)
	require.NoError(t, err)

	require.NoError(t, f.manager.Start(m1.ID, 0))

	assert.Equal(t, []*Mission{m2}, f.manager.ListByState(MissionPlanning))
	assert.Equal(t, []*Mission{m1}, f.manager.ListByState(MissionInProgress))
	assert.Equal(t, []*Mission{m1}, f.manager.ListForAgent(a.ID))
	assert.Equal(t, []*Mission{m2}, f.manager.ListForTarget("vertex"))

	_, err = f.manager.Get("MIS-9999")
	assert.ErrorIs(t, err, ErrNotFound)
}
