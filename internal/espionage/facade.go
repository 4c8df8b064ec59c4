/*
Package espionage
File: facade.go
Description:
    The espionage facade: composes the roster, the defense registry, the
    probability engine and the mission manager behind one surface. This is
    the only type outside collaborators (HTTP handlers, the day heartbeat,
    NPC logic) ever talk to. Every call is synchronous; the simulation is
    single-threaded and driven by Tick, one call per simulated day.
*/

package espionage

import (
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"
)

// Espionage is the composition root of the simulation.
type Espionage struct {
	log       *zap.Logger
	bal       *Balance
	companies map[string]Company

	store    *Store
	roster   *Roster
	defense  *DefenseRegistry
	engine   *Engine
	missions *MissionManager

	day int
}

// New builds a simulation from the loaded config, a seeded random source
// and a logger. The rng is the only entropy the simulation ever consumes,
// so two facades built from the same config and seed replay identically.
func New(cfg *Config, rng *rand.Rand, log *zap.Logger) *Espionage {
	if log == nil {
		log = zap.NewNop()
	}

	bal := cfg.Balance
	companies := make(map[string]Company, len(cfg.Companies))
	for _, c := range cfg.Companies {
		companies[c.Key] = c
	}

	store := NewStore()
	roster := NewRoster(store, &bal, rng)
	defense := NewDefenseRegistry(store)
	engine := NewEngine(&bal, rng)
	missions := NewMissionManager(store, &bal, roster, defense, engine, companies)

	e := &Espionage{
		log:       log,
		bal:       &bal,
		companies: companies,
		store:     store,
		roster:    roster,
		defense:   defense,
		engine:    engine,
		missions:  missions,
	}

	// Seed the hireable pool so day one has someone to recruit.
	if bal.CandidatePoolMin > 0 {
		roster.GenerateCandidates(bal.CandidatePoolMin)
	}

	return e
}

// UpdateBalance swaps the tuning values in place (SIGHUP hot-reload).
// Every component shares the same Balance pointer, so the new knobs take
// effect on the next operation. The company roster is not reloadable;
// missions may already reference existing keys.
func (e *Espionage) UpdateBalance(b Balance) {
	*e.bal = b
	e.log.Info("espionage balance reloaded")
}

// Day returns the last ticked simulation day.
func (e *Espionage) Day() int { return e.day }

// Companies returns the rival-company directory, sorted by key.
func (e *Espionage) Companies() []Company {
	out := make([]Company, 0, len(e.companies))
	for _, c := range e.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// --- AGENT ROSTER PASS-THROUGH ---

// Candidates lists the hireable pool.
func (e *Espionage) Candidates() []*Agent { return e.roster.ListCandidates() }

// Agents lists the active roster.
func (e *Espionage) Agents() []*Agent { return e.roster.ListActive() }

// Agent returns a hired agent by id.
func (e *Espionage) Agent(id string) (*Agent, error) { return e.roster.Get(id) }

// GenerateCandidates adds n fresh candidates to the pool.
func (e *Espionage) GenerateCandidates(n int) []*Agent { return e.roster.GenerateCandidates(n) }

// HireAgent recruits a candidate into the active roster.
func (e *Espionage) HireAgent(candidateID string) (*Agent, error) {
	a, err := e.roster.Hire(candidateID)
	if err != nil {
		e.log.Debug("hire rejected", zap.String("candidate", candidateID), zap.Error(err))
		return nil, err
	}
	e.log.Info("agent hired",
		zap.String("agent", a.ID),
		zap.String("name", a.Name),
		zap.String("specialization", string(a.Specialization)),
		zap.Int("skill", a.Skill))
	return a, nil
}

// DismissAgent fires an agent. Fails while the agent is on a mission.
func (e *Espionage) DismissAgent(agentID string) error {
	if err := e.roster.Fire(agentID); err != nil {
		e.log.Debug("dismiss rejected", zap.String("agent", agentID), zap.Error(err))
		return err
	}
	e.log.Info("agent dismissed", zap.String("agent", agentID))
	return nil
}

// RetireAgent is the manual, terminal Available -> Retired action.
func (e *Espionage) RetireAgent(agentID string) error {
	return e.roster.Retire(agentID)
}

// --- MISSION PASS-THROUGH ---

// CreateMission plans a new mission against a rival company.
func (e *Espionage) CreateMission(p CreateMissionParams) (*Mission, error) {
	mis, err := e.missions.Create(p, e.day)
	if err != nil {
		e.log.Debug("mission creation rejected", zap.Error(err))
		return nil, err
	}
	e.log.Info("mission planned",
		zap.String("mission", mis.ID),
		zap.String("type", string(mis.Type)),
		zap.String("target", mis.Target),
		zap.Int("success_chance", mis.SuccessChance),
		zap.Int("detection_chance", mis.DetectionChance))
	return mis, nil
}

// StartMission launches a Planning mission and locks its agent.
func (e *Espionage) StartMission(missionID string) error {
	if err := e.missions.Start(missionID, e.day); err != nil {
		e.log.Debug("mission start rejected", zap.String("mission", missionID), zap.Error(err))
		return err
	}
	e.log.Info("mission started", zap.String("mission", missionID), zap.Int("day", e.day))
	return nil
}

// CancelMission aborts a mission that has not started yet.
func (e *Espionage) CancelMission(missionID string) error {
	return e.missions.Cancel(missionID)
}

// Mission returns a mission by id.
func (e *Espionage) Mission(id string) (*Mission, error) { return e.missions.Get(id) }

// MissionsByState lists missions in a lifecycle state.
func (e *Espionage) MissionsByState(s MissionState) []*Mission { return e.missions.ListByState(s) }

// MissionsForAgent lists every mission ever assigned to an agent.
func (e *Espionage) MissionsForAgent(agentID string) []*Mission {
	return e.missions.ListForAgent(agentID)
}

// MissionsForTarget lists every mission aimed at a company. This is the
// read surface NPC retaliation logic works from.
func (e *Espionage) MissionsForTarget(company string) []*Mission {
	return e.missions.ListForTarget(company)
}

// EstimateMission previews the probabilities for a draft without creating
// anything. The UI shows this before the player commits credits.
func (e *Espionage) EstimateMission(t MissionType, agentID, target string) (success, detection int, err error) {
	if !t.Valid() {
		return 0, 0, fmt.Errorf("%w: unknown mission type %q", ErrValidation, t)
	}
	if _, ok := e.companies[target]; !ok {
		return 0, 0, fmt.Errorf("%w: company %q", ErrInvalidTarget, target)
	}
	agent, err := e.roster.Get(agentID)
	if err != nil {
		return 0, 0, err
	}
	success, detection = e.engine.Estimate(t, agent, e.defense.DetectionEfficiency(target))
	return success, detection, nil
}

// --- DEFENSE PASS-THROUGH ---

// DefenseProfile returns a company's counter-espionage posture.
func (e *Espionage) DefenseProfile(company string) (*DefenseProfile, error) {
	if _, ok := e.companies[company]; !ok {
		return nil, fmt.Errorf("%w: company %q", ErrNotFound, company)
	}
	return e.defense.Profile(company), nil
}

// ConfigureDefense validates and replaces a company's security posture.
func (e *Espionage) ConfigureDefense(company string, securityLevel, budget, personnel int, technologies []string) error {
	if _, ok := e.companies[company]; !ok {
		return fmt.Errorf("%w: company %q", ErrNotFound, company)
	}
	return e.defense.Configure(company, securityLevel, budget, personnel, technologies)
}

// DetectionEfficiency exposes the derived 0-100 score for a company.
func (e *Espionage) DetectionEfficiency(company string) int {
	return e.defense.DetectionEfficiency(company)
}

// --- THE DAILY TICK ---

// Tick advances the simulation by one day: roster recovery countdowns
// first, then mission progress and resolution, then candidate-pool
// replenishment. Called exactly once per simulated day by the host's
// day-advance driver. The returned report carries everything the host
// needs to apply effects and notify players.
func (e *Espionage) Tick(day int) TickReport {
	e.day = day

	report := TickReport{Day: day}
	report.Recovered = e.roster.DailyUpdate(day)
	report.Resolved = e.missions.AdvanceAll(day)
	e.replenishCandidates()

	for _, r := range report.Resolved {
		e.log.Info("mission resolved",
			zap.String("mission", r.Mission.ID),
			zap.String("state", string(r.Mission.State)),
			zap.Bool("detected", r.Mission.Result.Detected),
			zap.Int("day", day))
		if r.Consequences.Captured {
			e.log.Info("agent captured",
				zap.String("agent", r.Mission.AgentID),
				zap.String("by", r.Mission.Target))
		}
	}

	return report
}

// replenishCandidates tops the hireable pool back up once it drops below
// the configured minimum, aiming at a random level between min and max.
func (e *Espionage) replenishCandidates() {
	min, max := e.bal.CandidatePoolMin, e.bal.CandidatePoolMax
	if max <= 0 || max < min {
		return
	}
	current := len(e.store.Candidates)
	if current >= min {
		return
	}
	target := e.engine.rng.Intn(max-min+1) + min
	if needed := target - current; needed > 0 {
		e.roster.GenerateCandidates(needed)
	}
}
