/*
Package espionage
File: probability.go
Description:
    The probability and outcome-resolution engine. Estimate is pure and
    deterministic: it folds agent skill, specialization match, mission
    difficulty and the target's detection efficiency into two percentages.
    All randomness in the entire simulation is drawn here, in Resolve,
    exactly once per mission, from the single injected seeded source.
*/

package espionage

import "math/rand"

// Engine computes mission probabilities and resolves outcomes.
type Engine struct {
	bal *Balance
	rng *rand.Rand
}

// NewEngine wires the engine to the shared balance and the simulation's
// single random source.
func NewEngine(bal *Balance, rng *rand.Rand) *Engine {
	return &Engine{bal: bal, rng: rng}
}

// clampChance bounds a percentage to the configured floor/ceiling so no
// outcome is ever a certainty in either direction.
func (e *Engine) clampChance(v int) int {
	if v < e.bal.MinChance {
		return e.bal.MinChance
	}
	if v > e.bal.MaxChance {
		return e.bal.MaxChance
	}
	return v
}

// Estimate returns (success chance, detection chance), both 0-100, for an
// agent attempting a mission type against a target with the given
// detection efficiency. Pure: same inputs, same answer, no entropy.
//
// Specialization is the dominant factor: a matching specialist always
// beats a Generalist of identical skill, who always beats an off-field
// specialist.
func (e *Engine) Estimate(t MissionType, agent *Agent, detectionEfficiency int) (success, detection int) {
	tun := e.bal.Tuning(t)

	// --- SUCCESS ---
	success = e.bal.BaseSuccess
	success += agent.Skill * e.bal.SkillWeight

	switch {
	case agent.Specialization.Matches(t):
		success += e.bal.SpecializationBonus
	case agent.Specialization == SpecGeneralist:
		success += e.bal.GeneralistBonus
	}

	expBonus := agent.Experience / e.bal.ExperienceDivisor
	if expBonus > e.bal.ExperienceCap {
		expBonus = e.bal.ExperienceCap
	}
	success += expBonus

	success -= tun.Difficulty
	success -= detectionEfficiency / 2

	// --- DETECTION ---
	detection = detectionEfficiency
	detection += tun.Noise
	detection += agent.Notoriety / 2
	detection -= agent.Skill * e.bal.EvasionPerSkill
	if agent.Specialization.Matches(t) {
		detection -= e.bal.SpecEvasionBonus
	}

	return e.clampChance(success), e.clampChance(detection)
}

// Resolve draws the mission's outcome: two independent uniform rolls, one
// against the success chance and one against the detection chance. The
// draws are independent by design, so all four combinations occur:
//
//	success   & !detected -> Completed
//	success   &  detected -> Completed (target alerted)
//	!success  & !detected -> Failed
//	!success  &  detected -> Discovered
//
// Probabilities are recomputed here against the target's current defense
// posture, so reconfiguring security mid-mission matters. The caller
// resolves each mission exactly once; Resolve itself never retries.
func (e *Engine) Resolve(m *Mission, agent *Agent, detectionEfficiency int) MissionResult {
	success, detection := e.Estimate(m.Type, agent, detectionEfficiency)

	return MissionResult{
		Success:  e.rng.Intn(100) < success,
		Detected: e.rng.Intn(100) < detection,
	}
}

// TerminalState maps a result to the mission's terminal state.
func TerminalState(res MissionResult) MissionState {
	switch {
	case res.Success:
		return MissionCompleted
	case res.Detected:
		return MissionDiscovered
	default:
		return MissionFailed
	}
}

// ComputeEffects produces the typed consequence records for a resolved
// mission: effects the host applies to the target company, plus the
// fallout for the acting agent. The mission-type switch is exhaustive
// over the declared types; an unknown (future) type falls through to the
// documented default of a minor intel effect rather than silently
// producing nothing.
func (e *Engine) ComputeEffects(m *Mission, res MissionResult, agent *Agent) Consequences {
	tun := e.bal.Tuning(m.Type)
	var effects []Effect

	if res.Success {
		switch m.Type {
		case MissionInfoGathering:
			effects = append(effects, Effect{
				Type:    EffectIntel,
				Company: m.Target,
				Key:     m.Objective,
			})

		case MissionTechTheft:
			effects = append(effects,
				Effect{
					Type:    EffectTechLeak,
					Company: m.Target,
					Key:     m.Objective,
				},
				Effect{
					Type:    EffectFinancial,
					Company: m.Target,
					Delta:   -tun.FinancialDamage,
				},
			)

		case MissionSabotage:
			effects = append(effects,
				Effect{
					Type:    EffectFinancial,
					Company: m.Target,
					Delta:   -tun.FinancialDamage,
				},
				Effect{
					Type:    EffectDemand,
					Company: m.Target,
					Key:     m.Objective,
					Delta:   tun.DemandShift,
				},
			)

		case MissionMarketManip:
			effects = append(effects,
				Effect{
					Type:    EffectDemand,
					Company: m.Target,
					Key:     m.Objective,
					Delta:   tun.DemandShift,
				},
				Effect{
					Type:    EffectReputation,
					Company: m.Target,
					Delta:   -tun.ReputationHit,
				},
			)

		default:
			// Unknown mission type. Future types must be added to the
			// switch above; until then they yield a minor intel effect so
			// the resolution is visible instead of a silent no-op.
			effects = append(effects, Effect{
				Type:    EffectIntel,
				Company: m.Target,
				Key:     m.Objective,
			})
		}
	}

	if res.Detected {
		// Exposure hurts the operation's owner: the target knows, and
		// word gets around.
		effects = append(effects, Effect{
			Type:    EffectReputation,
			Company: m.Owner,
			Delta:   -ownerExposurePenalty(tun, res),
		})
	}

	return Consequences{
		Target: effects,
		Agent:  e.agentFallout(res, agent, m),
	}
}

// ownerExposurePenalty scales the reputational damage of getting caught.
// A Discovered result (failure plus exposure) stings twice as hard.
func ownerExposurePenalty(tun MissionTuning, res MissionResult) int {
	penalty := tun.ReputationHit + 2
	if !res.Success {
		penalty *= 2
	}
	return penalty
}

// agentFallout computes the acting agent's consequences: experience for
// the attempt, notoriety when detected, recovery time, and capture for a
// Discovered result that pushes notoriety over the configured threshold.
// Loyal agents resist capture (interrogations go nowhere); the threshold
// shifts by LoyaltyCaptureWeight per loyalty point from the midpoint.
func (e *Engine) agentFallout(res MissionResult, agent *Agent, m *Mission) AgentConsequences {
	cons := AgentConsequences{
		ExperienceGain: m.EstimatedDuration * 2,
	}
	if res.Success {
		cons.ExperienceGain += 10
	}

	if !res.Detected {
		cons.NotorietyGain = 2
		return cons
	}

	if res.Success {
		// Completed but detected.
		cons.NotorietyGain = 15
		cons.RecoveryDays = e.bal.DetectedRecoveryDays
		return cons
	}

	// Discovered.
	cons.NotorietyGain = 25
	cons.RecoveryDays = e.bal.DiscoveredRecoveryDays

	threshold := e.bal.CaptureNotorietyThreshold + (agent.Loyalty-3)*e.bal.LoyaltyCaptureWeight
	if agent.Notoriety+cons.NotorietyGain >= threshold {
		cons.Captured = true
		cons.RecoveryDays = e.bal.CaptureRecoveryDays
	}
	return cons
}
