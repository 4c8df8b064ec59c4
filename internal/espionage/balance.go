/*
Package espionage
File: balance.go
Description:
    Tuning configuration for the espionage simulation, loaded from YAML.
    These values control the probability model, roster economics and the
    fallout policy (recovery days, capture threshold). None of them are
    hard-coded at call sites; reloading the file retunes a live server.
*/

package espionage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MissionTuning holds the per-mission-type balance knobs.
type MissionTuning struct {
	BaseDays        int `yaml:"base_days" json:"base_days"`               // Baseline duration before skill adjustment
	BaseCost        int `yaml:"base_cost" json:"base_cost"`               // Flat operation cost in credits
	Difficulty      int `yaml:"difficulty" json:"difficulty"`             // Subtracted from success chance
	Noise           int `yaml:"noise" json:"noise"`                       // Added to detection chance (loud operations)
	ReputationHit   int `yaml:"reputation_hit" json:"reputation_hit"`     // Target reputation delta on success
	FinancialDamage int `yaml:"financial_damage" json:"financial_damage"` // Target funds delta on success (positive number)
	DemandShift     int `yaml:"demand_shift" json:"demand_shift"`         // Target demand delta on success
}

// Balance stores the global espionage tuning variables.
type Balance struct {
	// Probability model weights. The specialization bonus must stay well
	// above the generalist bonus: matching specialists are meant to
	// dominate all-else-equal comparisons.
	BaseSuccess         int `yaml:"base_success" json:"base_success"`                 // Starting success chance before modifiers
	SkillWeight         int `yaml:"skill_weight" json:"skill_weight"`                 // Success points per skill level
	SpecializationBonus int `yaml:"specialization_bonus" json:"specialization_bonus"` // Success points for a matching specialist
	GeneralistBonus     int `yaml:"generalist_bonus" json:"generalist_bonus"`         // Success points for a Generalist
	ExperienceCap       int `yaml:"experience_cap" json:"experience_cap"`             // Max success points from experience
	ExperienceDivisor   int `yaml:"experience_divisor" json:"experience_divisor"`     // Missions-worth of XP per success point
	EvasionPerSkill     int `yaml:"evasion_per_skill" json:"evasion_per_skill"`       // Detection points removed per skill level
	SpecEvasionBonus    int `yaml:"spec_evasion_bonus" json:"spec_evasion_bonus"`     // Detection points removed for a matching specialist
	MinChance           int `yaml:"min_chance" json:"min_chance"`                     // Floor for both probabilities
	MaxChance           int `yaml:"max_chance" json:"max_chance"`                     // Ceiling for both probabilities

	// Roster economics.
	BaseMonthlyCost  int `yaml:"base_monthly_cost" json:"base_monthly_cost"`   // Cost of a skill-1 agent
	CostPerSkill     int `yaml:"cost_per_skill" json:"cost_per_skill"`         // Extra cost per skill level above 1
	CostJitter       int `yaml:"cost_jitter" json:"cost_jitter"`               // Random spread on candidate cost
	CandidatePoolMin int `yaml:"candidate_pool_min" json:"candidate_pool_min"` // Tick replenishes the pool below this
	CandidatePoolMax int `yaml:"candidate_pool_max" json:"candidate_pool_max"` // Replenishment target ceiling

	// Mission economics.
	DailyOperationCost int `yaml:"daily_operation_cost" json:"daily_operation_cost"` // Credits per estimated day
	MinMissionDays     int `yaml:"min_mission_days" json:"min_mission_days"`         // Skill can never shorten below this

	// Fallout policy.
	DetectedRecoveryDays   int `yaml:"detected_recovery_days" json:"detected_recovery_days"`     // Lay-low time after a detected success
	DiscoveredRecoveryDays int `yaml:"discovered_recovery_days" json:"discovered_recovery_days"` // Lay-low time after a Discovered result
	CaptureNotorietyThreshold int `yaml:"capture_notoriety_threshold" json:"capture_notoriety_threshold"` // Discovered + notoriety at/above this = capture
	LoyaltyCaptureWeight   int `yaml:"loyalty_capture_weight" json:"loyalty_capture_weight"`     // Threshold shift per loyalty point from the midpoint
	CaptureRecoveryDays    int `yaml:"capture_recovery_days" json:"capture_recovery_days"`       // 0 means capture is permanent
	NotorietyDecayInterval int `yaml:"notoriety_decay_interval" json:"notoriety_decay_interval"` // Days per -1 notoriety, 0 disables

	// Per-mission-type tuning.
	Missions map[MissionType]MissionTuning `yaml:"missions" json:"missions"`
}

// Config is the root structure of 'balance.yaml'. Besides the espionage
// balance it carries the host-facing knobs (heartbeat length, RNG seed)
// and the rival-company roster.
type Config struct {
	DayLengthSeconds int       `yaml:"day_length_seconds" json:"day_length_seconds"` // Real seconds per simulated day
	RandomSeed       int64     `yaml:"random_seed" json:"random_seed"`               // 0 = seed from wall clock
	Balance          Balance   `yaml:"espionage_balance" json:"espionage_balance"`
	Companies        []Company `yaml:"companies" json:"companies"`
}

// DefaultBalance returns the shipped tuning. LoadConfig starts from these
// values, so a sparse YAML file only overrides what it mentions.
func DefaultBalance() Balance {
	return Balance{
		BaseSuccess:         50,
		SkillWeight:         8,
		SpecializationBonus: 25,
		GeneralistBonus:     5,
		ExperienceCap:       10,
		ExperienceDivisor:   5,
		EvasionPerSkill:     3,
		SpecEvasionBonus:    10,
		MinChance:           5,
		MaxChance:           95,

		BaseMonthlyCost:  500,
		CostPerSkill:     400,
		CostJitter:       100,
		CandidatePoolMin: 4,
		CandidatePoolMax: 8,

		DailyOperationCost: 150,
		MinMissionDays:     2,

		DetectedRecoveryDays:      7,
		DiscoveredRecoveryDays:    14,
		CaptureNotorietyThreshold: 60,
		LoyaltyCaptureWeight:      5,
		CaptureRecoveryDays:       60,
		NotorietyDecayInterval:    10,

		Missions: map[MissionType]MissionTuning{
			MissionInfoGathering: {
				BaseDays:        6,
				BaseCost:        1000,
				Difficulty:      10,
				Noise:           0,
				ReputationHit:   0,
				FinancialDamage: 0,
				DemandShift:     0,
			},
			MissionTechTheft: {
				BaseDays:        10,
				BaseCost:        5000,
				Difficulty:      25,
				Noise:           5,
				ReputationHit:   5,
				FinancialDamage: 20000,
				DemandShift:     0,
			},
			MissionSabotage: {
				BaseDays:        8,
				BaseCost:        4000,
				Difficulty:      30,
				Noise:           15,
				ReputationHit:   10,
				FinancialDamage: 35000,
				DemandShift:     -10,
			},
			MissionMarketManip: {
				BaseDays:        12,
				BaseCost:        3000,
				Difficulty:      20,
				Noise:           5,
				ReputationHit:   8,
				FinancialDamage: 10000,
				DemandShift:     -20,
			},
		},
	}
}

// LoadConfig reads the balance file and merges it over the defaults.
// Missing or zero fields keep their default value, so operators can ship
// a file that only pins the knobs they care about.
func LoadConfig(path string) (*Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance file: %w", err)
	}

	cfg := &Config{Balance: DefaultBalance()}
	if err := yaml.Unmarshal(f, cfg); err != nil {
		return nil, fmt.Errorf("parse balance file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults backfills zero values after unmarshalling. Only fields
// where 0 is not a meaningful setting are backfilled; knobs like
// capture_recovery_days keep 0 as an explicit policy value.
func (c *Config) applyDefaults() {
	if c.DayLengthSeconds <= 0 {
		c.DayLengthSeconds = 60
	}

	def := DefaultBalance()
	b := &c.Balance
	if b.BaseSuccess == 0 {
		b.BaseSuccess = def.BaseSuccess
	}
	if b.SkillWeight == 0 {
		b.SkillWeight = def.SkillWeight
	}
	if b.SpecializationBonus == 0 {
		b.SpecializationBonus = def.SpecializationBonus
	}
	if b.ExperienceDivisor == 0 {
		b.ExperienceDivisor = def.ExperienceDivisor
	}
	if b.MaxChance == 0 {
		b.MaxChance = def.MaxChance
	}
	if b.BaseMonthlyCost == 0 {
		b.BaseMonthlyCost = def.BaseMonthlyCost
	}
	if b.MinMissionDays == 0 {
		b.MinMissionDays = def.MinMissionDays
	}
	if b.CaptureNotorietyThreshold == 0 {
		b.CaptureNotorietyThreshold = def.CaptureNotorietyThreshold
	}
	if len(b.Missions) == 0 {
		b.Missions = def.Missions
		return
	}
	// Backfill any mission type the file skipped entirely.
	for _, t := range MissionTypes {
		if _, ok := b.Missions[t]; !ok {
			b.Missions[t] = def.Missions[t]
		}
	}
}

// Tuning returns the balance block for a mission type. Unknown types fall
// back to the info-gathering block so a stale save or a future type never
// dereferences a missing map entry.
func (b *Balance) Tuning(t MissionType) MissionTuning {
	if tun, ok := b.Missions[t]; ok {
		return tun
	}
	return b.Missions[MissionInfoGathering]
}
