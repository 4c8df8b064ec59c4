/*
Package espionage
File: models.go
Description:
    Defines all data structures (Structs) and closed enums used by the
    corporate espionage simulation. This file serves as the "schema" for
    the subsystem, mapping directly to YAML configuration and JSON API
    responses.

    No logic is performed here beyond small state predicates; this file is
    strictly for type definitions.
*/

package espionage

// MissionType classifies a covert operation.
type MissionType string

const (
	MissionInfoGathering MissionType = "info_gathering"      // Spy on prices, stock, plans
	MissionTechTheft     MissionType = "tech_theft"          // Steal a technology blueprint
	MissionSabotage      MissionType = "sabotage"            // Damage production capacity
	MissionMarketManip   MissionType = "market_manipulation" // Distort demand for a product
)

// MissionTypes lists every valid mission type, in a fixed order.
var MissionTypes = []MissionType{
	MissionInfoGathering,
	MissionTechTheft,
	MissionSabotage,
	MissionMarketManip,
}

// Valid reports whether t is one of the known mission types.
func (t MissionType) Valid() bool {
	for _, k := range MissionTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Specialization is an agent's field of expertise. It mirrors the mission
// types plus a jack-of-all-trades option.
type Specialization string

const (
	SpecInfoGathering Specialization = "info_gathering"
	SpecTechTheft     Specialization = "tech_theft"
	SpecSabotage      Specialization = "sabotage"
	SpecMarketManip   Specialization = "market_manipulation"
	SpecGeneralist    Specialization = "generalist"
)

// Specializations lists every valid specialization, in a fixed order.
// Candidate generation draws from this slice, so the order matters for
// seeded reproducibility.
var Specializations = []Specialization{
	SpecInfoGathering,
	SpecTechTheft,
	SpecSabotage,
	SpecMarketManip,
	SpecGeneralist,
}

// Matches reports whether the specialization lines up with a mission type.
// A Generalist matches nothing; it gets its own (smaller) bonus instead.
func (s Specialization) Matches(t MissionType) bool {
	return string(s) == string(t)
}

// AgentState is the lifecycle state of an espionage agent.
type AgentState string

const (
	AgentAvailable  AgentState = "available"   // Idle, can be assigned
	AgentOnMission  AgentState = "on_mission"  // Locked to exactly one mission
	AgentRecovering AgentState = "recovering"  // Laying low for RecoveryDays
	AgentCaptured   AgentState = "captured"    // Caught by the target company
	AgentRetired    AgentState = "retired"     // Terminal, manual action
)

// MissionState is the lifecycle state of a mission.
type MissionState string

const (
	MissionPlanning   MissionState = "planning"
	MissionInProgress MissionState = "in_progress"
	MissionCompleted  MissionState = "completed"
	MissionFailed     MissionState = "failed"
	MissionDiscovered MissionState = "discovered" // Failed AND detected: heaviest fallout
	MissionCancelled  MissionState = "cancelled"
)

// Terminal reports whether no further transition ever leaves this state.
func (s MissionState) Terminal() bool {
	switch s {
	case MissionCompleted, MissionFailed, MissionDiscovered, MissionCancelled:
		return true
	}
	return false
}

// Agent represents a hireable covert operative.
type Agent struct {
	ID             string         `json:"id"`              // Runtime ID (e.g., "AGT-0042")
	Name           string         `json:"name"`            // Display name / cover identity
	Specialization Specialization `json:"specialization"`  // Field of expertise
	Skill          int            `json:"skill"`           // 1-5, drives success probability
	Loyalty        int            `json:"loyalty"`         // 1-5, modifier for capture/defection risk
	MonthlyCost    int            `json:"monthly_cost"`    // Credits per month, correlated with skill
	Experience     int            `json:"experience"`      // Accumulated, grows with missions run
	Notoriety      int            `json:"notoriety"`       // 0-100, grows with detected missions
	State          AgentState     `json:"state"`           // Current lifecycle state
	RecoveryDays   int            `json:"recovery_days"`   // Days left while Recovering/Captured
	MissionID      string         `json:"mission_id"`      // Active mission, empty unless OnMission
}

// Mission represents a single covert operation against a rival company.
type Mission struct {
	ID                string       `json:"id"`                  // Runtime ID (e.g., "MIS-0007")
	Type              MissionType  `json:"type"`                // What kind of operation this is
	Owner             string       `json:"owner"`               // Company key running the operation
	Target            string       `json:"target"`              // Company key being targeted
	Objective         string       `json:"objective"`           // Free-form detail (tech id, product key...)
	AgentID           string       `json:"agent_id"`            // Assigned operative
	EstimatedDuration int          `json:"estimated_duration"`  // Days, fixed at creation
	Cost              int          `json:"cost"`                // Operation cost in credits
	SuccessChance     int          `json:"success_chance"`      // 0-100, estimate at creation
	DetectionChance   int          `json:"detection_chance"`    // 0-100, estimate at creation
	State             MissionState `json:"state"`               // Current lifecycle state
	CreatedDay        int          `json:"created_day"`         // Simulated day of creation
	StartDay          int          `json:"start_day"`           // Simulated day the agent was locked
	ElapsedDays       int          `json:"elapsed_days"`        // Progress while InProgress
	ActualDuration    int          `json:"actual_duration"`     // Set at resolution
	Result            *MissionResult `json:"result,omitempty"`  // Present iff resolved
}

// MissionResult records the outcome of a resolved mission.
// Success and Detected are independent draws, so all four combinations
// are possible; the terminal state encodes the pairing.
type MissionResult struct {
	Success  bool     `json:"success"`
	Detected bool     `json:"detected"`
	Effects  []Effect `json:"effects"` // Typed deltas for the host to apply
}

// EffectType classifies a consequence handed outward to the host game.
type EffectType string

const (
	EffectReputation EffectType = "reputation" // Delta to a company's public reputation
	EffectDemand     EffectType = "demand"     // Delta to product demand
	EffectTechLeak   EffectType = "tech_leak"  // Key carries the stolen technology id
	EffectFinancial  EffectType = "financial"  // Delta to company funds (negative = loss)
	EffectIntel      EffectType = "intel"      // Key carries the intelligence subject
)

// Effect is a typed key/value delta the host applies to its own economic
// and reputation state. The espionage core never applies these itself.
type Effect struct {
	Type    EffectType `json:"type"`
	Company string     `json:"company"`         // Affected company key
	Key     string     `json:"key,omitempty"`   // Subject (tech id, product key...)
	Delta   int        `json:"delta,omitempty"` // Magnitude, sign included
}

// AgentConsequences are the fallout applied to the acting agent at
// resolution time. The Mission Lifecycle Manager feeds these into the
// roster's transition call; nothing else writes agent state.
type AgentConsequences struct {
	ExperienceGain int  `json:"experience_gain"`
	NotorietyGain  int  `json:"notoriety_gain"`
	RecoveryDays   int  `json:"recovery_days"` // 0 = straight back to Available
	Captured       bool `json:"captured"`      // Discovered + notoriety over threshold
}

// Consequences bundles everything compute_effects produces for one
// resolved mission.
type Consequences struct {
	Target []Effect          `json:"target"`
	Agent  AgentConsequences `json:"agent"`
}

// DefenseProfile is a company's counter-espionage posture. One exists per
// targetable company; a default is created lazily on first access.
type DefenseProfile struct {
	Company       string     `json:"company"`
	SecurityLevel int        `json:"security_level"` // 1-5
	Budget        int        `json:"budget"`         // Monthly, credits
	Personnel     int        `json:"personnel"`      // Assigned security staff
	Technologies  []string   `json:"technologies"`   // Adopted security tech ids
	Incidents     []Incident `json:"incidents"`      // Detected-espionage history
}

// Incident is a detected espionage attempt, kept for UI/history only.
// It deliberately does not feed back into detection efficiency.
type Incident struct {
	ID        string      `json:"id"` // UUID; history records need no replay determinism
	Day       int         `json:"day"`
	MissionID string      `json:"mission_id"`
	Type      MissionType `json:"type"`
	Foiled    bool        `json:"foiled"` // true when the mission also failed (Discovered)
}

// Company is a rival corporation loaded from the balance file. The
// espionage core only needs keys and display names; everything economic
// about a company lives in the host game.
type Company struct {
	Key  string `yaml:"key" json:"key"`
	Name string `yaml:"name" json:"name"`
}

// TickReport summarizes one simulated day for the host: which missions
// resolved, with what effects, and which agents came back from recovery.
type TickReport struct {
	Day       int                `json:"day"`
	Resolved  []ResolvedMission  `json:"resolved,omitempty"`
	Recovered []string           `json:"recovered,omitempty"` // Agent IDs back to Available
}

// ResolvedMission pairs a freshly terminal mission with the consequences
// computed for it, ready for the host to apply and broadcast.
type ResolvedMission struct {
	Mission      Mission           `json:"mission"`
	Consequences AgentConsequences `json:"agent_consequences"`
	Effects      []Effect          `json:"effects"`
}
