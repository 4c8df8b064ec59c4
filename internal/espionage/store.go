/*
Package espionage
File: store.go
Description:
    The in-memory record store for the espionage simulation. All agent,
    candidate, mission and defense records live in arena-style maps keyed
    by generated ids. The store is owned by the facade and passed by
    reference to each component; there is no package-level state.

    Persistence is the host's concern: the maps hold plain structs that
    marshal cleanly if the host chooses to snapshot them.
*/

package espionage

import (
	"fmt"
	"sort"
)

// Store holds every record the simulation owns.
type Store struct {
	Agents     map[string]*Agent         // Hired roster, keyed by agent id
	Candidates map[string]*Agent         // Hireable pool, keyed by agent id
	Missions   map[string]*Mission       // All missions ever created, keyed by mission id
	Profiles   map[string]*DefenseProfile // Counter-espionage posture per company

	agentSeq   int
	missionSeq int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Agents:     make(map[string]*Agent),
		Candidates: make(map[string]*Agent),
		Missions:   make(map[string]*Mission),
		Profiles:   make(map[string]*DefenseProfile),
	}
}

// NextAgentID mints a sequential agent id. Sequence ids (not UUIDs) keep
// a seeded run byte-for-byte reproducible.
func (s *Store) NextAgentID() string {
	s.agentSeq++
	return fmt.Sprintf("AGT-%04d", s.agentSeq)
}

// NextMissionID mints a sequential mission id. Ascending ids double as
// the deterministic advance order for the daily tick.
func (s *Store) NextMissionID() string {
	s.missionSeq++
	return fmt.Sprintf("MIS-%04d", s.missionSeq)
}

// sortedKeys returns the map's keys in ascending order. Go map iteration
// is randomized; every read path that surfaces records, and every write
// path that consumes entropy, walks keys through this helper so seeded
// runs stay reproducible.
func sortedKeys[V any](m map[string]*V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
