/*
Package main
File: handlers.go
Description: HTTP handlers for the espionage API. Thin command/query
wrappers around the espionage facade; every call is serialized through
simMu. Error kinds map to HTTP statuses so the browser UI can show an
actionable notification.
*/

package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/everforgeworks/ecotycoon-server/internal/espionage"
)

type agentRequest struct {
	AgentID string `json:"agent_id"`
}

type missionRequest struct {
	MissionID string `json:"mission_id"`
}

type estimateRequest struct {
	Type    espionage.MissionType `json:"type"`
	AgentID string                `json:"agent_id"`
	Target  string                `json:"target"`
}

type configureDefenseRequest struct {
	Company       string   `json:"company"`
	SecurityLevel int      `json:"security_level"`
	Budget        int      `json:"budget"`
	Personnel     int      `json:"personnel"`
	Technologies  []string `json:"technologies"`
}

// writeJSON is the standard success response.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError translates the espionage error taxonomy into HTTP statuses:
// unknown ids are 404, lifecycle conflicts are 409, bad values are 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, espionage.ErrNotFound), errors.Is(err, espionage.ErrInvalidTarget):
		status = http.StatusNotFound
	case errors.Is(err, espionage.ErrInvalidState),
		errors.Is(err, espionage.ErrInvalidTransition),
		errors.Is(err, espionage.ErrInvalidAgent):
		status = http.StatusConflict
	case errors.Is(err, espionage.ErrValidation):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

func handleGetCompanies(w http.ResponseWriter, r *http.Request) {
	simMu.Lock()
	defer simMu.Unlock()
	writeJSON(w, sim.Companies())
}

func handleGetAgents(w http.ResponseWriter, r *http.Request) {
	simMu.Lock()
	defer simMu.Unlock()
	writeJSON(w, sim.Agents())
}

func handleGetCandidates(w http.ResponseWriter, r *http.Request) {
	simMu.Lock()
	defer simMu.Unlock()
	writeJSON(w, sim.Candidates())
}

func handleHireAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	simMu.Lock()
	defer simMu.Unlock()

	agent, err := sim.HireAgent(req.AgentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, agent)
}

func handleDismissAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	simMu.Lock()
	defer simMu.Unlock()

	if err := sim.DismissAgent(req.AgentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"dismissed": req.AgentID})
}

func handleRetireAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	simMu.Lock()
	defer simMu.Unlock()

	if err := sim.RetireAgent(req.AgentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"retired": req.AgentID})
}

// handleGetMissions serves the mission list views. Exactly one filter is
// honored, in this order: ?state=, ?agent=, ?target=.
func handleGetMissions(w http.ResponseWriter, r *http.Request) {
	simMu.Lock()
	defer simMu.Unlock()

	q := r.URL.Query()
	switch {
	case q.Get("state") != "":
		writeJSON(w, sim.MissionsByState(espionage.MissionState(q.Get("state"))))
	case q.Get("agent") != "":
		writeJSON(w, sim.MissionsForAgent(q.Get("agent")))
	case q.Get("target") != "":
		writeJSON(w, sim.MissionsForTarget(q.Get("target")))
	default:
		// No filter: active operations are what the dashboard wants.
		writeJSON(w, sim.MissionsByState(espionage.MissionInProgress))
	}
}

func handleCreateMission(w http.ResponseWriter, r *http.Request) {
	var params espionage.CreateMissionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	simMu.Lock()
	defer simMu.Unlock()

	mission, err := sim.CreateMission(params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, mission)
}

func handleStartMission(w http.ResponseWriter, r *http.Request) {
	var req missionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	simMu.Lock()
	defer simMu.Unlock()

	if err := sim.StartMission(req.MissionID); err != nil {
		writeError(w, err)
		return
	}
	mission, _ := sim.Mission(req.MissionID)
	writeJSON(w, mission)
}

func handleCancelMission(w http.ResponseWriter, r *http.Request) {
	var req missionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	simMu.Lock()
	defer simMu.Unlock()

	if err := sim.CancelMission(req.MissionID); err != nil {
		writeError(w, err)
		return
	}
	mission, _ := sim.Mission(req.MissionID)
	writeJSON(w, mission)
}

// handleEstimateMission previews success/detection chances for a draft so
// the player can judge an operation before paying for it.
func handleEstimateMission(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	simMu.Lock()
	defer simMu.Unlock()

	success, detection, err := sim.EstimateMission(req.Type, req.AgentID, req.Target)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]int{
		"success_chance":   success,
		"detection_chance": detection,
	})
}

func handleGetDefense(w http.ResponseWriter, r *http.Request) {
	simMu.Lock()
	defer simMu.Unlock()

	company := r.URL.Query().Get("company")
	profile, err := sim.DefenseProfile(company)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{
		"profile":              profile,
		"detection_efficiency": sim.DetectionEfficiency(company),
	})
}

func handleConfigureDefense(w http.ResponseWriter, r *http.Request) {
	var req configureDefenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	simMu.Lock()
	defer simMu.Unlock()

	if err := sim.ConfigureDefense(req.Company, req.SecurityLevel, req.Budget, req.Personnel, req.Technologies); err != nil {
		writeError(w, err)
		return
	}
	profile, _ := sim.DefenseProfile(req.Company)
	writeJSON(w, profile)
}
