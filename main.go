/*
Package main
File: main.go
Description: Server entry point for the EcoTycoon espionage backend.
Initializes the espionage simulation, the real-time WebSocket hub, and
runs the background heartbeat that advances the simulated day.
*/

package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/everforgeworks/ecotycoon-server/internal/espionage"
)

const balancePath = "balance.yaml"

// Declared at the package level so they're accessible to handlers.go.
// simMu serializes every call into the simulation: the engine itself is
// single-threaded by design, so the HTTP handlers and the heartbeat take
// this lock around each facade call.
var (
	simMu   sync.Mutex
	sim     *espionage.Espionage
	gameHub *Hub
)

func main() {
	// 1. Load balance values and the rival-company roster from YAML.
	cfg, err := espionage.LoadConfig(balancePath)
	if err != nil {
		log.Fatalf("Config Fail: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger Fail: %v", err)
	}
	defer logger.Sync()

	// 2. Seed the simulation's single random source. A pinned seed in the
	// balance file gives a fully reproducible run.
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("espionage simulation booting", zap.Int64("seed", seed))

	sim = espionage.New(cfg, rng, logger)

	// 3. Initialize and start the real-time WebSocket hub.
	gameHub = NewHub()
	go gameHub.Run()

	// 4. THE DAY HEARTBEAT
	// One simulated day per interval. Resolved missions and recovered
	// agents are pushed to all connected clients as an espionage pulse.
	go func() {
		day := 0
		ticker := time.NewTicker(time.Duration(cfg.DayLengthSeconds) * time.Second)
		for range ticker.C {
			day++

			simMu.Lock()
			report := sim.Tick(day)
			simMu.Unlock()

			if len(report.Resolved) == 0 && len(report.Recovered) == 0 {
				continue
			}

			msg := map[string]interface{}{
				"type":   "espionage_pulse",
				"report": report,
			}
			jsonBytes, err := json.Marshal(msg)
			if err != nil {
				logger.Error("marshal heartbeat", zap.Error(err))
				continue
			}
			gameHub.broadcast <- jsonBytes

			logger.Info("espionage pulse",
				zap.Int("day", day),
				zap.Int("resolved", len(report.Resolved)),
				zap.Int("recovered", len(report.Recovered)))
		}
	}()

	// 5. Hot-reload logic: SIGHUP re-reads the balance file so tuning
	// (capture policy, thresholds, weights) can change without a restart.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		for {
			<-sigChan
			logger.Info("SIGHUP: reloading balance")
			newCfg, err := espionage.LoadConfig(balancePath)
			if err != nil {
				logger.Error("balance reload failed", zap.Error(err))
				continue
			}
			simMu.Lock()
			sim.UpdateBalance(newCfg.Balance)
			simMu.Unlock()
		}
	}()

	// 6. Setup Router and Handlers.
	mux := http.NewServeMux()

	// Information Endpoints
	mux.HandleFunc("/api/companies", handleGetCompanies)
	mux.HandleFunc("/api/agents", handleGetAgents)
	mux.HandleFunc("/api/agents/candidates", handleGetCandidates)
	mux.HandleFunc("/api/missions", handleGetMissions)
	mux.HandleFunc("/api/defense", handleGetDefense)

	// Action Endpoints
	mux.HandleFunc("/api/agents/hire", handleHireAgent)
	mux.HandleFunc("/api/agents/dismiss", handleDismissAgent)
	mux.HandleFunc("/api/agents/retire", handleRetireAgent)
	mux.HandleFunc("/api/missions/create", handleCreateMission)
	mux.HandleFunc("/api/missions/start", handleStartMission)
	mux.HandleFunc("/api/missions/cancel", handleCancelMission)
	mux.HandleFunc("/api/missions/estimate", handleEstimateMission)
	mux.HandleFunc("/api/defense/configure", handleConfigureDefense)

	// Real-Time WebSocket Endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(gameHub, w, r)
	})

	// 7. Start the Server.
	port := ":8082"
	log.Printf("ECOTYCOON: Espionage Server live on %s", port)
	log.Printf("Real-time Hub: Online")

	if err := http.ListenAndServe(port, corsMiddleware(mux)); err != nil {
		log.Fatal(err)
	}
}

// corsMiddleware lets the browser client talk to the server across domains.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
