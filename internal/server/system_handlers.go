package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/database"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/scheduler"
)

// SystemHandlers handles system-wide monitoring and operations endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	startupTime time.Time
	goalsDB     *database.DB
	optimizerDB *database.DB
	cacheDB     *database.DB
	refreshJob  scheduler.Job
	scheduler   *scheduler.Scheduler
}

// NewSystemHandlers creates new system handlers
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	goalsDB *database.DB,
	optimizerDB *database.DB,
	cacheDB *database.DB,
	refreshJob scheduler.Job,
	sched *scheduler.Scheduler,
) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		dataDir:     dataDir,
		startupTime: time.Now(),
		goalsDB:     goalsDB,
		optimizerDB: optimizerDB,
		cacheDB:     cacheDB,
		refreshJob:  refreshJob,
		scheduler:   sched,
	}
}

// HandleLiveness handles GET /health
func (h *SystemHandlers) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleSystemHealth handles GET /api/system/health
func (h *SystemHandlers) HandleSystemHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	databases := map[string]string{}
	healthy := true
	for _, db := range []*database.DB{h.goalsDB, h.optimizerDB, h.cacheDB} {
		if err := db.HealthCheck(ctx); err != nil {
			databases[db.Name()] = err.Error()
			healthy = false
		} else {
			databases[db.Name()] = "ok"
		}
	}

	cpuAvg, memUsed := h.systemUsage()

	status := http.StatusOK
	statusText := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		statusText = "degraded"
	}

	h.writeJSON(w, status, map[string]any{
		"status":         statusText,
		"uptime_seconds": int(time.Since(h.startupTime).Seconds()),
		"data_dir":       h.dataDir,
		"databases":      databases,
		"cpu_percent":    cpuAvg,
		"memory_percent": memUsed,
	})
}

// HandleTriggerRefresh handles POST /api/system/refresh
func (h *SystemHandlers) HandleTriggerRefresh(w http.ResponseWriter, r *http.Request) {
	h.log.Info().Msg("Manual optimization refresh triggered")

	if err := h.scheduler.RunNow(h.refreshJob); err != nil {
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// systemUsage returns average CPU and memory usage percentages. A short CPU
// sampling window keeps the endpoint responsive for pollers.
func (h *SystemHandlers) systemUsage() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuPercent[0], 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
