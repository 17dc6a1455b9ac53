package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/climrisk/internal/database"
	"github.com/aristath/climrisk/internal/scheduler"
)

// SystemHandlers serves health and status endpoints and manual job triggers.
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	portfolioDB *database.DB
	hazardDB    *database.DB
	cacheDB     *database.DB
	sched       *scheduler.Scheduler
	reportJob   scheduler.Job
	startTime   time.Time
}

// NewSystemHandlers creates system handlers. sched and reportJob may be nil
// when the scheduler is disabled.
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	portfolioDB, hazardDB, cacheDB *database.DB,
	sched *scheduler.Scheduler,
	reportJob scheduler.Job,
) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dataDir:     dataDir,
		portfolioDB: portfolioDB,
		hazardDB:    hazardDB,
		cacheDB:     cacheDB,
		sched:       sched,
		reportJob:   reportJob,
		startTime:   time.Now(),
	}
}

// HandleHealth handles GET /health and GET /api/system/health
//
// Pings every database; any failure degrades the overall status to
// "unhealthy" with a 503.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	for name, db := range map[string]*database.DB{
		"portfolio_db": h.portfolioDB,
		"hazard_db":    h.hazardDB,
		"cache_db":     h.cacheDB,
	} {
		if db == nil {
			checks[name] = "not configured"
			continue
		}
		if err := db.Conn().Ping(); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	h.writeJSON(w, status, map[string]interface{}{
		"status":    overall,
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	})
}

// HandleStatus handles GET /api/system/status
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cpuAvg, ramPct := h.getSystemStats()

	diskInfo := map[string]interface{}{}
	if usage, err := disk.Usage(h.dataDir); err == nil {
		diskInfo["used_percent"] = usage.UsedPercent
		diskInfo["free_mb"] = float64(usage.Free) / 1024 / 1024
	} else {
		h.log.Warn().Err(err).Str("dir", h.dataDir).Msg("Failed to read disk usage")
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"uptime_seconds": time.Since(h.startTime).Seconds(),
		"goroutines":     runtime.NumGoroutine(),
		"cpu_percent":    cpuAvg,
		"ram_percent":    ramPct,
		"disk":           diskInfo,
		"data_dir":       h.dataDir,
	})
}

// HandleTriggerReportRefresh handles POST /api/jobs/report-refresh
//
// Runs the nightly report refresh immediately. The build is synchronous, so
// this route sits behind the report timeout group.
func (h *SystemHandlers) HandleTriggerReportRefresh(w http.ResponseWriter, r *http.Request) {
	if h.sched == nil || h.reportJob == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "Report refresh job not registered",
		})
		return
	}

	h.log.Info().Msg("Manual report refresh triggered")

	if err := h.sched.RunNow(h.reportJob); err != nil {
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a 100ms CPU sampling interval to keep the status call responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
