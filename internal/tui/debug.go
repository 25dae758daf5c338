package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/pacer/internal/projection"
	"github.com/javiermolinar/pacer/internal/schedule"
)

// DebugLogger logs tracker state, keystrokes, and events to a file.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "pacer-debug.log"

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	return initDebugLoggerAt(enabled, DebugLogPath)
}

func initDebugLoggerAt(enabled bool, logPath string) error {
	if !enabled {
		debugLog = &DebugLogger{enabled: false}
		return nil
	}

	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugLog = &DebugLogger{
		file:    f,
		enabled: true,
	}

	debugLog.log("DEBUG_START", map[string]any{
		"log_file": logPath,
		"time":     time.Now().Format(time.RFC3339),
	})

	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugLog != nil && debugLog.file != nil {
		debugLog.log("DEBUG_END", map[string]any{
			"time": time.Now().Format(time.RFC3339),
		})
		_ = debugLog.file.Close()
		debugLog.file = nil
	}
}

// log writes a structured log entry.
func (d *DebugLogger) log(event string, data map[string]any) {
	if d == nil || !d.enabled || d.file == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(d.file, "%s\n", b)
}

func debugEnabled() bool {
	return debugLog != nil && debugLog.enabled
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if !debugEnabled() {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key": msg.String(),
	})
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	if !debugEnabled() {
		return
	}
	debugLog.log("MODE_CHANGE", map[string]any{
		"from":   from.String(),
		"to":     to.String(),
		"reason": reason,
	})
}

// LogTick logs a forecast refresh.
func LogTick(now time.Time, projected []projection.ProjectedTask) {
	if !debugEnabled() {
		return
	}
	s := projection.Summarize(projected)
	debugLog.log("TICK", map[string]any{
		"now":          now.Format(time.RFC3339),
		"forecast_end": s.ForecastEnd.Format(time.RFC3339),
		"remaining":    s.Remaining,
		"at_risk":      s.AtRisk,
		"late":         s.Late,
	})
}

// LogRecalc logs a schedule recalculation and whether it came through the
// debouncer.
func LogRecalc(start time.Time, r schedule.Result, debounced bool) {
	if !debugEnabled() {
		return
	}
	debugLog.log("RECALC", map[string]any{
		"start":       start.Format(time.RFC3339),
		"end":         r.ScheduleEndTime.Format(time.RFC3339),
		"tasks":       len(r.ScheduledTasks),
		"conflicts":   len(r.Conflicts),
		"interrupted": len(r.Interrupted()),
		"overflow":    r.HasOverflow,
		"debounced":   debounced,
	})
}

// LogError logs an error.
func LogError(context string, err error) {
	if !debugEnabled() {
		return
	}
	debugLog.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}
