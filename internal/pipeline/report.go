package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-alpha/internal/logger"
	"github.com/rxtech-lab/argo-alpha/internal/metrics"
	"go.uber.org/zap"
)

// Removal reasons recorded in a Report and used as metric labels.
const (
	ReasonSparse  = "sparse"
	ReasonDubious = "dubious_return"
)

// Report records what a pipeline run removed and what it produced.
type Report struct {
	RunID         uuid.UUID
	Instruments   []string
	RemovedAssets map[string][]string
	RemovedDays   []time.Time
	Rows          int
	Columns       []string
	ReturnRows    int
}

func newReport(instruments []string) Report {
	return Report{
		RunID:         uuid.New(),
		Instruments:   instruments,
		RemovedAssets: make(map[string][]string),
		RemovedDays:   nil,
		Rows:          0,
		Columns:       nil,
		ReturnRows:    0,
	}
}

func (r *Report) removeAssets(reason string, assets []string, log *logger.Logger, m *metrics.Metrics) {
	if len(assets) == 0 {
		return
	}

	r.RemovedAssets[reason] = append(r.RemovedAssets[reason], assets...)

	log.Info("Removed instruments",
		zap.String("run_id", r.RunID.String()),
		zap.String("reason", reason),
		zap.Strings("instruments", assets),
	)

	if m != nil {
		m.AssetsRemoved.WithLabelValues(reason).Add(float64(len(assets)))
	}
}

func (r *Report) removeDays(days []time.Time, log *logger.Logger, m *metrics.Metrics) {
	if len(days) == 0 {
		return
	}

	r.RemovedDays = append(r.RemovedDays, days...)

	dates := make([]string, len(days))
	for i, d := range days {
		dates[i] = d.Format(time.DateOnly)
	}

	log.Info("Removed trading days",
		zap.String("run_id", r.RunID.String()),
		zap.Strings("dates", dates),
	)

	if m != nil {
		m.DaysRemoved.Add(float64(len(days)))
	}
}

// Removed returns every removed instrument, whatever the reason.
func (r Report) Removed() []string {
	var out []string
	for _, reason := range []string{ReasonSparse, ReasonDubious} {
		out = append(out, r.RemovedAssets[reason]...)
	}

	return out
}
