package scheduler

// Refresher re-runs the optimization pipeline for all goals.
type Refresher interface {
	RefreshAll() error
}

// RefreshJob keeps gap analyses and milestone progress current without
// waiting for API traffic.
type RefreshJob struct {
	refresher Refresher
}

// NewRefreshJob creates a new optimization refresh job
func NewRefreshJob(refresher Refresher) *RefreshJob {
	return &RefreshJob{refresher: refresher}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "optimization_refresh"
}

// Run executes the refresh
func (j *RefreshJob) Run() error {
	return j.refresher.RefreshAll()
}
