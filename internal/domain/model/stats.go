package model

// UserStats holds per-actor counters. Strictly derived: always
// reconstructable by folding the event log from empty state.
type UserStats struct {
	Actor                 string `json:"actor"`
	JobsCreated           int    `json:"jobs_created"`
	ApplicationsSubmitted int    `json:"applications_submitted"`
	JobsWon               int    `json:"jobs_won"`
	TotalEarned           uint64 `json:"total_earned"`
}

// PlatformStats holds platform-wide counters with the same derivability
// guarantee as UserStats.
type PlatformStats struct {
	TotalJobs               int    `json:"total_jobs"`
	TotalApplications       int    `json:"total_applications"`
	TotalRewardsDistributed uint64 `json:"total_rewards_distributed"`
	ActiveJobsCount         int    `json:"active_jobs_count"`
}
