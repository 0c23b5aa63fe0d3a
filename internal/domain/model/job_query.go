package model

import "strings"

// JobFilter groups optional filters for listing jobs. The zero value matches
// every job. Results are always ordered by insertion (job id).
type JobFilter struct {
	Status    *JobStatus // Optional filter by status (open, closed, cancelled, expired)
	MinReward *uint64    // Optional inclusive lower bound on reward
	MaxReward *uint64    // Optional inclusive upper bound on reward
	Search    string     // Optional free-text search over title and description
	Limit     int        // Pagination limit (0 means no limit)
	Offset    int        // Pagination offset
}

// Matches reports whether the job passes every set filter.
func (f *JobFilter) Matches(j *Job) bool {
	if f.Status != nil && j.Status != *f.Status {
		return false
	}
	if f.MinReward != nil && j.Reward < *f.MinReward {
		return false
	}
	if f.MaxReward != nil && j.Reward > *f.MaxReward {
		return false
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		haystack := strings.ToLower(j.Title + " " + j.Description)
		if !strings.Contains(haystack, strings.ToLower(term)) {
			return false
		}
	}
	return true
}
