package storage

import (
	"encoding/json"
	"fmt"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/job"
)

// Encode serializes jobs as a flat JSON array of {id, title, status, category?}.
func Encode(jobs []job.Job) ([]byte, error) {
	if jobs == nil {
		jobs = []job.Job{}
	}
	return json.Marshal(jobs)
}

// Decode parses a blob written by Encode. Records saved without a status are
// repaired to Need to Start; duplicate ids are rejected.
func Decode(blob []byte) ([]job.Job, error) {
	var jobs []job.Job
	if err := json.Unmarshal(blob, &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	if jobs == nil {
		jobs = []job.Job{}
	}
	for i := range jobs {
		if jobs[i].Status == "" {
			jobs[i].Status = job.StatusNeedToStart
		}
	}
	if err := job.CheckSequence(jobs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return jobs, nil
}
