package board

import "github.com/CharanSaiVaddi/jobboard-backend/internal/job"

// Column is the derived view of one status: its visible jobs in storage order.
type Column struct {
	Status job.Status `json:"status"`
	Jobs   []job.Job  `json:"jobs"`
}

func (b *Board) Column(s job.Status) Column {
	return columnOf(b.Visible(), s)
}

// Columns returns every status column in board order.
func (b *Board) Columns() []Column {
	visible := b.Visible()
	cols := make([]Column, 0, len(job.Statuses))
	for _, s := range job.Statuses {
		cols = append(cols, columnOf(visible, s))
	}
	return cols
}

func columnOf(jobs []job.Job, s job.Status) Column {
	col := Column{Status: s, Jobs: []job.Job{}}
	for _, j := range jobs {
		if j.Status == s {
			col.Jobs = append(col.Jobs, j)
		}
	}
	return col
}
