package board

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/job"
)

var ErrUnknownColumn = errors.New("board: unknown column")

// Location is one end of a drag: a column and a slot within it.
type Location struct {
	DroppableID string `json:"droppableId"`
	Index       int    `json:"index"`
}

// DragResult is the drag-end event a drag host delivers. Destination is nil
// when the job was dropped outside every column. DraggableID is the job id
// rendered as a string.
type DragResult struct {
	Source      Location  `json:"source"`
	Destination *Location `json:"destination"`
	DraggableID string    `json:"draggableId"`
}

// ReconcileDrag moves the dragged job into the destination column. The job
// always goes to the end of the sequence; the destination index only matters
// for detecting a drop back into the same slot.
func (b *Board) ReconcileDrag(ctx context.Context, r DragResult) (Outcome, error) {
	if r.Destination == nil {
		return Ignored, nil
	}
	if r.Source.DroppableID == r.Destination.DroppableID && r.Source.Index == r.Destination.Index {
		return Ignored, nil
	}

	id, err := strconv.Atoi(strings.TrimSpace(r.DraggableID))
	if err != nil {
		return NotFound, nil
	}
	i := b.index(id)
	if i < 0 {
		return NotFound, nil
	}

	status, ok := job.StatusForColumn(r.Destination.DroppableID)
	if !ok {
		return Ignored, fmt.Errorf("%w: %q", ErrUnknownColumn, r.Destination.DroppableID)
	}

	moved := b.jobs[i]
	moved.Status = status
	next := make([]job.Job, 0, len(b.jobs))
	next = append(next, b.jobs[:i]...)
	next = append(next, b.jobs[i+1:]...)
	next = append(next, moved)
	if err := b.commit(ctx, next); err != nil {
		return NotFound, err
	}
	b.log.WithFields(logrus.Fields{
		"job_id": id,
		"from":   r.Source.DroppableID,
		"status": status,
	}).Debug("job dragged")
	return Applied, nil
}
