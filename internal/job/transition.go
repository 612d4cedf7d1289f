package job

// Advance returns the status a job moves to when its action button is
// clicked. Completed regresses to InProgress; nothing advances into Stopped
// or NeedToStart.
func Advance(s Status) Status {
	switch s {
	case StatusNeedToStart, StatusStopped:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// StatusForColumn maps a drop destination to the status it assigns. The
// second result is false for a destination that is not a board column.
func StatusForColumn(droppableID string) (Status, bool) {
	for _, s := range Statuses {
		if droppableID == string(s) {
			return s, true
		}
	}
	return "", false
}

// ActionLabel is the caption of the advance button for a job in status s.
func ActionLabel(s Status) string {
	switch s {
	case StatusInProgress:
		return "Complete"
	case StatusCompleted:
		return "Mark as Incomplete"
	default:
		return "Start Job"
	}
}
