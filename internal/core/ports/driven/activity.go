package driven

// ActivityHold marks periods of urgent work so the process lifecycle does
// not idle-exit while a request is pending.
// Every Hold is balanced by exactly one Release.
type ActivityHold interface {
	// Hold marks the start of pending work.
	Hold()

	// Release marks the end of pending work.
	Release()
}
