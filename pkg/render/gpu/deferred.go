package gpu

// Deferred holds at most one task to run once the host's layout pass has
// settled. Scheduling a new task replaces the pending one.
type Deferred struct {
	pending func()
}

// Schedule replaces the pending task with fn.
func (d *Deferred) Schedule(fn func()) { d.pending = fn }

// Pending reports whether a task is waiting.
func (d *Deferred) Pending() bool { return d.pending != nil }

// Flush runs the pending task, if any, and reports whether one ran.
func (d *Deferred) Flush() bool {
	fn := d.pending
	d.pending = nil
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Cancel drops the pending task.
func (d *Deferred) Cancel() { d.pending = nil }
