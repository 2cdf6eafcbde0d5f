package period

import "time"

// ResolveCurrent picks, from the start dates of a series' existing
// instances, the one whose period contains now. It returns the index
// into starts, or -1 together with the canonical start date a new
// instance must be created with.
//
// When two instances' periods both contain now (the overlap case the
// schema should rule out), the most recently started one wins.
// Resolution has no side effects and is idempotent: the same starts
// and clock always yield the same answer.
func ResolveCurrent(f Frequency, starts []time.Time, now time.Time) (int, time.Time) {
	today := Date(now)
	todayStart := f.Start(today)

	best := -1
	for i, s := range starts {
		ps := f.Start(s)
		pe := f.End(ps)
		if today.Before(ps) || today.After(pe) {
			continue
		}
		if best == -1 || Date(starts[i]).After(Date(starts[best])) {
			best = i
		}
	}
	if best >= 0 {
		return best, Date(starts[best])
	}

	// Fall back on an exact canonical-start match before deciding a
	// new instance is needed.
	for i, s := range starts {
		if Date(s).Equal(todayStart) {
			return i, todayStart
		}
	}
	return -1, todayStart
}

// WindowContains reports whether an action item is active for the
// instance whose period begins at instanceStart: it was created no
// later than the period's end and either is still open or was
// completed no earlier than the period's start. An open item therefore
// stays visible on every following instance until it is completed.
func WindowContains(f Frequency, instanceStart, createdAt time.Time, completedAt *time.Time) bool {
	ps := f.Start(instanceStart)
	pe := f.End(ps)
	if Date(createdAt).After(pe) {
		return false
	}
	if completedAt == nil {
		return true
	}
	return !Date(*completedAt).Before(ps)
}
