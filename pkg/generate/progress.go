package generate

import "github.com/charmbracelet/log"

// Progress is called after every bind (or merge) with the number completed
// so far and the number expected.
type Progress func(done, total int)

// NoProgress ignores all updates.
func NoProgress(int, int) {}

// LogProgress reports completion through l each time it crosses another
// step percent, and once more when the run completes.
func LogProgress(l *log.Logger, name string, step int) Progress {
	if step <= 0 {
		step = 10
	}
	last := 0
	return func(done, total int) {
		if total <= 0 {
			return
		}
		if done >= total {
			if last < 100 {
				last = 100
				l.Info(name+" finished", "done", done, "total", total)
			}
			return
		}
		percent := done * 100 / total
		if percent < last+step {
			return
		}
		last = percent - percent%step
		l.Info(name, "percent", last, "done", done, "total", total)
	}
}

// tracker caps reported progress at its total.
type tracker struct {
	total    int
	current  int
	progress Progress
}

func newTracker(total int, p Progress) *tracker {
	return &tracker{total: total, progress: p}
}

func (t *tracker) iterate() int {
	if t.current >= t.total {
		return t.total
	}
	t.current++
	t.progress(t.current, t.total)
	return t.current
}
