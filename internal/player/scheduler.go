package player

import (
	"math"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// FireWindow is the tolerance in seconds around a checkpoint timestamp within
// which normal forward playback triggers it.
const FireWindow = 0.5

// Decision is the outcome of one scheduler evaluation. At most one checkpoint
// fires per tick; Clamp indicates the current seek must be clamped back to
// the fired checkpoint's timestamp instead of completing to the requested
// target.
type Decision struct {
	Fire      *models.Checkpoint
	Clamp     bool
	Undisplay []uint
}

// Empty reports whether the decision requires no transition at all.
func (d Decision) Empty() bool {
	return d.Fire == nil && len(d.Undisplay) == 0
}

// Evaluate decides, for a single time update from prev to next, whether a
// checkpoint transition must occur. Checkpoints must be sorted ascending by
// timestamp (ties in list order); supplying unsorted input is a programming
// error, not a runtime condition this function recovers from.
//
// While a checkpoint is pending no evaluation happens: the pending slot is
// the engine's sole mutual-exclusion discipline.
func Evaluate(prev, next float64, checkpoints []models.Checkpoint, sess *Session) Decision {
	var d Decision
	if sess.Pending() != nil {
		return d
	}

	if next < prev {
		// Backward seek: everything ahead of the new position becomes
		// eligible to fire again. Saved answers are kept.
		for i := range checkpoints {
			cp := &checkpoints[i]
			if cp.Timestamp > next && sess.IsDisplayed(cp.ID) {
				d.Undisplay = append(d.Undisplay, cp.ID)
			}
		}
		return d
	}

	for i := range checkpoints {
		cp := &checkpoints[i]
		if sess.IsDisplayed(cp.ID) {
			continue
		}
		if math.Abs(next-cp.Timestamp) < FireWindow {
			d.Fire = cp
			return d
		}
		if cp.Timestamp > prev && cp.Timestamp < next {
			// Jumped forward past the checkpoint without passing through
			// its window. It still fires, nearest first, and the seek is
			// clamped to its timestamp. Later skipped checkpoints stay
			// un-displayed until reached.
			d.Fire = cp
			d.Clamp = true
			return d
		}
	}

	return d
}
