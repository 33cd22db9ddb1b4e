package player

import "github.com/lumilearn/lumilearn-api/internal/models"

// Session holds the in-memory state of one active playback of one media item.
// It lives for exactly one mounted player and is reset whenever the
// underlying media identifier changes. The session stays authoritative for
// the live playback even when durable writes fail.
type Session struct {
	MediaID     string
	CurrentTime float64
	Duration    float64
	IsPlaying   bool

	displayed map[uint]struct{}
	answered  map[uint]struct{}
	pending   *models.Checkpoint
	saved     map[uint]models.AnswerMap
}

// NewSession constructs a fresh session for the given media item.
func NewSession(mediaID string, duration float64) *Session {
	s := &Session{}
	s.Reset(mediaID, duration)
	return s
}

// Reset discards all per-media state and rebinds the session to a new media
// identifier. Saved answers are dropped along with everything else; they only
// survive seeks within one media item, never a media change.
func (s *Session) Reset(mediaID string, duration float64) {
	s.MediaID = mediaID
	s.CurrentTime = 0
	s.Duration = duration
	s.IsPlaying = false
	s.displayed = make(map[uint]struct{})
	s.answered = make(map[uint]struct{})
	s.pending = nil
	s.saved = make(map[uint]models.AnswerMap)
}

// Pending returns the checkpoint currently awaiting resolution, if any.
func (s *Session) Pending() *models.Checkpoint {
	return s.pending
}

// SetPending marks a checkpoint as the single active one. Only one checkpoint
// may be pending at a time; the scheduler's no-op rule enforces this.
func (s *Session) SetPending(cp *models.Checkpoint) {
	s.pending = cp
}

// ClearPending releases the active checkpoint slot.
func (s *Session) ClearPending() {
	s.pending = nil
}

// IsDisplayed reports whether the checkpoint has fired during the current
// forward reach of the session.
func (s *Session) IsDisplayed(id uint) bool {
	_, ok := s.displayed[id]
	return ok
}

// MarkDisplayed records that a checkpoint has fired.
func (s *Session) MarkDisplayed(id uint) {
	s.displayed[id] = struct{}{}
}

// Undisplay makes a checkpoint eligible to fire again after a backward seek.
// Saved answers for it are intentionally retained.
func (s *Session) Undisplay(id uint) {
	delete(s.displayed, id)
}

// IsAnswered reports whether the checkpoint has been resolved.
func (s *Session) IsAnswered(id uint) bool {
	_, ok := s.answered[id]
	return ok
}

// MarkAnswered records that a checkpoint has been resolved.
func (s *Session) MarkAnswered(id uint) {
	s.answered[id] = struct{}{}
}

// ClearAnswered removes a checkpoint from the answered set. Called when a
// previously resolved checkpoint re-fires after a backward seek.
func (s *Session) ClearAnswered(id uint) {
	delete(s.answered, id)
}

// SaveAnswers retains the user's selections for a checkpoint so a re-fired
// interaction can be pre-populated.
func (s *Session) SaveAnswers(id uint, answers models.AnswerMap) {
	if len(answers) == 0 {
		return
	}
	s.saved[id] = answers
}

// SavedAnswers returns previously retained selections for a checkpoint, or
// nil when none exist.
func (s *Session) SavedAnswers(id uint) models.AnswerMap {
	return s.saved[id]
}

// ProgressPercent reports how far playback has advanced through the media
// item, for the UI progress indicator.
func (s *Session) ProgressPercent() float64 {
	if s.Duration <= 0 {
		return 0
	}
	percent := s.CurrentTime / s.Duration * 100
	if percent > 100 {
		percent = 100
	}
	return percent
}
