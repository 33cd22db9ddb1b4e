package player

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// ProgressUpdate carries one durable playback-progress write.
type ProgressUpdate struct {
	UserID           uint
	VideoID          uint
	CourseID         uint
	MediaID          string
	MinutesWatched   float64
	MinutesRemaining float64
	LastPosition     float64
	Completed        bool
}

// ResponseUpdate carries one graded quiz submission to persist.
type ResponseUpdate struct {
	UserID         uint
	CheckpointID   uint
	VideoID        uint
	CourseID       uint
	UserAnswers    models.AnswerMap
	CorrectAnswers models.AnswerMap
	ScorePercent   int
}

// Recorder persists playback progress and quiz responses. The controller
// calls it fire-and-forget: a failed write must never interrupt playback, so
// implementations log and swallow their own storage errors.
type Recorder interface {
	RecordVideoProgress(ctx context.Context, update ProgressUpdate) error
	RecordQuizResponse(ctx context.Context, update ResponseUpdate) error
}

// Media describes the item a controller is mounted on, with its checkpoint
// list pre-sorted ascending by timestamp.
type Media struct {
	MediaID     string
	VideoID     uint
	CourseID    uint
	Duration    float64
	Checkpoints []models.Checkpoint
}

// recordInterval is how much playback time must elapse between throttled
// progress writes. Completion always writes regardless.
const recordInterval = 5.0

// completionSlack treats positions within one second of the duration as
// completed, so rounding at the end of the stream still counts.
const completionSlack = 1.0

// Controller is the root of the playback engine for one mounted player. It
// owns the session, feeds time updates to the scheduler, governs the active
// checkpoint interaction and hands durable writes to the recorder. All
// methods are expected to run on a single goroutine per session; the engine
// has no internal locking.
type Controller struct {
	userID   uint
	media    Media
	session  *Session
	adapter  MediaAdapter
	recorder Recorder
	logger   zerolog.Logger

	interaction       *Interaction
	lastRecorded      float64
	recordedCompleted bool

	onTime       func(seconds float64)
	onCheckpoint func(it *Interaction)
	onResolved   func(cp models.Checkpoint)
}

// NewController mounts a controller on a media item.
func NewController(userID uint, media Media, adapter MediaAdapter, recorder Recorder, logger zerolog.Logger) *Controller {
	return &Controller{
		userID:   userID,
		media:    media,
		session:  NewSession(media.MediaID, media.Duration),
		adapter:  adapter,
		recorder: recorder,
		logger:   logger.With().Str("component", "playback_controller").Str("media_id", media.MediaID).Logger(),
	}
}

// Session exposes the live session for observers (scrub bar, progress
// indicator). Callers must not mutate it.
func (c *Controller) Session() *Session {
	return c.session
}

// Interaction returns the active checkpoint interaction, nil when playback
// is not paused on a checkpoint.
func (c *Controller) Interaction() *Interaction {
	return c.interaction
}

// OnTimeUpdate registers the callback invoked after every accepted time tick.
func (c *Controller) OnTimeUpdate(fn func(seconds float64)) {
	c.onTime = fn
}

// OnCheckpoint registers the callback invoked when a checkpoint fires and its
// interaction becomes active.
func (c *Controller) OnCheckpoint(fn func(it *Interaction)) {
	c.onCheckpoint = fn
}

// OnResolved registers the callback invoked when a checkpoint interaction is
// resolved and playback resumes.
func (c *Controller) OnResolved(fn func(cp models.Checkpoint)) {
	c.onResolved = fn
}

// HandleEvent applies a media adapter state-change notification.
func (c *Controller) HandleEvent(ev Event) {
	switch ev.Kind {
	case EventReady:
		if ev.Duration > 0 {
			c.session.Duration = ev.Duration
			c.media.Duration = ev.Duration
		}
	case EventPlaying:
		c.session.IsPlaying = true
	case EventPaused:
		c.session.IsPlaying = false
	case EventEnded:
		c.session.IsPlaying = false
		c.session.CurrentTime = c.session.Duration
		c.recordProgress()
	}
}

// Tick evaluates the scheduler against the adapter's current position. Ticks
// are effectively disarmed while the adapter is not playing or a checkpoint
// is pending, so a checkpoint can never fire while already paused for one.
func (c *Controller) Tick() {
	if !c.session.IsPlaying || c.session.Pending() != nil {
		return
	}
	c.HandleTime(c.adapter.CurrentTime())
}

// Run drives Tick from the given tick source until the context is cancelled.
// Production callers pass an IntervalTicker; tests drive Tick directly or
// feed a fake source.
func (c *Controller) Run(ctx context.Context, ticks TickSource) {
	defer ticks.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks.Ticks():
			c.Tick()
		}
	}
}

// HandleTime advances the session to a new playback position and applies
// whatever checkpoint transition the scheduler decides.
func (c *Controller) HandleTime(next float64) {
	if c.session.Pending() != nil {
		return
	}

	prev := c.session.CurrentTime
	decision := Evaluate(prev, next, c.media.Checkpoints, c.session)

	for _, id := range decision.Undisplay {
		c.session.Undisplay(id)
	}

	if decision.Fire == nil {
		c.session.CurrentTime = next
		if c.onTime != nil {
			c.onTime(next)
		}
		c.maybeRecordProgress()
		return
	}

	cp := decision.Fire
	c.session.MarkDisplayed(cp.ID)
	c.session.ClearAnswered(cp.ID)
	c.session.SetPending(cp)
	c.session.IsPlaying = false

	c.adapter.Pause()
	if decision.Clamp {
		c.adapter.Seek(cp.Timestamp)
		c.session.CurrentTime = cp.Timestamp
	} else {
		c.session.CurrentTime = next
	}

	saved := c.session.SavedAnswers(cp.ID)
	if decision.Clamp {
		// A fire caused by jumping past the checkpoint starts clean; saved
		// answers only pre-fill a checkpoint re-reached through its window.
		saved = nil
	}
	c.interaction = NewInteraction(*cp, saved)
	c.logger.Debug().Uint("checkpoint_id", cp.ID).Float64("timestamp", cp.Timestamp).Msg("checkpoint fired")

	if c.onCheckpoint != nil {
		c.onCheckpoint(c.interaction)
	}
}

// Select forwards a single-choice selection to the active interaction and
// retains it in the session.
func (c *Controller) Select(question, answer int) error {
	if c.interaction == nil {
		return ErrInvalidTransition
	}
	if err := c.interaction.Select(question, answer); err != nil {
		return err
	}
	c.session.SaveAnswers(c.interaction.Checkpoint().ID, c.interaction.Selections())
	return nil
}

// Toggle forwards a multi-select selection to the active interaction.
func (c *Controller) Toggle(question, answer int) error {
	if c.interaction == nil {
		return ErrInvalidTransition
	}
	if err := c.interaction.Toggle(question, answer); err != nil {
		return err
	}
	c.session.SaveAnswers(c.interaction.Checkpoint().ID, c.interaction.Selections())
	return nil
}

// Submit grades the active interaction and hands the outcome to the recorder.
// The recorder decides first/last semantics; the controller records every
// graded submission.
func (c *Controller) Submit() (Outcome, error) {
	if c.interaction == nil {
		return Outcome{}, ErrInvalidTransition
	}

	outcome, err := c.interaction.Submit()
	if err != nil {
		return Outcome{}, err
	}

	cp := c.interaction.Checkpoint()
	c.session.SaveAnswers(cp.ID, outcome.UserAnswers)

	update := ResponseUpdate{
		UserID:         c.userID,
		CheckpointID:   cp.ID,
		VideoID:        c.media.VideoID,
		CourseID:       c.media.CourseID,
		UserAnswers:    outcome.UserAnswers,
		CorrectAnswers: outcome.CorrectAnswers,
		ScorePercent:   outcome.ScorePercent,
	}
	go func() {
		if err := c.recorder.RecordQuizResponse(context.Background(), update); err != nil {
			c.logger.Warn().Err(err).Uint("checkpoint_id", cp.ID).Msg("quiz response write failed")
		}
	}()

	return outcome, nil
}

// Retry clears the active interaction's selections and returns to answering.
func (c *Controller) Retry() error {
	if c.interaction == nil {
		return ErrInvalidTransition
	}
	return c.interaction.Retry()
}

// Correction reveals the correct answers for the active interaction.
func (c *Controller) Correction() error {
	if c.interaction == nil {
		return ErrInvalidTransition
	}
	return c.interaction.Correction()
}

// ContinuePlayback resolves the active interaction and resumes the adapter
// one second past the checkpoint so it cannot land back on itself.
func (c *Controller) ContinuePlayback() error {
	if c.interaction == nil {
		return ErrInvalidTransition
	}
	if err := c.interaction.Continue(); err != nil {
		return err
	}

	cp := c.interaction.Checkpoint()
	c.session.MarkAnswered(cp.ID)
	c.session.ClearPending()
	c.interaction = nil

	resume := cp.Timestamp + 1
	if resume > c.session.Duration {
		resume = c.session.Duration
	}
	c.adapter.Seek(resume)
	c.session.CurrentTime = resume
	c.adapter.Play()
	c.session.IsPlaying = true

	if c.onResolved != nil {
		c.onResolved(cp)
	}
	return nil
}

// ChangeMedia synchronously resets the whole session for a different media
// item. In-flight writes for the previous media are not cancelled; only the
// superseded local state is discarded.
func (c *Controller) ChangeMedia(media Media) {
	c.media = media
	c.session.Reset(media.MediaID, media.Duration)
	c.interaction = nil
	c.lastRecorded = 0
	c.recordedCompleted = false
	c.logger = c.logger.With().Str("media_id", media.MediaID).Logger()
}

func (c *Controller) maybeRecordProgress() {
	position := c.session.CurrentTime
	// The throttle counts playback time, not absolute position: after a
	// backward seek the window restarts from the new position instead of
	// stalling until the old high-water mark is passed again.
	if position < c.lastRecorded {
		c.lastRecorded = position
	}
	completed := c.session.Duration > 0 && position >= c.session.Duration-completionSlack

	switch {
	case completed && !c.recordedCompleted:
		c.recordedCompleted = true
	case position-c.lastRecorded >= recordInterval:
	default:
		return
	}

	c.lastRecorded = position
	c.recordProgress()
}

func (c *Controller) recordProgress() {
	position := c.session.CurrentTime
	duration := c.session.Duration
	remaining := duration - position
	if remaining < 0 {
		remaining = 0
	}

	update := ProgressUpdate{
		UserID:           c.userID,
		VideoID:          c.media.VideoID,
		CourseID:         c.media.CourseID,
		MediaID:          c.media.MediaID,
		MinutesWatched:   position / 60,
		MinutesRemaining: remaining / 60,
		LastPosition:     position,
		Completed:        duration > 0 && position >= duration-completionSlack,
	}
	go func() {
		if err := c.recorder.RecordVideoProgress(context.Background(), update); err != nil {
			c.logger.Warn().Err(err).Float64("position", update.LastPosition).Msg("video progress write failed")
		}
	}()
}
