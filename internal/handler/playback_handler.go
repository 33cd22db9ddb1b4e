package handler

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/middleware"
	"github.com/lumilearn/lumilearn-api/internal/models"
	"github.com/lumilearn/lumilearn-api/internal/observability"
	"github.com/lumilearn/lumilearn-api/internal/player"
	"github.com/lumilearn/lumilearn-api/internal/service"
)

// PlaybackHandler owns the playback websocket. The browser player on the far
// side of the socket is the media adapter: it reports state changes and time
// updates, and executes the play/pause/seek commands the engine sends back.
type PlaybackHandler struct {
	service service.PlaybackService
	logger  zerolog.Logger
}

// NewPlaybackHandler creates a playback handler instance.
func NewPlaybackHandler(service service.PlaybackService, logger zerolog.Logger) *PlaybackHandler {
	return &PlaybackHandler{
		service: service,
		logger:  logger.With().Str("component", "playback_handler").Logger(),
	}
}

// Register binds the playback websocket under the provided router group.
func (h *PlaybackHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *PlaybackHandler) handleConnection(conn *websocket.Conn) {
	userID := websocketUserID(conn)
	if userID == 0 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusUnauthorized, "user id missing"))
		_ = conn.Close()
		return
	}

	mediaID := conn.Query("media_id")
	if mediaID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "media_id required"))
		_ = conn.Close()
		return
	}

	ctx, _ := conn.Locals("request_ctx").(context.Context)
	if ctx == nil {
		ctx = context.Background()
	}

	media, err := h.service.ResolveMedia(ctx, mediaID)
	if err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusNotFound, "unknown media"))
		_ = conn.Close()
		return
	}

	adapter := newSocketAdapter(conn, media.Duration)
	controller, release := h.service.StartSession(userID, media, adapter)
	defer release()

	logger := h.logger.With().Uint("user_id", userID).Str("media_id", mediaID).Logger()
	session := &playbackConnection{
		conn:       conn,
		adapter:    adapter,
		controller: controller,
		service:    h.service,
		ctx:        ctx,
		logger:     logger,
	}

	controller.OnCheckpoint(session.sendCheckpoint)
	controller.OnResolved(session.sendResolved)

	logger.Info().Msg("playback websocket connected")
	session.readLoop()
	logger.Info().Msg("playback websocket disconnected")
}

// playbackConnection binds one websocket to one controller. All inbound
// frames are handled on the read loop goroutine, which is the single-writer
// discipline the engine expects.
type playbackConnection struct {
	conn        *websocket.Conn
	adapter     *socketAdapter
	controller  *player.Controller
	service     service.PlaybackService
	ctx         context.Context
	logger      zerolog.Logger
	lastOutcome *player.Outcome
}

func (p *playbackConnection) readLoop() {
	for {
		var msg dto.PlaybackClientMessage
		if err := p.conn.ReadJSON(&msg); err != nil {
			return
		}
		p.dispatch(msg)
	}
}

func (p *playbackConnection) dispatch(msg dto.PlaybackClientMessage) {
	switch msg.Type {
	case dto.ClientEventReady:
		p.adapter.setDuration(msg.Duration)
		p.controller.HandleEvent(player.Event{Kind: player.EventReady, Duration: msg.Duration})
	case dto.ClientEventPlaying:
		p.controller.HandleEvent(player.Event{Kind: player.EventPlaying})
	case dto.ClientEventPaused:
		p.controller.HandleEvent(player.Event{Kind: player.EventPaused})
	case dto.ClientEventEnded:
		p.controller.HandleEvent(player.Event{Kind: player.EventEnded})
	case dto.ClientEventTimeUpdate, dto.ClientEventSeek:
		p.adapter.setTime(msg.Time)
		p.controller.HandleTime(msg.Time)
	case dto.ClientEventSelect:
		p.replyOnError(p.controller.Select(msg.Question, msg.Answer))
	case dto.ClientEventToggle:
		p.replyOnError(p.controller.Toggle(msg.Question, msg.Answer))
	case dto.ClientEventSubmit:
		p.submit()
	case dto.ClientEventRetry:
		p.lastOutcome = nil
		p.replyOnError(p.controller.Retry())
	case dto.ClientEventCorrection:
		p.correction()
	case dto.ClientEventContinue:
		p.replyOnError(p.controller.ContinuePlayback())
	case dto.ClientEventSwitch:
		p.switchMedia(msg.MediaID)
	default:
		p.sendError("unknown message type")
	}
}

func (p *playbackConnection) submit() {
	outcome, err := p.controller.Submit()
	if err != nil {
		p.sendError(err.Error())
		return
	}
	p.lastOutcome = &outcome

	// Correct answers stay hidden until the learner passes or asks for the
	// correction view.
	result := dto.QuizResultView{ScorePercent: outcome.ScorePercent, Passed: outcome.Passed}
	if outcome.Passed {
		result.CorrectAnswers = outcome.CorrectAnswers
	}
	p.send(dto.PlaybackServerMessage{Type: dto.ServerEventResult, Result: &result})
}

func (p *playbackConnection) correction() {
	if err := p.controller.Correction(); err != nil {
		p.sendError(err.Error())
		return
	}

	result := dto.QuizResultView{}
	if p.lastOutcome != nil {
		result.ScorePercent = p.lastOutcome.ScorePercent
		result.CorrectAnswers = p.lastOutcome.CorrectAnswers
	}
	p.send(dto.PlaybackServerMessage{Type: dto.ServerEventResult, Result: &result})
}

func (p *playbackConnection) switchMedia(mediaID string) {
	if mediaID == "" {
		p.sendError("media_id required")
		return
	}
	media, err := p.service.ResolveMedia(p.ctx, mediaID)
	if err != nil {
		p.sendError("unknown media")
		return
	}
	p.lastOutcome = nil
	p.adapter.reset(media.Duration)
	p.controller.ChangeMedia(media)
	p.logger = p.logger.With().Str("media_id", mediaID).Logger()
}

func (p *playbackConnection) sendCheckpoint(it *player.Interaction) {
	saved := it.Selections()
	reason := "initial"
	if len(saved) > 0 {
		reason = "revisit"
	}
	observability.CheckpointFires().WithLabelValues(reason).Inc()

	view := dto.NewCheckpointView(it.Checkpoint(), saved)
	p.send(dto.PlaybackServerMessage{Type: dto.ServerEventCheckpoint, Checkpoint: &view})
}

func (p *playbackConnection) sendResolved(cp models.Checkpoint) {
	p.lastOutcome = nil
	p.send(dto.PlaybackServerMessage{Type: dto.ServerEventResolved, Time: cp.Timestamp})
}

func (p *playbackConnection) replyOnError(err error) {
	if err != nil {
		p.sendError(err.Error())
	}
}

func (p *playbackConnection) sendError(message string) {
	p.send(dto.PlaybackServerMessage{Type: dto.ServerEventError, Error: message})
}

func (p *playbackConnection) send(msg dto.PlaybackServerMessage) {
	if err := p.adapter.write(msg); err != nil {
		p.logger.Warn().Err(err).Str("type", msg.Type).Msg("websocket write failed")
	}
}

// socketAdapter is the engine-side half of the media adapter contract. Play,
// pause and seek commands travel to the real player over the socket; current
// time and duration mirror what the player last reported.
type socketAdapter struct {
	conn *websocket.Conn

	mu       sync.Mutex
	time     float64
	duration float64
}

func newSocketAdapter(conn *websocket.Conn, duration float64) *socketAdapter {
	return &socketAdapter{conn: conn, duration: duration}
}

func (a *socketAdapter) Play() {
	_ = a.write(dto.PlaybackServerMessage{Type: dto.ServerEventPlay})
}

func (a *socketAdapter) Pause() {
	_ = a.write(dto.PlaybackServerMessage{Type: dto.ServerEventPause})
}

func (a *socketAdapter) Seek(seconds float64) {
	a.setTime(seconds)
	_ = a.write(dto.PlaybackServerMessage{Type: dto.ServerEventSeek, Time: seconds})
}

func (a *socketAdapter) CurrentTime() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.time
}

func (a *socketAdapter) Duration() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duration
}

func (a *socketAdapter) setTime(seconds float64) {
	a.mu.Lock()
	a.time = seconds
	a.mu.Unlock()
}

func (a *socketAdapter) setDuration(seconds float64) {
	a.mu.Lock()
	if seconds > 0 {
		a.duration = seconds
	}
	a.mu.Unlock()
}

func (a *socketAdapter) reset(duration float64) {
	a.mu.Lock()
	a.time = 0
	a.duration = duration
	a.mu.Unlock()
}

func (a *socketAdapter) write(msg dto.PlaybackServerMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conn.WriteJSON(msg)
}

func websocketUserID(conn *websocket.Conn) uint {
	if value := conn.Locals("user_id"); value != nil {
		switch v := value.(type) {
		case uint:
			return v
		case int:
			if v > 0 {
				return uint(v)
			}
		case float64:
			if v > 0 {
				return uint(v)
			}
		}
	}
	return 0
}
