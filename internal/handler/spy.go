package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/render"
	"github.com/sakif/genfolio/internal/section"
	"github.com/sakif/genfolio/internal/service"
)

const (
	spyWriteWait  = 10 * time.Second
	spyPongWait   = 60 * time.Second
	spyPingPeriod = spyPongWait * 9 / 10
	spyMaxMessage = 64 << 10
)

// Messages exchanged over the scroll-spy socket.
//
//	client → server: {"type":"frame","frame":{...}}  {"type":"navigate","key":"skills"}
//	server → client: {"type":"active","key":"about"} {"type":"scroll","top":412}
const (
	msgFrame    = "frame"
	msgNavigate = "navigate"
	msgActive   = "active"
	msgScroll   = "scroll"
)

type spyRequest struct {
	Type  string         `json:"type"`
	Frame *section.Frame `json:"frame,omitempty"`
	Key   section.Key    `json:"key,omitempty"`
}

type spyEvent struct {
	Type string      `json:"type"`
	Key  section.Key `json:"key,omitempty"`
	Top  *float64    `json:"top,omitempty"`
}

// SpyHandler tracks the active section of one open portfolio page. The
// browser streams section geometry; the server answers with the active
// section and with scroll targets for nav clicks.
//
// Sessions outlive their HTTP request once the connection is hijacked, so
// they run on the handler's own context; CloseSessions ends all of them.
type SpyHandler struct {
	profiles *service.ProfileService
	catalog  *render.Catalog
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup
}

func NewSpyHandler(profiles *service.ProfileService, catalog *render.Catalog, logger *slog.Logger) *SpyHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &SpyHandler{
		profiles: profiles,
		catalog:  catalog,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// CloseSessions sends a close frame to every open socket and refuses new
// ones. Meant for http.Server.RegisterOnShutdown.
func (h *SpyHandler) CloseSessions() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancel()
}

// Wait blocks until every session has ended or ctx is done.
func (h *SpyHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for spy sessions: %w", ctx.Err())
	}
}

// acquire registers a session unless the handler is shutting down.
func (h *SpyHandler) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx.Err() != nil {
		return false
	}
	h.sessions.Add(1)
	return true
}

// HandleSpy upgrades to a websocket for the given profile.
//
// HTTP: GET /portfolio/{id}/spy?template=<id>
//
// The visible sections are computed before the upgrade, so an unknown
// profile is a plain 404.
func (h *SpyHandler) HandleSpy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stored, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	templateID := r.URL.Query().Get("template")
	if templateID == "" {
		templateID = stored.Profile.SelectedTemplate
	}
	t, _ := h.catalog.Resolve(templateID)
	visible := section.NewPresenter(t.Policy()).VisibleSections(stored.Profile)

	if !h.acquire() {
		writeError(w, apperror.Unavailable("Server is shutting down", nil))
		return
	}
	defer h.sessions.Done()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Warn("spy upgrade failed", slog.String("error", err.Error()))
		return
	}

	h.logger.Debug("spy connected", slog.String("id", id), slog.String("template", t.ID))
	newSpySession(conn, visible, h.logger).run(h.ctx)
	h.logger.Debug("spy disconnected", slog.String("id", id))
}

// spySession owns one websocket. The calling goroutine reads; a second
// goroutine is the only writer, as gorilla/websocket requires.
type spySession struct {
	conn      *websocket.Conn
	tracker   *section.Tracker
	navigator *section.Navigator
	scroller  *socketScroller
	events    chan spyEvent
	logger    *slog.Logger
}

func newSpySession(conn *websocket.Conn, visible []section.Descriptor, logger *slog.Logger) *spySession {
	events := make(chan spyEvent, 8)
	scroller := &socketScroller{events: events}
	return &spySession{
		conn:      conn,
		tracker:   section.NewTracker(visible),
		navigator: section.NewNavigator(scroller, visible, section.DefaultHeaderOffset),
		scroller:  scroller,
		events:    events,
		logger:    logger,
	}
}

func (s *spySession) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	s.scroller.setDone(ctx.Done())

	var wg conc.WaitGroup
	wg.Go(func() {
		defer cancel()
		s.writeLoop(ctx)
	})

	s.readLoop(ctx)
	cancel()
	s.tracker.Close()
	wg.Wait()
	s.conn.Close()
}

func (s *spySession) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(spyMaxMessage)
	s.conn.SetReadDeadline(time.Now().Add(spyPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(spyPongWait))
	})

	for ctx.Err() == nil {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("spy read failed", slog.String("error", err.Error()))
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(spyPongWait))

		var req spyRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.logger.Debug("spy: ignoring malformed message", slog.String("error", err.Error()))
			continue
		}
		s.handle(req)
	}
}

func (s *spySession) handle(req spyRequest) {
	switch req.Type {
	case msgFrame:
		if req.Frame == nil {
			return
		}
		s.scroller.setY(req.Frame.ScrollY)
		s.navigator.SetLayout(section.LayoutFromFrame(*req.Frame))
		s.tracker.Observe(*req.Frame)
	case msgNavigate:
		if err := s.navigator.NavigateTo(req.Key); err != nil && !errors.Is(err, section.ErrUnknownSection) {
			s.logger.Warn("spy navigate failed", slog.String("error", err.Error()))
		}
	}
}

func (s *spySession) writeLoop(ctx context.Context) {
	active, unsubscribe := s.tracker.Subscribe()
	defer unsubscribe()

	ping := time.NewTicker(spyPingPeriod)
	defer ping.Stop()

	for {
		var ev spyEvent
		select {
		case <-ctx.Done():
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(spyWriteWait))
			// The reader exits on the peer's close reply or at this deadline.
			s.conn.SetReadDeadline(time.Now().Add(spyWriteWait))
			return
		case key, ok := <-active:
			if !ok {
				return
			}
			ev = spyEvent{Type: msgActive, Key: key}
		case ev = <-s.events:
		case <-ping.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(spyWriteWait)); err != nil {
				s.conn.Close()
				return
			}
			continue
		}

		s.conn.SetWriteDeadline(time.Now().Add(spyWriteWait))
		if err := s.conn.WriteJSON(ev); err != nil {
			// Closing unblocks the reader.
			s.conn.Close()
			return
		}
	}
}

// socketScroller is the browser viewport as seen from the server: the
// scroll offset comes from the last frame and scroll requests are sent back
// over the socket.
type socketScroller struct {
	mu     sync.Mutex
	y      float64
	events chan<- spyEvent
	done   <-chan struct{}
}

func (s *socketScroller) setY(y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.y = y
}

func (s *socketScroller) setDone(done <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = done
}

func (s *socketScroller) ScrollY() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.y
}

func (s *socketScroller) SmoothScrollTo(y float64) {
	s.mu.Lock()
	done := s.done
	s.y = y
	s.mu.Unlock()

	select {
	case s.events <- spyEvent{Type: msgScroll, Top: &y}:
	case <-done:
	}
}
