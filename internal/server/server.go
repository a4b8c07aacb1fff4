// Package server streams engine frames to browser viewers over websockets
// and exposes settings, photos and runtime stats over plain HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"photodrift/internal/cinematic"
	"photodrift/internal/config"
	"photodrift/internal/gallery"
	"photodrift/internal/scene"
	"photodrift/internal/source"
	"photodrift/internal/system"
)

var upgrader = websocket.Upgrader{
	// Viewers connect from wherever the host page is served.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type     string                `json:"type"`
	Input    *cinematic.InputEvent `json:"input,omitempty"`
	Settings json.RawMessage       `json:"settings,omitempty"`
}

type outboundMessage struct {
	Type     string            `json:"type"`
	Frame    *scene.FrameState `json:"frame,omitempty"`
	Settings *config.Settings  `json:"settings,omitempty"`
}

type statsResponse struct {
	system.Stats
	Clients int `json:"clients"`
}

// Server exposes the engine to viewers. The tick loop stays elsewhere; the
// server only reads snapshots and forwards inbound events to the engine.
type Server struct {
	engine  *scene.Engine
	source  source.Source
	monitor *system.Monitor
	hub     *Hub
	httpSrv *http.Server
}

// New wires a server for the engine. src and mon may be nil; the media and
// stats routes then degrade gracefully.
func New(eng *scene.Engine, src source.Source, mon *system.Monitor, addr string) *Server {
	s := &Server{
		engine:  eng,
		source:  src,
		monitor: mon,
		hub:     newHub(),
	}
	s.httpSrv = &http.Server{Addr: addr, Handler: s.Handler()}
	return s
}

// Handler builds the route table. Split out so tests can drive the server
// through httptest.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.HandleFunc("/healthz", s.handleHealthz).Methods("GET")
	r.HandleFunc("/stats", s.handleStats).Methods("GET")
	r.HandleFunc("/photos", s.handlePhotos).Methods("GET")
	r.HandleFunc("/settings", s.handleGetSettings).Methods("GET")
	r.HandleFunc("/settings", s.handlePutSettings).Methods("PUT")
	r.HandleFunc("/frame", s.handleFrame).Methods("GET")
	r.HandleFunc("/ws", s.handleWS)
	r.PathPrefix("/media/").HandlerFunc(s.handleMedia).Methods("GET")
	return r
}

// Start serves until Shutdown. A closed-server error is reported as nil.
func (s *Server) Start() error {
	log.Printf("[*] Listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown disconnects every viewer, hands the camera back to the user and
// stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()
	s.engine.DetachCamera()
	return s.httpSrv.Shutdown(ctx)
}

// Broadcast fans one frame out to every connected viewer.
func (s *Server) Broadcast(frame scene.FrameState) {
	if s.hub.Count() == 0 {
		return
	}
	payload, err := json.Marshal(outboundMessage{Type: "frame", Frame: &frame})
	if err != nil {
		log.Printf("[!] Encode frame: %v", err)
		return
	}
	s.hub.Broadcast(payload)
}

// Clients reports how many viewers are connected.
func (s *Server) Clients() int {
	return s.hub.Count()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[!] Websocket upgrade failed: %v", err)
		return
	}

	client := &Client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.hub.add(client)
	log.Printf("[*] Viewer connected (%d online)", s.hub.Count())

	// Settings first so the viewer can configure itself before frames flow.
	cfg := s.engine.Settings()
	if hello, err := json.Marshal(outboundMessage{Type: "settings", Settings: &cfg}); err == nil {
		s.hub.send(client, hello)
	}

	go client.writePump()
	go s.readPump(client)
}

func (s *Server) readPump(c *Client) {
	defer func() {
		s.hub.remove(c)
		c.conn.Close()
		log.Printf("[*] Viewer disconnected (%d online)", s.hub.Count())
	}()

	for {
		var msg inboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[!] Websocket error: %v", err)
			}
			return
		}

		switch msg.Type {
		case "input":
			if msg.Input != nil {
				s.engine.PushInput(*msg.Input)
			}
		case "settings":
			if len(msg.Settings) > 0 {
				cfg := s.engine.Settings()
				if err := json.Unmarshal(msg.Settings, &cfg); err == nil {
					s.engine.SetSettings(cfg)
				}
			}
		}
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"clients": s.hub.Count(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{Clients: s.hub.Count()}
	if s.monitor != nil {
		resp.Stats = s.monitor.Stats()
	}
	writeJSON(w, resp)
}

func (s *Server) handlePhotos(w http.ResponseWriter, r *http.Request) {
	photos := s.engine.Photos()
	if photos == nil {
		photos = []gallery.Photo{}
	}
	writeJSON(w, photos)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	cfg := s.engine.Settings()
	writeJSON(w, cfg)
}

// handlePutSettings merges the payload over the current settings, so partial
// updates keep everything they do not name.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	cfg := s.engine.Settings()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "bad settings payload", http.StatusBadRequest)
		return
	}
	cfg.Clamp()
	s.engine.SetSettings(cfg)
	writeJSON(w, cfg)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Snapshot())
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		http.NotFound(w, r)
		return
	}
	id, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/media/"))
	if err != nil || id == "" {
		http.NotFound(w, r)
		return
	}

	rc, ctype, err := s.source.Open(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "max-age=3600")
	io.Copy(w, rc)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[!] Encode response: %v", err)
	}
}
