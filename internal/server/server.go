package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/feeds"

	"heraldo/internal/state"
	"heraldo/internal/types"
)

type Config struct {
	Port     string
	FeedSize int
}

// Server exposes a health check, a read-only status view of the persisted
// failure counters, and RSS/Atom/JSON mirror feeds of recent
// announcements. It never mutates state.
type Server struct {
	name   string
	config Config
	store  state.Store
	ring   *Ring
	server *http.Server
}

func New(name string, config Config, store state.Store, ring *Ring) *Server {
	if config.Port == "" {
		config.Port = "8080"
	}
	if config.FeedSize == 0 {
		config.FeedSize = 50
	}

	return &Server{
		name:   name,
		config: config,
		store:  store,
		ring:   ring,
	}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/feed.rss", s.handleRSSFeed)
	mux.HandleFunc("/feed.atom", s.handleAtomFeed)
	mux.HandleFunc("/feed.json", s.handleJSONFeed)

	s.server = &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: mux,
	}

	go func() {
		log.Printf("Status server %s: starting on port %s", s.name, s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Status server %s: error: %v", s.name, err)
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Status server %s: shutdown error: %v", s.name, err)
		}
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

type sourceStatus struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastUpdatedAt       time.Time `json:"lastUpdatedAt"`
	PostedCount         int       `json:"postedCount"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Load(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, "Error: %v", err)
		return
	}

	status := make(map[string]sourceStatus, len(st))
	for _, key := range types.SourceKeys() {
		rec := st[key]
		status[key.String()] = sourceStatus{
			ConsecutiveFailures: rec.ConsecutiveFailures,
			LastUpdatedAt:       rec.LastUpdatedAt,
			PostedCount:         len(rec.PostedIDs),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Printf("Status server %s: failed to encode status: %v", s.name, err)
	}
}

func (s *Server) buildFeed() *feeds.Feed {
	entries := s.ring.Recent()
	if len(entries) > s.config.FeedSize {
		entries = entries[:s.config.FeedSize]
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s announcements", s.name),
		Link:        &feeds.Link{Href: "/feed.rss"},
		Description: "Recently announced items",
		Created:     time.Now(),
	}

	for _, entry := range entries {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          entry.ID,
			Title:       entry.Title,
			Link:        &feeds.Link{Href: entry.URL},
			Description: entry.Description,
			Author:      &feeds.Author{Name: entry.Source.String()},
			Created:     entry.PublishedAt,
			Updated:     entry.AnnouncedAt,
		})
	}

	return feed
}

func (s *Server) handleRSSFeed(w http.ResponseWriter, r *http.Request) {
	rss, err := s.buildFeed().ToRss()
	if err != nil {
		log.Printf("Status server %s: failed to generate RSS: %v", s.name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	fmt.Fprint(w, rss)
}

func (s *Server) handleAtomFeed(w http.ResponseWriter, r *http.Request) {
	atom, err := s.buildFeed().ToAtom()
	if err != nil {
		log.Printf("Status server %s: failed to generate Atom: %v", s.name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	fmt.Fprint(w, atom)
}

func (s *Server) handleJSONFeed(w http.ResponseWriter, r *http.Request) {
	jsonFeed, err := s.buildFeed().ToJSON()
	if err != nil {
		log.Printf("Status server %s: failed to generate JSON feed: %v", s.name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/feed+json; charset=utf-8")
	fmt.Fprint(w, jsonFeed)
}
