package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"medivault/internal/extraction"
	"medivault/internal/llm"
	"medivault/internal/session"
	"medivault/internal/summary"
)

// Extractor runs the image pipeline. Always returns a full record; AI-level
// failures live inside the field values.
type Extractor interface {
	Extract(ctx context.Context, imagePath string) extraction.Record
}

type SessionStore interface {
	Upsert(sessionID string, entry session.Entry) error
	Get(sessionID string) (session.Entry, error)
}

type SummaryStore interface {
	Put(eventID, summaryText string) (summary.Record, error)
	ListAll() ([]summary.Record, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, encoding string, sampleRateHz int64, languageCode string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Server owns the HTTP surface and its collaborators.
type Server struct {
	extractor   Extractor
	sessions    SessionStore
	summaries   SummaryStore
	transcriber Transcriber
	summarizer  Summarizer
	generator   llm.Client
	uploadDir   string
	port        int
	server      *http.Server
}

func NewServer(extractor Extractor, sessions SessionStore, summaries SummaryStore, transcriber Transcriber, summarizer Summarizer, generator llm.Client, uploadDir string, port int) *Server {
	return &Server{
		extractor:   extractor,
		sessions:    sessions,
		summaries:   summaries,
		transcriber: transcriber,
		summarizer:  summarizer,
		generator:   generator,
		uploadDir:   uploadDir,
		port:        port,
	}
}

// Handler builds the routing table. Exposed separately from Start so tests
// can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/transcribe", s.handleTranscribe)
	mux.HandleFunc("/summarize", s.handleSummarize)
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/summaries", s.handleSummaries)
	mux.HandleFunc("/api/session-data", s.handleSessionData)
	mux.HandleFunc("/api/health", s.handleHealth)
	return withCORS(mux)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🌐 Starting prescription API server on http://localhost:%d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// withCORS mirrors the permissive defaults the frontend was built against.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
