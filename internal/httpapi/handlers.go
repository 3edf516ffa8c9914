package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"medivault/internal/llm"
	"medivault/internal/session"
	"medivault/internal/summary"
)

const maxUploadBytes = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload accepts a prescription image, runs the extraction pipeline
// and merges the result into the session store. AI-level failures still
// produce a 200 with sentinel text in the fields; only infra failures turn
// into error responses.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}

	sessionID := r.FormValue("sessionId")
	if sessionID == "" {
		sessionID = r.URL.Query().Get("sessionId")
	}
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	path, err := saveUpload(s.uploadDir, header.Filename, file)
	if err != nil {
		log.Printf("failed to save upload: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save uploaded file")
		return
	}

	rec := s.extractor.Extract(r.Context(), path)

	if err := s.sessions.Upsert(sessionID, session.Entry{
		PatientName: rec.PatientName,
		Medication:  rec.Medication,
		Doctor:      rec.Doctor,
	}); err != nil {
		log.Printf("failed to persist session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, "Failed to save session data")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSessionData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	entry, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No data found for this session")
			return
		}
		log.Printf("failed to read session %s: %v", sessionID, err)
		writeError(w, http.StatusInternalServerError, "Failed to read session data")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleSummaries serves both sides of the summary store: POST writes a
// record, GET lists everything.
func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSaveSummary(w, r)
	case http.MethodGet:
		s.handleListSummaries(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleSaveSummary(w http.ResponseWriter, r *http.Request) {
	// eventId arrives as a string or a number depending on the client;
	// UseNumber keeps numeric ids intact.
	var req struct {
		EventID any    `json:"eventId"`
		Summary string `json:"summary"`
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	eventID := stringifyEventID(req.EventID)
	if eventID == "" || req.Summary == "" {
		writeError(w, http.StatusBadRequest, "eventId and summary are required")
		return
	}

	if _, err := s.summaries.Put(eventID, req.Summary); err != nil {
		if errors.Is(err, summary.ErrInvalidKey) {
			writeError(w, http.StatusBadRequest, "Invalid eventId")
			return
		}
		log.Printf("failed to save summary %s: %v", eventID, err)
		writeError(w, http.StatusInternalServerError, "Failed to save summary")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Summary saved successfully"})
}

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	records, err := s.summaries.ListAll()
	if err != nil {
		log.Printf("failed to list summaries: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list summaries")
		return
	}
	if records == nil {
		records = []summary.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.transcriber == nil {
		writeError(w, http.StatusServiceUnavailable, "Speech service is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read audio")
		return
	}

	text, err := s.transcriber.Transcribe(r.Context(), audio, "", 0, "")
	if err != nil {
		log.Printf("transcription failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"transcription": text})
}

// handleGenerate is a raw prompt-to-text pass-through over the configured
// text-generation provider; nothing is persisted.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	resp, err := s.generator.Generate(r.Context(), []llm.Message{{Role: "user", Content: req.Prompt}})
	if err != nil {
		log.Printf("generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": strings.TrimSpace(resp.Content)})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	out, err := s.summarizer.Summarize(r.Context(), req.Text)
	if err != nil {
		log.Printf("summarization failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": out})
}

func stringifyEventID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return ""
	}
}
