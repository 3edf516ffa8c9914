package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"medivault/internal/config"
	"medivault/internal/extraction"
	"medivault/internal/httpapi"
	"medivault/internal/llm"
	"medivault/internal/session"
	"medivault/internal/speech"
	"medivault/internal/summarize"
	"medivault/internal/summary"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	factory := llm.NewFactory(cfg)
	llmClient, err := factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	extractor := extraction.NewExtractor(extraction.NewClient(llmClient))
	summarizer := summarize.NewSummarizer(llmClient)

	sessions, err := session.NewFileStore(cfg.SessionsFilePath)
	if err != nil {
		log.Fatalf("failed to init session store: %v", err)
	}
	summaries := summary.NewFileStore(cfg.SummariesDir)

	// Speech is optional: without credentials the /transcribe endpoint
	// reports the service as unavailable instead of blocking startup.
	var transcriber httpapi.Transcriber
	if tr, err := speech.NewTranscriber(context.Background(), cfg.GoogleCredentialsFile, cfg.SpeechLanguage); err != nil {
		log.Printf("failed to init speech client: %v", err)
	} else {
		transcriber = tr
	}

	srv := httpapi.NewServer(extractor, sessions, summaries, transcriber, summarizer, llmClient, cfg.UploadDir, cfg.Port)
	if err := srv.Start(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
