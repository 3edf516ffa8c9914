package extraction

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Record is the result of processing one prescription image. All five
// fields are always present; failed lookups carry ERROR-prefixed text.
type Record struct {
	FullText     string `json:"full_text"`
	PatientName  string `json:"patient_name"`
	Medication   string `json:"medication"`
	Doctor       string `json:"doctor"`
	Instructions string `json:"instructions"`
}

// TextSource is the slice of Client the extractor needs; tests substitute
// stubs for it.
type TextSource interface {
	ExtractFullText(ctx context.Context, imagePath string) string
	FindSpecificInfo(ctx context.Context, fullText, whatToFind string) string
}

// Extractor turns an image into a Record: one transcription pass, then four
// independent field lookups against the same text.
type Extractor struct {
	src TextSource
}

func NewExtractor(src TextSource) *Extractor {
	return &Extractor{src: src}
}

// Extract runs the full pipeline. The four field lookups run concurrently;
// each settles on its own (success or ERROR text), so one failing never
// blocks or cancels the others. A failed transcription is not a
// short-circuit either - the lookups still run against the ERROR text.
func (e *Extractor) Extract(ctx context.Context, imagePath string) Record {
	fullText := e.src.ExtractFullText(ctx, imagePath)

	rec := Record{FullText: fullText}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec.PatientName = e.src.FindSpecificInfo(gctx, fullText, "patient name")
		return nil
	})
	g.Go(func() error {
		rec.Medication = e.src.FindSpecificInfo(gctx, fullText, "medication name and strength")
		return nil
	})
	g.Go(func() error {
		rec.Doctor = e.src.FindSpecificInfo(gctx, fullText, "doctor's name")
		return nil
	})
	g.Go(func() error {
		rec.Instructions = e.src.FindSpecificInfo(gctx, fullText, "how to use this medication")
		return nil
	})
	_ = g.Wait()

	return rec
}
