package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	speechv1 "google.golang.org/api/speech/v1"
)

// Defaults match what the browser recorder produces: opus frames in a webm
// container at 48 kHz.
const (
	DefaultEncoding     = "WEBM_OPUS"
	DefaultSampleRateHz = 48000
	DefaultLanguage     = "en-US"
)

// Transcriber wraps the Google Cloud Speech-to-Text REST API. The recognize
// indirection exists so tests can intercept the outbound call.
type Transcriber struct {
	language  string
	recognize func(ctx context.Context, req *speechv1.RecognizeRequest) (*speechv1.RecognizeResponse, error)
}

// NewTranscriber builds a client authenticated either by a service-account
// credentials file or, when none is configured, by application default
// credentials. language is the default recognition language; empty means
// en-US.
func NewTranscriber(ctx context.Context, credentialsFile, language string) (*Transcriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		conf, err := google.JWTConfigFromJSON(data, speechv1.CloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account credentials: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(conf.Client(ctx)))
	}

	svc, err := speechv1.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech service: %w", err)
	}

	return &Transcriber{
		language: language,
		recognize: func(ctx context.Context, req *speechv1.RecognizeRequest) (*speechv1.RecognizeResponse, error) {
			return svc.Speech.Recognize(req).Context(ctx).Do()
		},
	}, nil
}

// Transcribe sends the encoded audio for synchronous recognition and returns
// the first alternative of the first result, or "" when the service
// recognized nothing. Zero-value parameters fall back to the webm/opus
// defaults.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, encoding string, sampleRateHz int64, languageCode string) (string, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	if sampleRateHz == 0 {
		sampleRateHz = DefaultSampleRateHz
	}
	if languageCode == "" {
		languageCode = t.language
	}
	if languageCode == "" {
		languageCode = DefaultLanguage
	}

	req := &speechv1.RecognizeRequest{
		Config: &speechv1.RecognitionConfig{
			Encoding:        encoding,
			SampleRateHertz: sampleRateHz,
			LanguageCode:    languageCode,
		},
		Audio: &speechv1.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(audio),
		},
	}

	resp, err := t.recognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}
	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return "", nil
	}
	return resp.Results[0].Alternatives[0].Transcript, nil
}
