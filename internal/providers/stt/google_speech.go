package stt

import (
	"context"
	"io"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

type GoogleSpeech struct {
	c *speech.Client

	Encoding     speechpb.RecognitionConfig_AudioEncoding
	SampleRateHz int32
}

func NewGoogleSpeech(ctx context.Context) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{
		c:            c,
		Encoding:     speechpb.RecognitionConfig_WEBM_OPUS,
		SampleRateHz: 48000,
	}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

// OpenStream starts a continuous recognition stream with interim results.
// locale example: "en-US", "es-ES".
func (g *GoogleSpeech) OpenStream(ctx context.Context, locale string) (Stream, error) {
	if locale == "" {
		locale = "en-US"
	}

	sc, err := g.c.StreamingRecognize(ctx)
	if err != nil {
		return nil, err
	}

	if err := sc.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config: &speechpb.RecognitionConfig{
					Encoding:                   g.Encoding,
					SampleRateHertz:            g.SampleRateHz,
					LanguageCode:               locale,
					EnableAutomaticPunctuation: true,
				},
				InterimResults: true,
			},
		},
	}); err != nil {
		return nil, err
	}

	s := &googleStream{sc: sc, results: make(chan Result, 32)}
	go s.recvLoop()
	return s, nil
}

type googleStream struct {
	sc      speechpb.Speech_StreamingRecognizeClient
	results chan Result
}

func (s *googleStream) recvLoop() {
	defer close(s.results)
	for {
		resp, err := s.sc.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			return
		}
		for _, r := range resp.Results {
			if len(r.Alternatives) == 0 {
				continue
			}
			alt := r.Alternatives[0]
			if alt.Transcript == "" {
				continue
			}
			s.results <- Result{
				Text:       alt.Transcript,
				Final:      r.IsFinal,
				Confidence: float64(alt.Confidence),
			}
		}
	}
}

func (s *googleStream) Send(audio []byte) error {
	return s.sc.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: audio,
		},
	})
}

func (s *googleStream) Close() error { return s.sc.CloseSend() }

func (s *googleStream) Results() <-chan Result { return s.results }
