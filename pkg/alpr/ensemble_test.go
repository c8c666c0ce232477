package alpr

import (
	"context"
	"errors"
	"image"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type scriptedRecognizer struct {
	outputs []string
	errs    []error
	call    int
}

func (s *scriptedRecognizer) ReadText(_ context.Context, _ *image.Gray) (string, error) {
	i := s.call
	s.call++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var out string
	if i < len(s.outputs) {
		out = s.outputs[i]
	}
	return out, err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSelectCandidateFirstValidWins(t *testing.T) {
	candidates := []Candidate{
		{Text: "29A12345", Variant: "contrast_sharpen"},
		{Text: "29A12345", Variant: "denoise_threshold"},
		{Text: "GARBAGE99", Variant: "equalize_hist"},
	}
	if got := SelectCandidate(candidates); got != "29A12345" {
		t.Errorf("SelectCandidate = %q, want %q", got, "29A12345")
	}
}

func TestSelectCandidateLongestFallback(t *testing.T) {
	candidates := []Candidate{
		{Text: "XX99YY7"},
		{Text: "XX99YY777"},
		{Text: "XX99YY77"},
	}
	if got := SelectCandidate(candidates); got != "XX99YY777" {
		t.Errorf("SelectCandidate = %q, want longest reading", got)
	}
}

func TestSelectCandidateEmpty(t *testing.T) {
	if got := SelectCandidate(nil); got != "" {
		t.Errorf("SelectCandidate(nil) = %q, want empty", got)
	}
}

func TestRunEnsembleSkipsFailedVariants(t *testing.T) {
	rec := &scriptedRecognizer{
		outputs: []string{"", "51f 12345", "short"},
		errs:    []error{errors.New("ocr timeout"), nil, nil},
	}
	crop := image.NewGray(image.Rect(0, 0, 40, 20))
	got := RunEnsemble(context.Background(), rec, crop, quietLogger())
	if got != "51F12345" {
		t.Errorf("RunEnsemble = %q, want %q", got, "51F12345")
	}
	if rec.call != len(Passes()) {
		t.Errorf("recognizer called %d times, want %d", rec.call, len(Passes()))
	}
}

func TestRunEnsembleAllFail(t *testing.T) {
	rec := &scriptedRecognizer{
		errs: []error{errors.New("down"), errors.New("down"), errors.New("down")},
	}
	crop := image.NewGray(image.Rect(0, 0, 40, 20))
	if got := RunEnsemble(context.Background(), rec, crop, quietLogger()); got != "" {
		t.Errorf("RunEnsemble = %q, want empty", got)
	}
}
