package alpr

import (
	"context"
	"image"

	"github.com/sirupsen/logrus"
)

// minCandidateLen filters out fragments the recognizer picked up from partial
// crops; real plates clean to at least 7 characters.
const minCandidateLen = 7

// Recognizer reads text off a preprocessed plate crop.
type Recognizer interface {
	ReadText(ctx context.Context, crop *image.Gray) (string, error)
}

type Candidate struct {
	Text    string
	Variant string
}

// RunEnsemble sends every preprocessing variant of the crop to the
// recognizer and collects the cleaned readings. A failing variant is logged
// and skipped; the remaining variants still run.
func RunEnsemble(ctx context.Context, rec Recognizer, crop *image.Gray, log *logrus.Logger) string {
	var candidates []Candidate
	for _, pass := range Passes() {
		text, err := rec.ReadText(ctx, pass.Apply(crop))
		if err != nil {
			log.WithFields(logrus.Fields{
				"variant": pass.Name,
				"error":   err.Error(),
			}).Warn("OCR variant failed, skipping")
			continue
		}
		cleaned := Clean(text)
		if len(cleaned) < minCandidateLen {
			continue
		}
		candidates = append(candidates, Candidate{Text: cleaned, Variant: pass.Name})
	}
	return SelectCandidate(candidates)
}

// SelectCandidate picks the first candidate that validates as a plate; if
// none validates, the longest reading; empty when there are no candidates.
func SelectCandidate(candidates []Candidate) string {
	for _, c := range candidates {
		if ok, cleaned := Validate(c.Text); ok {
			return cleaned
		}
	}
	best := ""
	for _, c := range candidates {
		if len(c.Text) > len(best) {
			best = c.Text
		}
	}
	return best
}
