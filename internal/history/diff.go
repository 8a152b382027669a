package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/seolens/seolens/internal/model"
)

// CategoryDelta is the score movement of one category between two reports.
type CategoryDelta struct {
	Category model.Category `json:"category"`
	Base     int            `json:"base"`
	Head     int            `json:"head"`
	Delta    int            `json:"delta"`
}

// DiffChunk is one added or removed span of finding text between two reports.
type DiffChunk struct {
	Type    string `json:"type"` // "added" or "removed"
	Content string `json:"content"`
}

// Comparison describes how two stored analyses of a page differ.
type Comparison struct {
	BaseID     string          `json:"base_id"`
	HeadID     string          `json:"head_id"`
	URL        string          `json:"url"`
	ScoreDelta *int            `json:"score_delta,omitempty"`
	Categories []CategoryDelta `json:"categories"`
	Findings   []DiffChunk     `json:"findings"`
}

// Compare loads two stored reports and diffs their scores and findings.
// Category deltas follow the fixed category order so output is deterministic.
func (s *Store) Compare(ctx context.Context, baseID, headID string) (*Comparison, error) {
	base, err := s.Get(ctx, baseID)
	if err != nil {
		return nil, fmt.Errorf("history: base %s: %w", baseID, err)
	}
	head, err := s.Get(ctx, headID)
	if err != nil {
		return nil, fmt.Errorf("history: head %s: %w", headID, err)
	}

	cmp := &Comparison{
		BaseID:     base.ID,
		HeadID:     head.ID,
		URL:        head.URL,
		Categories: []CategoryDelta{},
	}

	if base.Score != nil && head.Score != nil {
		d := *head.Score - *base.Score
		cmp.ScoreDelta = &d
	}

	for _, cat := range model.Categories {
		b, okB := base.CategoryScores[cat]
		h, okH := head.CategoryScores[cat]
		if !okB && !okH {
			continue
		}
		cmp.Categories = append(cmp.Categories, CategoryDelta{
			Category: cat,
			Base:     b,
			Head:     h,
			Delta:    h - b,
		})
	}

	cmp.Findings = diffFindings(base.Findings, head.Findings)
	return cmp, nil
}

// diffFindings renders each report's findings as one line per finding and
// returns the added and removed spans between the two renderings. Equal spans
// are dropped so the result only carries what changed.
func diffFindings(base, head []model.Finding) []DiffChunk {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(renderFindings(base), renderFindings(head), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := []DiffChunk{}
	for _, d := range diffs {
		content := strings.TrimSpace(d.Text)
		if content == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunks = append(chunks, DiffChunk{Type: "added", Content: content})
		case diffmatchpatch.DiffDelete:
			chunks = append(chunks, DiffChunk{Type: "removed", Content: content})
		}
	}
	return chunks
}

func renderFindings(findings []model.Finding) string {
	var b strings.Builder
	for _, f := range findings {
		b.WriteString(string(f.Category))
		b.WriteString("/")
		b.WriteString(string(f.Severity))
		b.WriteString(": ")
		b.WriteString(f.Message)
		b.WriteString("\n")
	}
	return b.String()
}
