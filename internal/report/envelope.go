package report

import (
	"encoding/json"

	"github.com/seolens/seolens/internal/model"
)

// Envelope is the wire shape the front end consumes:
//
//	{success, url, analysis: {status, analysis_time, results: {...}, score}}
//
// Findings are grouped per category under results; the category name is the
// key, so each entry omits it and it is restored on parse.
type Envelope struct {
	Success  bool            `json:"success"`
	URL      string          `json:"url"`
	Error    string          `json:"error,omitempty"`
	Analysis *AnalysisResult `json:"analysis,omitempty"`
}

type AnalysisResult struct {
	Status       model.AnalysisStatus                `json:"status"`
	AnalysisTime float64                             `json:"analysis_time"`
	Results      map[model.Category]*CategoryResult  `json:"results"`
	Score        *int                                `json:"score"`
	ScoreColor   string                              `json:"score_color,omitempty"`
	Partial      []model.PartialFailure              `json:"partial_failures,omitempty"`
	Recs         []model.Recommendation              `json:"recommendations,omitempty"`
}

type CategoryResult struct {
	Score    int            `json:"score"`
	Findings []EnvelopeItem `json:"findings,omitempty"`
}

// EnvelopeItem is a Finding without its category (implied by the map key).
type EnvelopeItem struct {
	Severity model.Severity `json:"severity"`
	Message  string         `json:"message"`
	Score    int            `json:"score"`
	Value    any            `json:"value,omitempty"`
}

// ToEnvelope converts a finalized report into the external JSON shape.
func ToEnvelope(r *model.AnalysisReport) *Envelope {
	env := &Envelope{
		Success: r.Status != model.StatusFailed,
		URL:     r.URL,
		Error:   r.Error,
	}

	analysis := &AnalysisResult{
		Status:       r.Status,
		AnalysisTime: r.Elapsed.Seconds(),
		Results:      map[model.Category]*CategoryResult{},
		Score:        r.Score,
		Partial:      r.PartialFailures,
		Recs:         r.Recommendations,
	}
	if r.Score != nil {
		analysis.ScoreColor = model.ScoreColor(*r.Score)
	}

	for cat, sub := range r.CategoryScores {
		analysis.Results[cat] = &CategoryResult{Score: sub}
	}
	for _, f := range r.Findings {
		cr := analysis.Results[f.Category]
		if cr == nil {
			cr = &CategoryResult{Score: 100}
			analysis.Results[f.Category] = cr
		}
		cr.Findings = append(cr.Findings, EnvelopeItem{
			Severity: f.Severity,
			Message:  f.Message,
			Score:    f.Score,
			Value:    f.Value,
		})
	}

	env.Analysis = analysis
	return env
}

// Marshal renders the envelope to JSON.
func (e *Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// ParseEnvelope decodes the external JSON shape back into an envelope.
// Together with Findings() this round-trips a report's score, status and
// every finding's category/severity/message.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Findings flattens the per-category results back into findings with their
// category restored. Order follows the fixed category detection order.
func (e *Envelope) Findings() []model.Finding {
	if e.Analysis == nil {
		return nil
	}
	var out []model.Finding
	for _, cat := range model.Categories {
		cr := e.Analysis.Results[cat]
		if cr == nil {
			continue
		}
		for _, item := range cr.Findings {
			out = append(out, model.Finding{
				Category: cat,
				Severity: item.Severity,
				Message:  item.Message,
				Score:    item.Score,
				Value:    item.Value,
			})
		}
	}
	return out
}
