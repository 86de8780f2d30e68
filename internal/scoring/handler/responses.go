package handler

import (
	"fmt"

	"creditrisk/internal/scoring"
	"creditrisk/internal/scoring/service"
)

// previewRows is how many scored rows the batch response echoes back.
const previewRows = 5

type EstimateResponse struct {
	Score     int               `json:"score"`
	MaxScore  int               `json:"max_score"`
	Band      string            `json:"band"`
	Summary   string            `json:"summary"`
	Breakdown scoring.Breakdown `json:"breakdown"`
	Tips      []string          `json:"tips"`
}

func toEstimateResponse(a *scoring.Assessment) EstimateResponse {
	return EstimateResponse{
		Score:     int(a.Score),
		MaxScore:  scoring.MaxScore,
		Band:      a.Band.String(),
		Summary:   a.Summary,
		Breakdown: a.Breakdown,
		Tips:      a.Tips,
	}
}

type PredictResponse struct {
	DefaultProbability float64 `json:"default_probability"`
	RiskPercent        string  `json:"risk_percent"`
	RiskLabel          string  `json:"risk_label"`
	Predictor          string  `json:"predictor"`

	FeatureImportance map[string]float64 `json:"feature_importance,omitempty"`
}

func toPredictResponse(p *service.Prediction) PredictResponse {
	return PredictResponse{
		DefaultProbability: p.Probability,
		RiskPercent:        fmt.Sprintf("%.1f%%", p.Probability*100),
		RiskLabel:          string(p.Label),
		Predictor:          p.Predictor,
		FeatureImportance:  p.Importance,
	}
}

type BatchResponse struct {
	ID          string     `json:"id"`
	Rows        int        `json:"rows"`
	HighRisk    int        `json:"high_risk"`
	Columns     []string   `json:"columns"`
	Preview     [][]string `json:"preview"`
	DownloadURL string     `json:"download_url"`
}

func toBatchResponse(res *service.BatchResult) BatchResponse {
	preview := res.Table.Rows[:min(previewRows, len(res.Table.Rows))]
	if preview == nil {
		preview = [][]string{}
	}
	return BatchResponse{
		ID:          res.ID,
		Rows:        res.Rows,
		HighRisk:    res.HighRisk,
		Columns:     res.Table.Columns,
		Preview:     preview,
		DownloadURL: downloadURL(res.ID),
	}
}

func downloadURL(id string) string {
	return "/batch/" + id + "/download"
}
