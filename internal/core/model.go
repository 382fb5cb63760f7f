package core

import (
	"time"
)

// Prediction is the binary classification returned by the prediction API.
type Prediction string

const (
	PredictionPhishing   Prediction = "phishing"
	PredictionLegitimate Prediction = "legitimate"
)

// RiskLevel is the three-tier ordinal classification supplementing the
// binary prediction.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// riskRank orders risk levels low < medium < high.
var riskRank = map[RiskLevel]int{
	RiskLow:    0,
	RiskMedium: 1,
	RiskHigh:   2,
}

// Rank returns the ordinal rank of the risk level (low=0, medium=1, high=2).
// Unknown levels rank below low.
func (r RiskLevel) Rank() int {
	if rank, ok := riskRank[r]; ok {
		return rank
	}
	return -1
}

// SourceType tags where a batch originated when it is recorded to history.
type SourceType string

const (
	SourceManual SourceType = "manual"
	SourceEmail  SourceType = "email"
)

// BatchResult is one normalized per-URL record from a batch response.
type BatchResult struct {
	URL                   string     `json:"url"`
	Prediction            Prediction `json:"prediction"`
	Confidence            float64    `json:"confidence"`
	RiskLevel             RiskLevel  `json:"risk_level"`
	PhishingProbability   float64    `json:"phishing_probability"`
	LegitimateProbability float64    `json:"legitimate_probability"`
	Timestamp             time.Time  `json:"timestamp"`
}

// ProgressCounters summarizes one completed batch. The whole batch is a
// single network call, so Processed moves from 0 directly to Total.
type ProgressCounters struct {
	Total      int
	Processed  int
	Successful int
	Failed     int
}

// BatchReport is the outcome of one batch submission: the normalized
// results plus the counters derived from the server response.
type BatchReport struct {
	BatchID  string
	Results  []BatchResult
	Counters ProgressCounters
	Errors   []RowError
}

// RowError describes a per-URL failure the server reported inside an
// otherwise successful batch response.
type RowError struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

// HistoryEntry is what gets forwarded to the persistent history
// repository for each result of a completed batch.
type HistoryEntry struct {
	URL        string     `json:"url"`
	Prediction Prediction `json:"prediction"`
	Confidence float64    `json:"confidence"`
	RiskLevel  RiskLevel  `json:"risk_level"`
	SourceType SourceType `json:"sourceType"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Session holds the authenticated user's identity and tokens.
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the session's access token has expired.
// Sessions with no recorded expiry are treated as still valid.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// ContactMessage is a contact-form submission.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
