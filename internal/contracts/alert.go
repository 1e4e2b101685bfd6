package contracts

import "time"

// AlertType identifies an alert rule
type AlertType string

const (
	AlertOpportunity AlertType = "OPPORTUNITY"
	AlertWarning     AlertType = "WARNING"
	AlertChinaRisk   AlertType = "CHINA_RISK"
	AlertYenRisk     AlertType = "YEN_RISK"
	AlertDXYMove     AlertType = "DXY_MOVE"
)

// Severity groups alerts for display
type Severity string

const (
	SeverityOpportunity Severity = "opportunity"
	SeverityWarning     Severity = "warning"
	SeverityRisk        Severity = "risk"
)

// Alert is one triggered rule
type Alert struct {
	Type     AlertType `json:"type"`
	Severity Severity  `json:"severity"`
	Level    string    `json:"level"` // display text, e.g. "🚀 OPPORTUNITY"
	Message  string    `json:"message"`
	Action   string    `json:"action"`
}

// AlertRecord is one persisted alert row (one per alert, sharing a batch id)
type AlertRecord struct {
	BatchID   string    `json:"batch_id"`
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
	Signal    Signal    `json:"signal"`
	Alert     Alert     `json:"alert"`
}
