package models

import "time"

// Prediction is one stored classification result.
type Prediction struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	ImagePath      string    `db:"image_path"`
	PredictedClass Severity  `db:"predicted_class"`
	Confidence     float64   `db:"confidence"`
	Timestamp      time.Time `db:"timestamp"`
}

// ClassCount is the number of predictions of one class.
type ClassCount struct {
	Class Severity
	Count int
}

// HistorySummary aggregates a user's predictions.
type HistorySummary struct {
	TotalScans int
	LastScan   *time.Time
	// Counts has one entry per class, in SeverityClasses order.
	Counts     []ClassCount
	MostCommon *Severity
}
