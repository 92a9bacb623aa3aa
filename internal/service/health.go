package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"healthmon/internal/anomaly"
	"healthmon/internal/cache"
	"healthmon/internal/config"
	"healthmon/internal/domain"
	"healthmon/internal/health"
	"healthmon/internal/metrics"
	"healthmon/internal/repository"
)

type HealthService struct {
	repos  *repository.Repos
	cache  *cache.Cache
	alerts *AlertService
	models *modelRegistry
}

// Ingest validates, scores and persists one vitals reading, then runs the
// anomaly check and raises an alert if it trips. This is the single write
// path shared by the JSON API, the device API and the MQTT ingestor.
func (s *HealthService) Ingest(userID string, p domain.VitalsPayload, source string) (*domain.HealthRecord, error) {
	if err := health.ValidateVitals(p.HeartRate, p.BloodOxygen); err != nil {
		return nil, err
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	if p.ActivityLevel == "" {
		p.ActivityLevel = domain.ActivityModerate
	}

	scored := health.CalculateScore(p.HeartRate, p.BloodOxygen, p.ActivityLevel)
	rec := &domain.HealthRecord{
		UserID:        userID,
		DeviceID:      p.DeviceID,
		Timestamp:     p.Timestamp,
		HeartRate:     p.HeartRate,
		BloodOxygen:   p.BloodOxygen,
		ActivityLevel: p.ActivityLevel,
		HealthScore:   &scored.Score,
	}
	if err := s.repos.InsertHealthRecord(rec); err != nil {
		return nil, fmt.Errorf("insert health record: %w", err)
	}
	metrics.VitalsIngested.WithLabelValues(source).Inc()

	s.checkForAnomalies(rec)

	if s.cache != nil {
		if err := s.cache.StoreLatest(rec); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("cache latest vitals")
		}
	}
	return rec, nil
}

// checkForAnomalies uses the user's trained model when one exists and falls
// back to threshold rules otherwise. Detection failures are logged, never
// fatal to the ingest.
func (s *HealthService) checkForAnomalies(rec *domain.HealthRecord) {
	if m, ok := s.models.get(rec.UserID); ok {
		s.checkWithModel(rec, m)
		return
	}

	verdict := health.CheckRules(rec.HeartRate, rec.BloodOxygen, health.Thresholds{
		HeartRateLow:   config.HeartRateCriticalLow(),
		HeartRateHigh:  config.HeartRateCriticalHigh(),
		BloodOxygenLow: config.BloodOxygenCriticalLow(),
	})
	if !verdict.IsAnomaly {
		return
	}
	metrics.AnomaliesDetected.WithLabelValues("rules").Inc()

	score := 1.0
	if err := s.repos.UpdateAnomalyColumns(rec.ID, true, score); err != nil {
		log.Error().Err(err).Int64("record_id", rec.ID).Msg("update anomaly columns")
		return
	}
	rec.IsAnomaly = true
	rec.AnomalyScore = &score

	recs, _ := json.Marshal(health.Recommendations(rec.HeartRate, rec.BloodOxygen, rec.ActivityLevel))
	s.alerts.Raise(&domain.Alert{
		UserID:          rec.UserID,
		AlertType:       "anomaly",
		Severity:        verdict.Severity,
		Title:           "Health Anomaly Detected",
		Message:         strings.Join(verdict.Messages, "; "),
		Recommendations: string(recs),
		HealthRecordID:  &rec.ID,
	})
}

func (s *HealthService) checkWithModel(rec *domain.HealthRecord, m trainedModel) {
	// Score the new reading in the context of the user's recent window so the
	// rolling features line up with how the model was trained.
	recent, err := s.repos.RecentHealthRecords(rec.UserID, anomaly.RollingWindow)
	if err != nil {
		log.Error().Err(err).Str("user_id", rec.UserID).Msg("load window for anomaly check")
		return
	}
	obs := observationsFromRecords(recent)
	X := anomaly.BuildMatrix(obs)
	if len(X) == 0 {
		return
	}
	last := len(X) - 1

	flags, err := m.detector.Predict(X)
	if err != nil {
		log.Error().Err(err).Str("user_id", rec.UserID).Msg("anomaly predict")
		return
	}
	scores, err := m.detector.Scores(X)
	if err != nil {
		log.Error().Err(err).Str("user_id", rec.UserID).Msg("anomaly scores")
		return
	}

	score := scores[last]
	if err := s.repos.UpdateAnomalyColumns(rec.ID, flags[last], score); err != nil {
		log.Error().Err(err).Int64("record_id", rec.ID).Msg("update anomaly columns")
		return
	}
	rec.IsAnomaly = flags[last]
	rec.AnomalyScore = &score
	if !flags[last] {
		return
	}
	metrics.AnomaliesDetected.WithLabelValues(m.method).Inc()

	severity := domain.SeverityMedium
	if score > 0.7 {
		severity = domain.SeverityHigh
	}
	s.alerts.Raise(&domain.Alert{
		UserID:         rec.UserID,
		AlertType:      "anomaly",
		Severity:       severity,
		Title:          "Model Anomaly Detection Alert",
		Message:        fmt.Sprintf("Anomaly detected in health data (score: %.2f)", score),
		HealthRecordID: &rec.ID,
	})
}

// TrainingResult summarizes a completed training run.
type TrainingResult struct {
	ModelType         string  `json:"model_type"`
	TotalSamples      int     `json:"total_samples"`
	AnomaliesDetected int     `json:"anomalies_detected"`
	AnomalyRate       float64 `json:"anomaly_rate"`
}

// TrainModel fits a detector on the user's recent history, stores it in the
// registry and backfills predictions onto the training rows. Requires at
// least MinTrainingRecords rows.
func (s *HealthService) TrainModel(userID, modelType string) (*TrainingResult, error) {
	records, err := s.repos.RecentHealthRecords(userID, 1000)
	if err != nil {
		return nil, fmt.Errorf("load training data: %w", err)
	}
	if len(records) < config.MinTrainingRecords() {
		return nil, ErrInsufficientTraining
	}

	detector, err := anomaly.New(modelType, config.AnomalyContamination())
	if err != nil {
		return nil, err
	}

	obs := observationsFromRecords(records)
	X := anomaly.BuildMatrix(obs)

	start := time.Now()
	if err := detector.Fit(X); err != nil {
		return nil, fmt.Errorf("train %s: %w", modelType, err)
	}
	metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	metrics.ModelsTrained.WithLabelValues(modelType).Inc()

	s.models.put(userID, trainedModel{detector: detector, method: modelType})

	flags, err := detector.Predict(X)
	if err != nil {
		return nil, err
	}
	scores, err := detector.Scores(X)
	if err != nil {
		return nil, err
	}

	// obs is chronological while records is newest-first.
	count := 0
	for i, rec := range reverseRecords(records) {
		if err := s.repos.UpdateAnomalyColumns(rec.ID, flags[i], scores[i]); err != nil {
			log.Error().Err(err).Int64("record_id", rec.ID).Msg("backfill anomaly columns")
			continue
		}
		if flags[i] {
			count++
		}
	}

	log.Info().Str("user_id", userID).Str("model_type", modelType).
		Int("samples", len(records)).Int("anomalies", count).Msg("model trained")

	return &TrainingResult{
		ModelType:         modelType,
		TotalSamples:      len(records),
		AnomaliesDetected: count,
		AnomalyRate:       float64(count) / float64(len(records)),
	}, nil
}

// CurrentStatus is the dashboard summary for a user.
type CurrentStatus struct {
	Status        string   `json:"status"`
	HeartRate     float64  `json:"heart_rate"`
	BloodOxygen   float64  `json:"blood_oxygen"`
	ActivityLevel string   `json:"activity_level"`
	HealthScore   float64  `json:"health_score"`
	IsAnomaly     bool     `json:"is_anomaly"`
	LastUpdated   string   `json:"last_updated"`
	HasData       bool     `json:"has_data"`
}

// Status reads the latest record, preferring the Redis cache.
func (s *HealthService) Status(userID string) (*CurrentStatus, error) {
	var rec *domain.HealthRecord
	if s.cache != nil {
		cached, err := s.cache.Latest(userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("read latest vitals cache")
		} else {
			rec = cached
		}
	}
	if rec == nil {
		stored, err := s.repos.LatestHealthRecord(userID)
		if err == repository.ErrNotFound {
			return &CurrentStatus{Status: "No data available"}, nil
		}
		if err != nil {
			return nil, err
		}
		rec = stored
	}

	score := 0.0
	if rec.HealthScore != nil {
		score = *rec.HealthScore
	} else {
		score = health.CalculateScore(rec.HeartRate, rec.BloodOxygen, rec.ActivityLevel).Score
		if err := s.repos.UpdateHealthScore(rec.ID, score); err != nil {
			log.Error().Err(err).Int64("record_id", rec.ID).Msg("backfill health score")
		}
	}

	status := "Normal"
	if rec.IsAnomaly {
		status = "Anomaly Detected"
	}
	return &CurrentStatus{
		Status:        status,
		HeartRate:     rec.HeartRate,
		BloodOxygen:   rec.BloodOxygen,
		ActivityLevel: rec.ActivityLevel,
		HealthScore:   score,
		IsAnomaly:     rec.IsAnomaly,
		LastUpdated:   rec.Timestamp.UTC().Format("2006-01-02 15:04:05 MST"),
		HasData:       true,
	}, nil
}

// Recent returns up to limit records, newest first.
func (s *HealthService) Recent(userID string, limit int) ([]domain.HealthRecord, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.repos.RecentHealthRecords(userID, limit)
}

// Trends reports heart-rate and blood-oxygen direction over recent history.
func (s *HealthService) Trends(userID string) (map[string]string, error) {
	records, err := s.repos.RecentHealthRecords(userID, 100)
	if err != nil {
		return nil, err
	}
	ordered := reverseRecords(records)
	hr := make([]float64, len(ordered))
	spo2 := make([]float64, len(ordered))
	for i, r := range ordered {
		hr[i] = r.HeartRate
		spo2[i] = r.BloodOxygen
	}
	return map[string]string{
		"heart_rate":   health.Trend(hr),
		"blood_oxygen": health.Trend(spo2),
	}, nil
}

func observationsFromRecords(newestFirst []domain.HealthRecord) []anomaly.Observation {
	ordered := reverseRecords(newestFirst)
	obs := make([]anomaly.Observation, len(ordered))
	for i, r := range ordered {
		obs[i] = anomaly.Observation{
			Timestamp:     r.Timestamp,
			HeartRate:     r.HeartRate,
			BloodOxygen:   r.BloodOxygen,
			ActivityLevel: domain.ActivityNumeric(r.ActivityLevel),
		}
	}
	return obs
}

func reverseRecords(in []domain.HealthRecord) []domain.HealthRecord {
	out := make([]domain.HealthRecord, len(in))
	for i, r := range in {
		out[len(in)-1-i] = r
	}
	return out
}
