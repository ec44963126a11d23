package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"framewatch/internal/dao"
)

// LabelList stores the enriched detection labels as a JSON column.
type LabelList []dao.DetectedLabel

func (l LabelList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *LabelList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported label list column type %T", value)
	}
}

// FrameRecord is the persisted, immutable result of processing one frame.
// (processed_year_month, processed_timestamp) back the recency query; the
// stored object lives at ObjectBucket/ObjectKey.
type FrameRecord struct {
	Id                     int             `json:"-" gorm:"primaryKey"`
	FrameId                string          `json:"frameId" gorm:"size:36;uniqueIndex"`
	ProcessedTimestamp     float64         `json:"processedTimestamp" gorm:"index:idx_month_ts,priority:2;NOT NULL"`
	ApproxCaptureTimestamp float64         `json:"approxCaptureTimestamp"`
	Labels                 LabelList       `json:"labels" gorm:"type:json"`
	OrientationCorrection  dao.Orientation `json:"orientationCorrection" gorm:"size:16;default:ROTATE_0"`
	ProcessedYearMonth     string          `json:"processedYearMonth" gorm:"size:6;index:idx_month_ts,priority:1"`
	ObjectBucket           string          `json:"objectBucket" gorm:"size:128"`
	ObjectKey              string          `json:"objectKey" gorm:"size:256"`
	CreateTime             time.Time       `json:"-" gorm:"datetime;autoCreateTime"`
}

func (FrameRecord) TableName() string {
	return "frame_records"
}

// TimeToTs converts a time to fractional epoch seconds with microsecond
// precision, the timestamp representation used throughout the pipeline.
func TimeToTs(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

// YearMonth renders the monthly partition key, e.g. "202608", in loc.
func YearMonth(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("200601")
}

// WindowPartitions returns the partition keys covered by the recency window
// [now-horizon, now], newest month first. Normally one key; more when the
// window crosses month boundaries, so a query just after rollover still sees
// the earlier months' frames. Every month the window touches is included,
// not just the endpoints.
func WindowPartitions(now time.Time, horizon time.Duration, loc *time.Location) []string {
	start := now.Add(-horizon).In(loc)
	end := now.In(loc)

	parts := []string{end.Format("200601")}
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc)
	cur := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, loc)
	for cur.After(first) {
		cur = cur.AddDate(0, -1, 0)
		parts = append(parts, cur.Format("200601"))
	}
	return parts
}

// FrameIndex is the metadata index surface the processor and retrieval
// service depend on.
type FrameIndex interface {
	Insert(rec *FrameRecord) error
	RecentFrames(partitions []string, horizonTs float64, limit int) ([]FrameRecord, error)
}

type FrameStore struct {
	db *gorm.DB
}

func NewFrameStore(db *gorm.DB) *FrameStore {
	return &FrameStore{db: db}
}

func (s *FrameStore) Insert(rec *FrameRecord) error {
	return s.db.Create(rec).Error
}

// RecentFrames returns up to limit records newer than horizonTs (strict >)
// within the given partitions, most recent first.
func (s *FrameStore) RecentFrames(partitions []string, horizonTs float64, limit int) ([]FrameRecord, error) {
	var recs []FrameRecord
	err := s.db.
		Where("processed_year_month IN ? AND processed_timestamp > ?", partitions, horizonTs).
		Order("processed_timestamp DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
