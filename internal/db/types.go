package db

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Time is stored as fractional unix seconds. The zero Time is stored as NULL.
type Time time.Time

// Scan implements the sql.Scanner interface.
func (t *Time) Scan(src any) error {
	if src == nil {
		*t = Time{}
		return nil
	}

	var secs float64
	switch v := src.(type) {
	case float64:
		secs = v
	case int64:
		secs = float64(v)
	default:
		return fmt.Errorf("can't scan into db.Time: %T", src)
	}

	*t = Time(time.UnixMilli(int64(secs * 1000)))
	return nil
}

// Value implements the driver.Valuer interface.
func (t Time) Value() (driver.Value, error) {
	if time.Time(t).IsZero() {
		return nil, nil
	}
	return float64(time.Time(t).UnixNano()) / float64(time.Second), nil
}
