// Package export writes workout logs and composed schedules as Parquet files.
package export

import (
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/verte-zerg/pacer/internal/model"
)

// LogRow is the Parquet layout of one workout log.
type LogRow struct {
	ID           string  `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date         string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Title        string  `parquet:"name=title, type=BYTE_ARRAY, convertedtype=UTF8"`
	ActivityType string  `parquet:"name=activity_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DistanceKm   float64 `parquet:"name=distance_km, type=DOUBLE"`
	DurationS    int64   `parquet:"name=duration_s, type=INT64"`
	Pace         string  `parquet:"name=pace, type=BYTE_ARRAY, convertedtype=UTF8"`
	PlanPath     string  `parquet:"name=plan_path, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	PlanDayIndex int64   `parquet:"name=plan_day_index, type=INT64"`
	Source       string  `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// ScheduleRow is the Parquet layout of one scheduled activity.
type ScheduleRow struct {
	Date         string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Week         int64   `parquet:"name=week, type=INT64"`
	DayIndex     int64   `parquet:"name=day_index, type=INT64"`
	ActivityType string  `parquet:"name=activity_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Distance     float64 `parquet:"name=distance, type=DOUBLE"`
	Units        string  `parquet:"name=units, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Pace         string  `parquet:"name=pace, type=BYTE_ARRAY, convertedtype=UTF8"`
	Note         string  `parquet:"name=note, type=BYTE_ARRAY, convertedtype=UTF8"`
	Completed    bool    `parquet:"name=completed, type=BOOLEAN"`
}

// LogRows flattens logs. Unlinked logs carry plan_day_index -1.
func LogRows(logs []model.WorkoutLog) []LogRow {
	rows := make([]LogRow, 0, len(logs))
	for _, l := range logs {
		idx := int64(-1)
		if l.PlanDayIndex != nil {
			idx = int64(*l.PlanDayIndex)
		}
		rows = append(rows, LogRow{
			ID:           l.ID,
			Date:         l.Date,
			Title:        l.Title,
			ActivityType: l.ActivityType,
			DistanceKm:   l.Distance,
			DurationS:    l.Duration,
			Pace:         l.Pace,
			PlanPath:     l.PlanPath,
			PlanDayIndex: idx,
			Source:       l.Source,
		})
	}
	return rows
}

// ScheduleSource supplies the per-activity values a schedule export needs.
type ScheduleSource interface {
	ActivityPace(act model.ScheduledActivity) string
	Completed(dayIndex int) bool
}

// ScheduleRows flattens blocks into one row per activity. Days without
// activities become a single rest row.
func ScheduleRows(blocks []model.WeeklyBlock, src ScheduleSource) []ScheduleRow {
	var rows []ScheduleRow
	for w, b := range blocks {
		for _, d := range b.Days {
			base := ScheduleRow{
				Date:      d.Date,
				Week:      int64(w + 1),
				DayIndex:  int64(d.Index),
				Note:      d.Note,
				Completed: src.Completed(d.Index),
			}
			if len(d.Activities) == 0 {
				row := base
				row.ActivityType = model.ActivityRest
				row.Pace = model.NotAvailable
				rows = append(rows, row)
				continue
			}
			for _, act := range d.Activities {
				row := base
				row.ActivityType = act.Type
				row.Distance = act.Distance
				row.Units = act.Units
				row.Pace = src.ActivityPace(act)
				if act.Note != "" {
					row.Note = act.Note
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// WriteLogs writes logs to a SNAPPY-compressed Parquet file.
func WriteLogs(path string, logs []model.WorkoutLog) (int, error) {
	rows := LogRows(logs)
	out := make([]interface{}, len(rows))
	for i := range rows {
		out[i] = rows[i]
	}
	return writeRows(path, new(LogRow), out)
}

// WriteSchedule writes schedule rows to a SNAPPY-compressed Parquet file.
func WriteSchedule(path string, rows []ScheduleRow) (int, error) {
	out := make([]interface{}, len(rows))
	for i := range rows {
		out[i] = rows[i]
	}
	return writeRows(path, new(ScheduleRow), out)
}

func writeRows(path string, schema interface{}, rows []interface{}) (int, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return 0, err
	}
	pw, err := writer.NewParquetWriter(fw, schema, 4)
	if err != nil {
		_ = fw.Close()
		return 0, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return 0, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return 0, err
	}
	if err := fw.Close(); err != nil {
		return 0, err
	}
	return len(rows), nil
}
