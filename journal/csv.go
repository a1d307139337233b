package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"event_id", "symbol", "timeframe", "time", "type", "direction", "prediction", "reason"}); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) Record(e Event) error {
	if err := j.w.Write([]string{
		e.EventID,
		e.Symbol,
		e.Timeframe,
		e.Time.Format(time.RFC3339),
		e.Type,
		e.Direction,
		strconv.FormatFloat(e.Prediction, 'f', -1, 64),
		e.Reason,
	}); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}
