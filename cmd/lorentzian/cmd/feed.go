package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/lorentzian/market"
)

// barFeed yields bars from a CSV file one at a time. Deterministic;
// returns (ok=false, err=nil) at EOF.
//
// Expected columns: time,open,high,low,close,volume. Time is RFC3339 or a
// unix-seconds integer. A header row is skipped automatically.
type barFeed struct {
	f *os.File
	r *csv.Reader

	line int
}

func openBarFeed(path string) (*barFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = 6
	return &barFeed{f: f, r: r}, nil
}

func (bf *barFeed) Next() (market.Bar, bool, error) {
	for {
		rec, err := bf.r.Read()
		if err == io.EOF {
			return market.Bar{}, false, nil
		}
		if err != nil {
			return market.Bar{}, false, err
		}
		bf.line++

		b, err := parseBar(rec)
		if err != nil {
			if bf.line == 1 {
				// Header row.
				continue
			}
			return market.Bar{}, false, fmt.Errorf("line %d: %w", bf.line, err)
		}
		return b, true, nil
	}
}

func (bf *barFeed) Close() error {
	return bf.f.Close()
}

func parseBar(rec []string) (market.Bar, error) {
	var b market.Bar

	t, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		secs, serr := strconv.ParseInt(rec[0], 10, 64)
		if serr != nil {
			return b, fmt.Errorf("bad time %q", rec[0])
		}
		t = time.Unix(secs, 0).UTC()
	}
	b.Time = t

	fields := []*float64{&b.Open, &b.High, &b.Low, &b.Close, &b.Volume}
	for i, dst := range fields {
		v, err := strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return b, fmt.Errorf("bad value %q", rec[i+1])
		}
		*dst = v
	}
	return b, nil
}
