package capture

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes one row per sample: the time offset in seconds followed
// by one column per analog channel (volts) or DIO line (0 or 1).
func WriteCSV(w io.Writer, r *Record) error {
	cw := csv.NewWriter(w)
	rate := r.Rate().Hertz()
	timeAt := func(i int) string {
		if rate == 0 {
			return "0"
		}
		return strconv.FormatFloat(float64(i)/rate, 'g', -1, 64)
	}

	switch {
	case r.Scope != nil:
		header := []string{"time_s"}
		for _, ch := range r.Scope.Channels {
			header = append(header, fmt.Sprintf("ch%d_V", ch.Index))
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		row := make([]string, len(header))
		for i := 0; i < r.Scope.Len(); i++ {
			row[0] = timeAt(i)
			for j, ch := range r.Scope.Channels {
				row[j+1] = ""
				if i < len(ch.Samples) {
					row[j+1] = strconv.FormatFloat(ch.Samples[i].Volts(), 'g', -1, 64)
				}
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	case r.Logic != nil:
		header := []string{"time_s"}
		for n := 0; n < r.Lines; n++ {
			header = append(header, fmt.Sprintf("dio%d", n))
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		row := make([]string, len(header))
		for i, s := range r.Logic.Samples {
			row[0] = timeAt(i)
			for n := 0; n < r.Lines; n++ {
				row[n+1] = strconv.FormatUint(uint64(s>>uint(n)&1), 10)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("capture %s has no data", r.ID)
	}

	cw.Flush()
	return cw.Error()
}
