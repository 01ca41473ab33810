package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/hamed0406/urlchecker/internal/domain"
)

var csvHeader = []string{"url", "status_code", "response_time_ms", "ssl_valid", "redirected", "ip", "error"}

// WriteCSV writes a header row and one row per result. Absent numbers are empty cells.
func WriteCSV(w io.Writer, results []domain.ProbeResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		status, ms := "", ""
		if r.StatusCode != nil {
			status = strconv.Itoa(*r.StatusCode)
		}
		if r.ResponseTimeMS != nil {
			ms = strconv.FormatInt(*r.ResponseTimeMS, 10)
		}
		row := []string{
			r.URL, status, ms,
			strconv.FormatBool(r.SSLValid),
			strconv.FormatBool(r.Redirected),
			r.IP, r.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
