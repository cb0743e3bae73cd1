// Package report renders a batch result as CSV or JSON rows. Both are pure
// projections of the BatchResult table; no classification happens here.
package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/hamed0406/certwatch/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// Row is one exported line of the detailed results table.
type Row struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Expiry   string `json:"expiry"` // "-" when the probe failed
	DaysLeft *int   `json:"days_left"`
	Status   string `json:"status"`
	Error    string `json:"error"`
}

func Rows(res *domain.BatchResult) []Row {
	rows := make([]Row, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		rows = append(rows, Row{
			Host:     o.Host,
			Port:     o.Port,
			Expiry:   expiryDisplay(o),
			DaysLeft: o.DaysLeft,
			Status:   string(o.Status),
			Error:    o.Error,
		})
	}
	return rows
}

func WriteCSV(w io.Writer, res *domain.BatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"host", "port", "expiry", "days_left", "status", "error"}); err != nil {
		return err
	}
	for _, row := range Rows(res) {
		days := ""
		if row.DaysLeft != nil {
			days = strconv.Itoa(*row.DaysLeft)
		}
		rec := []string{row.Host, strconv.Itoa(row.Port), row.Expiry, days, row.Status, row.Error}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, res *domain.BatchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Rows(res))
}

func expiryDisplay(o domain.Outcome) string {
	if o.Expiry == nil {
		return "-"
	}
	return o.Expiry.UTC().Format(timeLayout)
}
