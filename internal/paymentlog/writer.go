package paymentlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/segyhp/student-loan-simulator/internal/domain"
	"github.com/segyhp/student-loan-simulator/pkg/utils"

	"github.com/shopspring/decimal"
)

// Writer appends pay cycle records to a simple and an expanded CSV payment log.
// Header rows are written once, when the Writer is created.
type Writer struct {
	simple   *csv.Writer
	expanded *csv.Writer
	loanKeys []string
	closers  []io.Closer
}

// NewWriter writes the header rows for loans to both views
func NewWriter(simple, expanded io.Writer, loans []*domain.Loan) (*Writer, error) {
	keys := make([]string, 0, len(loans))
	for _, loan := range loans {
		keys = append(keys, loan.Key())
	}

	w := &Writer{
		simple:   csv.NewWriter(simple),
		expanded: csv.NewWriter(expanded),
		loanKeys: keys,
	}

	if err := w.writeHeaders(); err != nil {
		return nil, err
	}
	return w, nil
}

// CreateFiles creates dir if needed and starts <prefix>_simple.csv and
// <prefix>_expanded.csv inside it, replacing any earlier logs
func CreateFiles(dir, prefix string, loans []*domain.Loan) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	simple, err := os.Create(filepath.Join(dir, prefix+"_simple.csv"))
	if err != nil {
		return nil, fmt.Errorf("create simple payment log: %w", err)
	}

	expanded, err := os.Create(filepath.Join(dir, prefix+"_expanded.csv"))
	if err != nil {
		simple.Close()
		return nil, fmt.Errorf("create expanded payment log: %w", err)
	}

	w, err := NewWriter(simple, expanded, loans)
	if err != nil {
		simple.Close()
		expanded.Close()
		return nil, err
	}
	w.closers = []io.Closer{simple, expanded}

	return w, nil
}

func (w *Writer) writeHeaders() error {
	simpleHeader := []string{"Date", "Total Payment"}
	simpleHeader = append(simpleHeader, w.loanKeys...)

	expandedHeader := []string{"Date", "Total Principal", "Total Interest", "Total Payment"}
	for _, key := range w.loanKeys {
		expandedHeader = append(expandedHeader, key+" Principal", key+" Interest", key+" Total")
	}

	return w.writeRows(simpleHeader, expandedHeader)
}

// WriteCycle appends one row per view for record
func (w *Writer) WriteCycle(record *domain.CycleRecord) error {
	if len(record.Loans) != len(w.loanKeys) {
		return fmt.Errorf("cycle %s has %d loans, payment log has %d", utils.FormatDate(record.Date), len(record.Loans), len(w.loanKeys))
	}

	label := utils.MonthYearLabel(record.Date)

	simpleRow := []string{label, money(record.TotalPayment)}
	expandedRow := []string{label, money(record.TotalPrincipal), money(record.TotalInterest), money(record.TotalPayment)}
	for _, lp := range record.Loans {
		simpleRow = append(simpleRow, money(lp.Total))
		expandedRow = append(expandedRow, money(lp.Principal), money(lp.Interest), money(lp.Total))
	}

	return w.writeRows(simpleRow, expandedRow)
}

func (w *Writer) writeRows(simpleRow, expandedRow []string) error {
	if err := w.simple.Write(simpleRow); err != nil {
		return fmt.Errorf("write simple payment log: %w", err)
	}
	if err := w.expanded.Write(expandedRow); err != nil {
		return fmt.Errorf("write expanded payment log: %w", err)
	}

	w.simple.Flush()
	if err := w.simple.Error(); err != nil {
		return fmt.Errorf("flush simple payment log: %w", err)
	}
	w.expanded.Flush()
	if err := w.expanded.Error(); err != nil {
		return fmt.Errorf("flush expanded payment log: %w", err)
	}
	return nil
}

// Close closes the files opened by CreateFiles
func (w *Writer) Close() error {
	var firstErr error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.closers = nil
	return firstErr
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
