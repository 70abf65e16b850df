// Package export renders the admin xlsx report.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/config"
	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	SheetMaterials    = "Materials"
	SheetTransactions = "All Transactions"
	SheetBackup       = "Monthly Backup"

	scanTimeLayout = "2006-01-02 15:04:05"
	// excelize names the sheet of a new workbook Sheet1.
	defaultSheet = "Sheet1"
	// negative limit lifts the cap on the transaction query.
	noLimit = -1
)

var (
	materialHeaders    = []any{"ID", "Material Name", "Material Code", "Total Qty", "Available Qty"}
	transactionHeaders = []any{"ID", "Username", "Item Code", "Item Name", "Action", "Quantity", "Scan Time"}
)

type materialsLister interface {
	List(ctx context.Context) ([]models.Material, error)
}

type transactionsLister interface {
	ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error)
	ListTransactionsSince(ctx context.Context, since time.Time) ([]models.Transaction, error)
}

// Report is a rendered workbook ready to be streamed.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service builds the admin report.
type Service interface {
	Build(ctx context.Context) (*Report, error)
}

type service struct {
	materials    materialsLister
	transactions transactionsLister
	window       time.Duration
	now          func() time.Time
}

// NewService wires the export service. The backup sheet covers cfg.BackupWindow.
func NewService(materials materialsLister, transactions transactionsLister, cfg config.StockConfig) (Service, error) {
	if materials == nil {
		return nil, fmt.Errorf("materials lister required")
	}
	if transactions == nil {
		return nil, fmt.Errorf("transactions lister required")
	}
	window := cfg.BackupWindow
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	return &service{
		materials:    materials,
		transactions: transactions,
		window:       window,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Build(ctx context.Context) (*Report, error) {
	now := s.now()

	materials, err := s.materials.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list materials")
	}
	all, err := s.transactions.ListTransactions(ctx, noLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions")
	}
	recent, err := s.transactions.ListTransactionsSince(ctx, now.Add(-s.window))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recent transactions")
	}

	data, err := render(materials, all, recent)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render workbook")
	}
	return &Report{
		Filename:    Filename(now),
		ContentType: ContentType,
		Data:        data,
	}, nil
}

// Filename is the download name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("Admin_Report_%s.xlsx", t.Format("2006-01-02"))
}

func render(materials []models.Material, all, recent []models.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, SheetMaterials); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetTransactions, SheetBackup} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	materialRows := make([][]any, 0, len(materials))
	for _, m := range materials {
		materialRows = append(materialRows, []any{m.ID, m.Name, m.Code, m.OpeningBalance, m.AvailableQuantity})
	}
	if err := writeSheet(f, SheetMaterials, header, materialHeaders, materialRows); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetTransactions, header, transactionHeaders, transactionRows(all)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetBackup, header, transactionHeaders, transactionRows(recent)); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func transactionRows(rows []models.Transaction) [][]any {
	out := make([][]any, 0, len(rows))
	for _, t := range rows {
		out = append(out, []any{
			t.ID,
			t.Username,
			t.ItemCode,
			t.ItemName,
			string(t.Action),
			t.Quantity,
			t.ScanTime.UTC().Format(scanTimeLayout),
		})
	}
	return out
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}
