// Package export builds spreadsheet exports of offers
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

const offersSheet = "Offers"

var offerColumns = []string{
	"ID",
	"Client",
	"Leaser",
	"Status",
	"Type",
	"Amount",
	"Coefficient",
	"Monthly payment",
	"Margin",
	"Commission",
	"Converted",
	"Created at",
}

// OffersWorkbook renders the offers into a single-sheet XLSX workbook
func OffersWorkbook(offers []domain.Offer) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(offersSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create offers sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range offerColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(offersSheet, cell, col); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(offersSheet, cell, cell, header); err != nil {
			return nil, err
		}
	}

	for row, offer := range offers {
		leaserName := ""
		if offer.Leaser != nil {
			leaserName = offer.Leaser.Name
		}
		values := []interface{}{
			offer.ID.String(),
			offer.ClientName,
			leaserName,
			string(offer.WorkflowStatus),
			string(offer.Type),
			offer.Amount,
			offer.CoefficientUsed,
			offer.MonthlyPayment,
			offer.Margin,
			offer.Commission,
			offer.ConvertedToContract,
			offer.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(offersSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	// Widen the identifier and name columns for readability.
	if err := f.SetColWidth(offersSheet, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(offersSheet, "B", "C", 24); err != nil {
		return nil, err
	}

	return f, nil
}
