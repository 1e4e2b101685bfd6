package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/liquidity/internal/contracts"
)

// Sheet names
const (
	GlobalHistorySheet = "Global_History"
	AlertHistorySheet  = "Alert_History"
)

var globalHeader = []interface{}{
	"타임스탬프",
	"WALCL(M$)", "WALCL WoW",
	"TGA(M$)", "TGA WoW",
	"ON RRP(M$)",
	"DXY", "DXY WoW",
	"중국 M2(%)",
	"USD/JPY",
	"USD/KRW", "USD/BRL", "USD/MXN", "EM 강세지수",
	"US", "Dollar", "China", "Japan", "EM",
	"유동성 점수", "신호", "투자 권장",
}

var alertHeader = []interface{}{
	"타임스탬프", "유동성 점수", "신호", "알림 레벨", "메시지", "권장 조치",
}

func globalRow(r contracts.CompositeResult) []interface{} {
	s, d, c := r.Snapshot, r.Derived, r.Components
	return []interface{}{
		r.Timestamp.Format(contracts.DateLayout),
		s.Get(contracts.BalanceSheet), d.BalanceSheetWoW,
		s.Get(contracts.TreasuryAccount), d.TreasuryWoW,
		s.Get(contracts.ReverseRepo),
		s.Get(contracts.DollarIndex), d.DollarIndexWoW,
		s.Get(contracts.MoneySupplyGrowth),
		s.Get(contracts.CarryPair),
		s.Get(contracts.USDKRW), s.Get(contracts.USDBRL), s.Get(contracts.USDMXN), d.EMIndex,
		c.US, c.Dollar, c.China, c.Japan, c.EM,
		r.Score, r.Signal.Label(), r.Recommendation,
	}
}

func alertRow(rec contracts.AlertRecord) []interface{} {
	return []interface{}{
		rec.Timestamp.Format("2006-01-02 15:04:05"),
		rec.Score, rec.Signal.Label(),
		rec.Alert.Level, rec.Alert.Message, rec.Alert.Action,
	}
}

// Build creates a workbook with the Global_History and Alert_History sheets.
// Rows keep the given order.
func Build(results []contracts.CompositeResult, alerts []contracts.AlertRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), GlobalHistorySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, GlobalHistorySheet, globalHeader, len(results), func(i int) []interface{} {
		return globalRow(results[i])
	}); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(AlertHistorySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := writeSheet(f, AlertHistorySheet, alertHeader, len(alerts), func(i int) []interface{} {
		return alertRow(alerts[i])
	}); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, n int, row func(int) []interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(i)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// Write builds the workbook and writes it as .xlsx to w
func Write(w io.Writer, results []contracts.CompositeResult, alerts []contracts.AlertRecord) error {
	f, err := Build(results, alerts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save builds the workbook and saves it to path
func Save(path string, results []contracts.CompositeResult, alerts []contracts.AlertRecord) error {
	f, err := Build(results, alerts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
