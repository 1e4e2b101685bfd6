package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/liquidity/internal/contracts"
)

func sample() ([]contracts.CompositeResult, []contracts.AlertRecord) {
	at := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	snap := contracts.NewSnapshot(at).With(contracts.BalanceSheet, 7700000).With(contracts.CarryPair, 147.5)
	results := []contracts.CompositeResult{
		{Score: 20, Signal: contracts.SignalHighLiquidity, Recommendation: "매수", Timestamp: at, Snapshot: snap,
			Components: contracts.ScoreComponents{US: 20}},
		{Score: -50, Signal: contracts.SignalTight, Recommendation: "축소", Timestamp: at.AddDate(0, 0, 7), Snapshot: snap},
	}
	alerts := []contracts.AlertRecord{
		{BatchID: "b1", Timestamp: at, Score: -50, Signal: contracts.SignalTight,
			Alert: contracts.Alert{Level: "⚠️ WARNING", Message: "유동성 경색", Action: "현금 확대"}},
	}
	return results, alerts
}

func TestWrite(t *testing.T) {
	results, alerts := sample()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, results, alerts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{GlobalHistorySheet, AlertHistorySheet}, f.GetSheetList())

	rows, err := f.GetRows(GlobalHistorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "타임스탬프", rows[0][0])
	assert.Equal(t, len(globalHeader), len(rows[0]))
	assert.Equal(t, "2024-01-10", rows[1][0])
	assert.Equal(t, "7700000", rows[1][1])
	assert.Equal(t, "2024-01-17", rows[2][0])

	score, err := f.GetCellValue(GlobalHistorySheet, "T2")
	require.NoError(t, err)
	assert.Equal(t, "20", score)

	alertRows, err := f.GetRows(AlertHistorySheet)
	require.NoError(t, err)
	require.Len(t, alertRows, 2)
	assert.Equal(t, "유동성 경색", alertRows[1][4])
}

func TestSave_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")
	require.NoError(t, Save(path, nil, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(AlertHistorySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
