package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/config"
	"github.com/wonny/liquidity/pkg/logger"
)

func sampleResult() contracts.CompositeResult {
	at := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	snap := contracts.NewSnapshot(at).
		With(contracts.DollarIndex, 121.5).
		With(contracts.MoneySupplyGrowth, 6.5).
		With(contracts.CarryPair, 156.2)
	return contracts.CompositeResult{
		Score:     65,
		Signal:    contracts.SignalExtremeLiquidity,
		Timestamp: at,
		Snapshot:  snap,
		Derived:   contracts.Derived{DollarIndexWoW: -2.4, BalanceSheetWoW: 60000},
	}
}

func sampleAlerts() []contracts.Alert {
	return []contracts.Alert{
		{Type: contracts.AlertOpportunity, Level: "🚀 OPPORTUNITY", Message: "유동성 급증 <확인>", Action: "Risk-ON"},
		{Type: contracts.AlertYenRisk, Level: "⚠️ YEN RISK", Message: "USD/JPY 156.20", Action: "엔캐리 청산 주의"},
	}
}

func testSMTP() config.SMTPConfig {
	return config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "monitor@example.com", FromName: "Liquidity"}
}

// htmlPart extracts the text/html body of a composed message
func htmlPart(t *testing.T, msg []byte) *goquery.Document {
	t.Helper()
	mr, err := mail.CreateReader(bytes.NewReader(msg))
	require.NoError(t, err)

	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, _ := h.ContentType()
		if ct != "text/html" {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(p.Body)
		require.NoError(t, err)
		return doc
	}
	t.Fatal("no text/html part")
	return nil
}

func TestCompose(t *testing.T) {
	m := NewMailer(testSMTP(), time.UTC, logger.Nop())

	msg, err := m.Compose("ops@example.com", sampleAlerts(), sampleResult(), time.Now())
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(msg))
	require.NoError(t, err)
	subj, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, subject, subj)
	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "ops@example.com", to[0].Address)

	doc := htmlPart(t, msg)
	assert.Equal(t, "65", doc.Find("span.score").Text())
	assert.Equal(t, 2, doc.Find("tr.alert").Length())
	assert.Equal(t, "YEN_RISK", doc.Find("tr.alert").Eq(1).AttrOr("data-type", ""))
	// escaped, not injected
	assert.Contains(t, doc.Find("tr.alert").First().Text(), "<확인>")

	var rows []string
	doc.Find("table.indicators tr").Each(func(_ int, s *goquery.Selection) {
		rows = append(rows, strings.Join(strings.Fields(s.Text()), " "))
	})
	assert.Equal(t, []string{
		"DXY 121.50 (-2.40)",
		"WALCL WoW 60000M$",
		"중국 M2 6.5%",
		"USD/JPY 156.20",
	}, rows)
}

func TestSend(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotMsg  []byte
	)
	m := NewMailer(testSMTP(), nil, logger.Nop()).WithSendFunc(
		func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotTo, gotMsg = addr, to, msg
			return nil
		})

	err := m.Send(context.Background(), "ops@example.com", sampleAlerts(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"ops@example.com"}, gotTo)
	assert.NotEmpty(t, gotMsg)
}

func TestSend_NoAlertsIsNoop(t *testing.T) {
	called := false
	m := NewMailer(testSMTP(), nil, logger.Nop()).WithSendFunc(
		func(string, smtp.Auth, string, []string, []byte) error {
			called = true
			return nil
		})

	require.NoError(t, m.Send(context.Background(), "ops@example.com", nil, sampleResult()))
	assert.False(t, called)
}

func TestSend_Errors(t *testing.T) {
	m := NewMailer(config.SMTPConfig{}, nil, logger.Nop())
	err := m.Send(context.Background(), "ops@example.com", sampleAlerts(), sampleResult())
	assert.ErrorIs(t, err, ErrNotConfigured)

	boom := errors.New("connection refused")
	m = NewMailer(testSMTP(), nil, logger.Nop()).WithSendFunc(
		func(string, smtp.Auth, string, []string, []byte) error { return boom })
	err = m.Send(context.Background(), "ops@example.com", sampleAlerts(), sampleResult())
	assert.ErrorIs(t, err, boom)
}

func TestRenderText(t *testing.T) {
	text := RenderText(sampleAlerts(), sampleResult())
	assert.Contains(t, text, "점수: 65")
	assert.Contains(t, text, "[⚠️ YEN RISK] USD/JPY 156.20")
}
