package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_ParseRoundTrip(t *testing.T) {
	for _, s := range append(Signals(), SignalError) {
		parsed, err := ParseSignal(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestSignal_Ordering(t *testing.T) {
	bands := Signals()
	require.Len(t, bands, 7)

	for i := 1; i < len(bands); i++ {
		if bands[i] >= bands[i-1] {
			t.Errorf("Signals() not ordered loosest to tightest at %d: %v >= %v", i, bands[i], bands[i-1])
		}
	}
}

func TestSignal_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Signal{"signal": SignalHighLiquidity})
	require.NoError(t, err)
	assert.JSONEq(t, `{"signal":"high_liquidity"}`, string(data))

	var out map[string]Signal
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, SignalHighLiquidity, out["signal"])

	assert.Error(t, json.Unmarshal([]byte(`{"signal":"bogus"}`), &out))
}

func TestSignal_Label(t *testing.T) {
	assert.Equal(t, "⚖️ NEUTRAL", SignalNeutral.Label())
	assert.Equal(t, "signal(42)", Signal(42).Label())
}
