package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceCryptoSymbol(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		want   string
	}{
		{name: "bare coin gets the pair suffix", symbol: "BTC", want: "BTC-USD"},
		{name: "already paired stays untouched", symbol: "BTC-USD", want: "BTC-USD"},
		{name: "non-USD pair still gets the suffix", symbol: "BTC-EUR", want: "BTC-EUR-USD"},
		{name: "lowercase input is normalized", symbol: " eth ", want: "ETH-USD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceCryptoSymbol(tt.symbol))
		})
	}
}
