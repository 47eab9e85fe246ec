package decimal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyFormatting(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.NewFromFloat(1234.567))
	assert.Equal(t, "1234.57", m.Round().String())
	assert.Equal(t, "$1234.57", m.Round().Format())

	assert.Equal(t, "500.00", NewMoneyFromDecimal(decimal.NewFromInt(500)).String())
}

func TestMoneyConversions(t *testing.T) {
	monthly := NewMoneyFromDecimal(decimal.NewFromInt(2500))
	assert.True(t, monthly.Annual().Equal(decimal.NewFromInt(30000)))
	assert.True(t, NewMoneyFromDecimal(decimal.NewFromInt(30000)).Monthly().Equal(monthly.Decimal))
}
