package policy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockbank/bank/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCheckingPolicy_CanWithdraw(t *testing.T) {
	terms := models.AccountTerms{
		OverdraftLimit: dec("100"),
		MinBalance:     dec("0"),
	}
	p, ok := For(models.AccountTypeChecking, terms)
	require.True(t, ok)

	tests := []struct {
		name    string
		balance string
		amount  string
		want    bool
	}{
		{"within balance", "200", "150", true},
		{"into overdraft within limit", "200", "250", false}, // minBalance 0 blocks overdraft
		{"exact balance", "200", "200", true},
		{"zero amount", "200", "0", false},
		{"negative amount", "200", "-5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.CanWithdraw(dec(tt.balance), dec(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckingPolicy_OverdraftFloor(t *testing.T) {
	// Negative minBalance lets the balance go into overdraft up to the limit.
	terms := models.AccountTerms{
		OverdraftLimit: dec("100"),
		MinBalance:     dec("-100"),
	}
	p, ok := For(models.AccountTypeChecking, terms)
	require.True(t, ok)

	assert.True(t, p.CanWithdraw(dec("200"), dec("250")))  // lands at -50
	assert.True(t, p.CanWithdraw(dec("200"), dec("300")))  // lands exactly at -100
	assert.False(t, p.CanWithdraw(dec("200"), dec("301"))) // breaches the floor
}

func TestSavingsPolicy(t *testing.T) {
	terms := models.AccountTerms{
		MinimumBalance: dec("100"),
	}
	p, ok := For(models.AccountTypeSavings, terms)
	require.True(t, ok)

	t.Run("withdraw respects minimum balance", func(t *testing.T) {
		assert.True(t, p.CanWithdraw(dec("250"), dec("150")))
		assert.False(t, p.CanWithdraw(dec("250"), dec("151")))
		assert.False(t, p.CanWithdraw(dec("250"), dec("1000")))
	})

	t.Run("deposit is unconstrained for positive amounts", func(t *testing.T) {
		assert.True(t, p.CanDeposit(dec("250"), dec("1000000")))
		assert.False(t, p.CanDeposit(dec("250"), dec("0")))
		assert.False(t, p.CanDeposit(dec("250"), dec("-1")))
	})
}

func TestCardPolicy(t *testing.T) {
	terms := models.AccountTerms{
		CreditLimit: dec("500"),
	}
	p, ok := For(models.AccountTypeCard, terms)
	require.True(t, ok)

	t.Run("deposit respects credit limit", func(t *testing.T) {
		assert.True(t, p.CanDeposit(dec("100"), dec("400")))  // lands exactly at 500
		assert.False(t, p.CanDeposit(dec("100"), dec("450"))) // 550 > 500
	})

	t.Run("withdraw is a charge, always permitted", func(t *testing.T) {
		assert.True(t, p.CanWithdraw(dec("100"), dec("9999")))
		assert.False(t, p.CanWithdraw(dec("100"), dec("0")))
	})
}

func TestFor_UnknownType(t *testing.T) {
	p, ok := For(models.AccountType("LOAN"), models.AccountTerms{})
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestSavingsInterest(t *testing.T) {
	got := SavingsInterest(dec("1000"), dec("0.05"))
	assert.True(t, got.Equal(dec("50")), "got %s", got)
}

func TestCardMinimumPayment(t *testing.T) {
	got := CardMinimumPayment(dec("500"), dec("100"), dec("0.05"))
	assert.True(t, got.Equal(dec("20")), "got %s", got)
}
