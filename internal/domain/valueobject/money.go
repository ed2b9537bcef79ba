package valueobject

import (
	"fmt"
	"math"
	"strings"

	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

const DefaultCurrency = "EGP"

// MaxAmount - предел колонки price_amount NUMERIC(14, 2).
const MaxAmount = 999_999_999_999.99

type Money struct {
	Amount   float64
	Currency string
}

func NewMoney(amount float64, currency string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, apperror.Validation("price", "некорректная цена")
	}
	if amount < 0 {
		return Money{}, apperror.Validation("price", "цена не может быть отрицательной")
	}
	if amount > MaxAmount {
		return Money{}, apperror.Validation("price", "цена слишком большая")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return Money{}, apperror.Validation("currency", "код валюты должен состоять из трёх букв")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Amount, m.Currency)
}
