package domain

import "math"

// Money 用最小货币单位（整数分）加币种表示金额，规避浮点漂移。
// 不可变：所有运算返回新值。
type Money struct {
	cents    int64
	currency string
}

// NewMoney 从整数分构造。负数或空币种非法。
func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	if currency == "" {
		return Money{}, ErrMissingCurrency
	}
	return Money{cents: cents, currency: currency}, nil
}

// MoneyFromDecimal 从十进制金额构造，四舍五入到分。
func MoneyFromDecimal(value float64, currency string) (Money, error) {
	if value < 0 {
		return Money{}, ErrNegativeAmount
	}
	return NewMoney(int64(math.Round(value*100)), currency)
}

// Cents 返回整数分。
func (m Money) Cents() int64 {
	return m.cents
}

// Value 返回十进制金额 (cents/100)。
func (m Money) Value() float64 {
	return float64(m.cents) / 100
}

// Currency 返回币种代码。
func (m Money) Currency() string {
	return m.currency
}

// IsZero 金额是否为零。
func (m Money) IsZero() bool {
	return m.cents == 0
}

// Add 同币种相加。
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{cents: m.cents + other.cents, currency: m.currency}, nil
}

// Subtract 同币种相减；结果为负时报错而不是返回负的 Money。
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	if other.cents > m.cents {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: m.cents - other.cents, currency: m.currency}, nil
}

// MultiplyFactor 按系数缩放，四舍五入到分。负系数非法。
func (m Money) MultiplyFactor(factor float64) (Money, error) {
	if factor < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: int64(math.Round(float64(m.cents) * factor)), currency: m.currency}, nil
}

// Equals 金额与币种都相同才相等。
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents && m.currency == other.currency
}

// GreaterThan 同币种比较。
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, ErrCurrencyMismatch
	}
	return m.cents > other.cents, nil
}
