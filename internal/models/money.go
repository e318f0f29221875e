package models

import (
	"github.com/shopspring/decimal"
)

// Money 金额类型（亚美尼亚德拉姆为无小数位货币，整数计价）
type Money int64

// NewMoney 创建金额
func NewMoney(amount int64) Money {
	return Money(amount)
}

// Decimal 转换为 decimal（用于金额汇总计算）
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

// MulQuantity 计算行项小计（单价 × 数量）
func (m Money) MulQuantity(quantity int) Money {
	total := m.Decimal().Mul(decimal.NewFromInt(int64(quantity)))
	return Money(total.IntPart())
}

// Add 金额相加
func (m Money) Add(other Money) Money {
	return Money(m.Decimal().Add(other.Decimal()).IntPart())
}

// String 返回整数字符串格式
func (m Money) String() string {
	return m.Decimal().StringFixed(0)
}
