package domain

import "strings"

// CEP 是经过校验的巴西邮政编码。
// 构造时剥离所有非数字字符，必须恰好剩下8位数字，否则返回 ErrInvalidCEP。
type CEP string

// NewCEP 是 CEP 的工厂函数，外部输入只能经由它进入领域层。
func NewCEP(raw string) (CEP, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() != 8 {
		return "", ErrInvalidCEP
	}
	return CEP(digits.String()), nil
}

func (c CEP) String() string {
	return string(c)
}

// Formatted 返回 "01310-100" 形式的展示格式。
func (c CEP) Formatted() string {
	s := string(c)
	if len(s) != 8 {
		return s
	}
	return s[:5] + "-" + s[5:]
}
