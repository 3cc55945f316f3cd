package domain

import "strings"

// DocumentType 区分个人税号和企业税号。
type DocumentType string

const (
	DocumentTypeCPF  DocumentType = "cpf"  // 11位个人税号
	DocumentTypeCNPJ DocumentType = "cnpj" // 14位企业税号
)

// Document 是经过校验位验证的巴西税号，构造后不可变。
// 两个 Document 当且仅当原始数字串相同时相等。
type Document struct {
	digits  string
	docType DocumentType
}

// NewDocument 剥离非数字字符后按长度判别类型并执行校验位算法。
// 校验失败返回 ErrInvalidDocument，非法的 Document 值不可能存在。
func NewDocument(raw string) (Document, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch len(digits) {
	case 11:
		if !validCPF(digits) {
			return Document{}, ErrInvalidDocument
		}
		return Document{digits: digits, docType: DocumentTypeCPF}, nil
	case 14:
		if !validCNPJ(digits) {
			return Document{}, ErrInvalidDocument
		}
		return Document{digits: digits, docType: DocumentTypeCNPJ}, nil
	default:
		return Document{}, ErrInvalidDocument
	}
}

// Digits 返回原始数字串。
func (d Document) Digits() string {
	return d.digits
}

// Type 返回税号类型。
func (d Document) Type() DocumentType {
	return d.docType
}

// Formatted 返回带分隔符的展示格式:
// CPF "529.982.247-25"，CNPJ "11.222.333/0001-81"。
func (d Document) Formatted() string {
	s := d.digits
	if d.docType == DocumentTypeCPF {
		return s[:3] + "." + s[3:6] + "." + s[6:9] + "-" + s[9:]
	}
	return s[:2] + "." + s[2:5] + "." + s[5:8] + "/" + s[8:12] + "-" + s[12:]
}

// Equals 按原始数字串判等。
func (d Document) Equals(other Document) bool {
	return d.digits == other.digits
}

// allSameDigits 拦截 "11111111111" 这类通过校验位算法但无效的序列。
func allSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// validCPF 执行标准的模11校验位算法。
func validCPF(s string) bool {
	if allSameDigits(s) {
		return false
	}
	for _, pos := range []int{9, 10} {
		sum := 0
		for i := 0; i < pos; i++ {
			sum += int(s[i]-'0') * (pos + 1 - i)
		}
		check := sum * 10 % 11
		if check == 10 {
			check = 0
		}
		if check != int(s[pos]-'0') {
			return false
		}
	}
	return true
}

// validCNPJ 同为模11算法，但使用固定权重表。
func validCNPJ(s string) bool {
	if allSameDigits(s) {
		return false
	}
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	for _, pos := range []int{12, 13} {
		sum := 0
		offset := len(weights) - pos
		for i := 0; i < pos; i++ {
			sum += int(s[i]-'0') * weights[offset+i]
		}
		check := sum % 11
		if check < 2 {
			check = 0
		} else {
			check = 11 - check
		}
		if check != int(s[pos]-'0') {
			return false
		}
	}
	return true
}
