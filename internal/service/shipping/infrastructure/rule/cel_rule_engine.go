package rule

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// CELRuleAdapter 是 port.FreeShippingRule 接口的一个具体实现。
// 它把可配置的 CEL 表达式（如 "cart_total >= 300.0"）编译为包邮判定规则。
// 这是一个典型的适配器模式应用，把第三方规则引擎的API适配到我们自己的领域接口。
type CELRuleAdapter struct {
	program cel.Program
}

// NewCELRuleAdapter 编译表达式并创建规则实例。
// 表达式有语法错误时在启动阶段直接失败，而不是等到第一次报价。
func NewCELRuleAdapter(expression string) (*CELRuleAdapter, error) {
	env, err := cel.NewEnv(
		cel.Variable("cart_total", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid free-shipping rule %q: %w", expression, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("free-shipping rule %q must evaluate to bool, got %s", expression, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build CEL program: %w", err)
	}
	return &CELRuleAdapter{program: program}, nil
}

// Eligible 实现了 port.FreeShippingRule 接口。
func (a *CELRuleAdapter) Eligible(cartTotal float64) (bool, error) {
	out, _, err := a.program.Eval(map[string]interface{}{
		"cart_total": cartTotal,
	})
	if err != nil {
		return false, fmt.Errorf("free-shipping rule evaluation failed: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("free-shipping rule returned non-bool value %v", out.Value())
	}
	return result, nil
}

// ThresholdRule 是没有配置表达式时的默认实现：购物车金额达到阈值即包邮。
type ThresholdRule struct {
	threshold float64
}

// NewThresholdRule 创建默认的阈值规则。
func NewThresholdRule(threshold float64) *ThresholdRule {
	return &ThresholdRule{threshold: threshold}
}

// Eligible 实现了 port.FreeShippingRule 接口。
func (r *ThresholdRule) Eligible(cartTotal float64) (bool, error) {
	return cartTotal >= r.threshold, nil
}
