// Package policy evaluates a Policy's expression against a priced
// CanonicalResourceModel.
package policy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/finopsguard/finopsguard/internal/policy/expression"
	"github.com/finopsguard/finopsguard/internal/types"
)

// DefaultBudgetPolicyID names the synthetic policy EvaluateBudget produces when
// the caller supplies a monthly_budget but no stored Policy.
const DefaultBudgetPolicyID = "monthly_budget"

// anySentinel and everyPrefix implement the path quantifiers over
// resources: "*" means "any resource satisfies the rule", a leading "!"
// means "every resource must satisfy it".
const (
	anySentinel = "*"
	everyPrefix = "!"
)

// Evaluate runs policy's expression against the merged {crm, cost, env}
// context and reports pass/fail. mode overrides policy.OnViolation for this
// one invocation; a policy fails iff its expression evaluates true, since
// the expression encodes the violation condition, not the passing one.
func Evaluate(model *types.CanonicalResourceModel, cost *types.CostResult, environment string, policy *types.Policy, mode types.PolicyMode) (*types.PolicyEvaluation, error) {
	if policy.HasBudget() {
		eval := EvaluateBudget(cost, *policy.Budget, mode)
		eval.PolicyID = policy.ID
		return eval, nil
	}

	ctx := buildContext(model, cost, environment)

	violated, violatedRules, err := evaluateExpression(policy.Expression, ctx)
	if err != nil {
		return nil, err
	}

	eval := &types.PolicyEvaluation{
		PolicyID: policy.ID,
		Mode:     mode,
	}
	if violated {
		eval.Status = types.StatusFail
		eval.ViolatedRules = violatedRules
		eval.Reason = fmt.Sprintf("policy %q violated by %d rule(s)", policy.ID, len(violatedRules))
	} else {
		eval.Status = types.StatusPass
		eval.Reason = fmt.Sprintf("policy %q satisfied", policy.ID)
	}
	return eval, nil
}

// EvaluateBudget produces the implicit monthly_budget policy evaluation
// used when the caller supplies a budget figure but no stored Policy.
func EvaluateBudget(cost *types.CostResult, budget float64, mode types.PolicyMode) *types.PolicyEvaluation {
	monthly, _ := cost.EstimatedMonthlyCost.Float64()
	eval := &types.PolicyEvaluation{
		PolicyID: DefaultBudgetPolicyID,
		Mode:     mode,
	}
	if monthly > budget {
		eval.Status = types.StatusFail
		eval.Reason = fmt.Sprintf("estimated monthly cost %.2f exceeds budget %.2f", monthly, budget)
		eval.ViolatedRules = []types.Rule{{
			Field:    "cost.estimated_monthly_cost",
			Operator: types.OpGreaterThan,
			Value:    budget,
		}}
	} else {
		eval.Status = types.StatusPass
		eval.Reason = fmt.Sprintf("estimated monthly cost %.2f is within budget %.2f", monthly, budget)
	}
	return eval
}

// NotApplicable is the evaluation produced for a policy that was named by
// the caller but is disabled: it is reported, never counted toward the
// aggregate verdict.
func NotApplicable(p *types.Policy, mode types.PolicyMode) *types.PolicyEvaluation {
	return &types.PolicyEvaluation{
		PolicyID: p.ID,
		Status:   types.StatusNA,
		Reason:   fmt.Sprintf("policy %q is disabled", p.ID),
		Mode:     mode,
	}
}

// EvaluateAll evaluates every policy in policies (plus, when budget > 0, the
// implicit monthly_budget policy) and aggregates: the caller's check fails
// iff any enabled blocking policy fails, or the budget policy (evaluated in
// blocking mode) fails. There is no caller-requested severity: a failing
// advisory policy never fails the check. Disabled policies evaluate to n/a and never
// fail the check. Evaluation order follows policies' input order, then the
// budget policy last, for determinism.
func EvaluateAll(model *types.CanonicalResourceModel, cost *types.CostResult, environment string, policies []*types.Policy, budget float64) ([]*types.PolicyEvaluation, bool, error) {
	evaluations := make([]*types.PolicyEvaluation, 0, len(policies)+1)
	failed := false

	for _, p := range policies {
		if !p.Enabled {
			evaluations = append(evaluations, NotApplicable(p, p.OnViolation))
			continue
		}
		eval, err := Evaluate(model, cost, environment, p, p.OnViolation)
		if err != nil {
			return nil, false, err
		}
		evaluations = append(evaluations, eval)
		if eval.Status == types.StatusFail && eval.Mode == types.ModeBlocking {
			failed = true
		}
	}

	if budget > 0 {
		eval := EvaluateBudget(cost, budget, types.ModeBlocking)
		evaluations = append(evaluations, eval)
		if eval.Status == types.StatusFail {
			failed = true
		}
	}

	return evaluations, failed, nil
}

// evaluateExpression reports whether expr's rules, combined by
// expr.RuleOperator, evaluate true (i.e. the policy is violated), along
// with the subset of rules that individually evaluated true.
func evaluateExpression(expr types.PolicyExpression, ctx expression.Value) (bool, []types.Rule, error) {
	if len(expr.Rules) == 0 {
		return false, nil, nil
	}

	var violated []types.Rule
	for _, rule := range expr.Rules {
		ok, err := evaluateRule(rule, ctx)
		if err != nil {
			return false, nil, err
		}
		if ok {
			violated = append(violated, rule)
		}
	}

	switch expr.RuleOperator {
	case types.CombinatorOr:
		return len(violated) > 0, violated, nil
	case types.CombinatorAnd, "":
		return len(violated) == len(expr.Rules), violated, nil
	default:
		return false, nil, fmt.Errorf("unknown rule_operator %q", expr.RuleOperator)
	}
}

// evaluateRule resolves rule.Field against ctx and applies rule.Operator.
// A "*" path component means "any resource satisfies"; a "!" prefix on the
// field means "every resource must satisfy". A missing path or type
// mismatch always evaluates false, never errors.
func evaluateRule(rule types.Rule, ctx expression.Value) (bool, error) {
	field := rule.Field
	quantifyAll := strings.HasPrefix(field, everyPrefix)
	if quantifyAll {
		field = strings.TrimPrefix(field, everyPrefix)
	}

	segments := strings.Split(field, ".")
	target := expression.FromGo(rule.Value)

	idx := indexOfWildcard(segments)
	if idx < 0 {
		return applyOperator(resolvePath(ctx, segments), target, rule.Operator), nil
	}

	// segments[:idx] must resolve to a list; segments[idx+1:] resolves per
	// element.
	list := resolvePath(ctx, segments[:idx])
	elems, ok := list.AsList()
	if !ok {
		return false, nil
	}
	rest := segments[idx+1:]

	if quantifyAll {
		if len(elems) == 0 {
			return true, nil
		}
		for _, e := range elems {
			if !applyOperator(resolvePath(e, rest), target, rule.Operator) {
				return false, nil
			}
		}
		return true, nil
	}

	for _, e := range elems {
		if applyOperator(resolvePath(e, rest), target, rule.Operator) {
			return true, nil
		}
	}
	return false, nil
}

func indexOfWildcard(segments []string) int {
	for i, s := range segments {
		if s == anySentinel {
			return i
		}
	}
	return -1
}

// resolvePath walks a dotted path of map-attr / list-index segments
// against root. Any missing attribute, out-of-range index, or non-container
// receiver resolves to Null rather than erroring.
func resolvePath(root expression.Value, segments []string) expression.Value {
	current := root
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if n, err := strconv.Atoi(seg); err == nil {
			current = current.Index(n)
			continue
		}
		current = current.GetAttr(seg)
	}
	return current
}

// applyOperator applies op between resolved and target. Every branch
// defaults to false on a type mismatch instead of erroring, per the engine's
// "type mismatches never error" contract.
func applyOperator(resolved, target expression.Value, op types.RuleOperator) bool {
	switch op {
	case types.OpEqual:
		return resolved.Equals(target)
	case types.OpNotEqual:
		return !resolved.Equals(target)
	case types.OpGreaterThan:
		r, ok := resolved.Compare(target)
		return ok && r > 0
	case types.OpGreaterEqual:
		r, ok := resolved.Compare(target)
		return ok && r >= 0
	case types.OpLessThan:
		r, ok := resolved.Compare(target)
		return ok && r < 0
	case types.OpLessEqual:
		r, ok := resolved.Compare(target)
		return ok && r <= 0
	case types.OpIn:
		return target.Contains(resolved)
	case types.OpNotIn:
		return !target.Contains(resolved)
	case types.OpContains:
		return resolved.Contains(target)
	default:
		return false
	}
}
