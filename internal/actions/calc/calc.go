// Package calc deterministically evaluates the arithmetic missions the
// pipeline accepts ("calculate 2 + 3 * 4", "sum 1 2 3", "average of ...").
package calc

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"aide/internal/utils"
)

var numberPat = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

func handleEval(_ context.Context, payload map[string]any) (map[string]any, error) {
	expr, err := utils.GetStringPayload(payload, "expression")
	if err != nil {
		return nil, err
	}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}

	lower := strings.ToLower(expr)
	nums := parseNumbers(lower)

	var result float64
	switch {
	case strings.Contains(lower, "average") || strings.Contains(lower, "mean"):
		if len(nums) == 0 {
			return nil, fmt.Errorf("no numbers to average in %q", expr)
		}
		for _, n := range nums {
			result += n
		}
		result /= float64(len(nums))
	case strings.Contains(lower, "sum") || strings.Contains(lower, "total"):
		for _, n := range nums {
			result += n
		}
	default:
		r, err := evalExpression(lower)
		if err != nil {
			return nil, err
		}
		result = r
	}

	return map[string]any{"result": strconv.FormatFloat(result, 'f', -1, 64)}, nil
}

func parseNumbers(s string) []float64 {
	var out []float64
	for _, m := range numberPat.FindAllString(s, -1) {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			out = append(out, f)
		}
	}
	return out
}

// evalExpression handles + - * / with standard precedence, left to right.
// No parentheses: the readiness gate only lets flat expressions through.
func evalExpression(s string) (float64, error) {
	tokens := tokenize(s)
	if len(tokens) == 0 {
		return 0, fmt.Errorf("no arithmetic expression in %q", s)
	}
	if len(tokens)%2 == 0 {
		return 0, fmt.Errorf("malformed expression %q", s)
	}

	// First pass: * and /.
	var vals []float64
	var ops []string
	cur, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", tokens[0])
	}
	for i := 1; i+1 < len(tokens); i += 2 {
		op := tokens[i]
		rhs, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return 0, fmt.Errorf("bad number %q", tokens[i+1])
		}
		switch op {
		case "*":
			cur *= rhs
		case "/":
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			cur /= rhs
		case "+", "-":
			vals = append(vals, cur)
			ops = append(ops, op)
			cur = rhs
		default:
			return 0, fmt.Errorf("unknown operator %q", op)
		}
	}
	vals = append(vals, cur)

	// Second pass: + and -.
	result := vals[0]
	for i, op := range ops {
		if op == "+" {
			result += vals[i+1]
		} else {
			result -= vals[i+1]
		}
	}
	return result, nil
}

func tokenize(s string) []string {
	replacer := strings.NewReplacer("plus", "+", "minus", "-", "times", "*", "divided by", "/", "x", "*")
	s = replacer.Replace(s)
	var tokens []string
	for _, f := range strings.Fields(s) {
		switch {
		case numberPat.MatchString(f) && numberPat.FindString(f) == f:
			tokens = append(tokens, f)
		case f == "+" || f == "-" || f == "*" || f == "/":
			tokens = append(tokens, f)
		default:
			// Words like "calculate" or "of" are noise around the expression.
			for _, part := range splitGlued(f) {
				tokens = append(tokens, part)
			}
		}
	}
	return tokens
}

// splitGlued breaks "2+3" style tokens into number/operator runs.
func splitGlued(tok string) []string {
	var out []string
	cur := strings.Builder{}
	flush := func() {
		if cur.Len() > 0 {
			s := cur.String()
			if numberPat.FindString(s) == s {
				out = append(out, s)
			}
			cur.Reset()
		}
	}
	for _, r := range tok {
		switch r {
		case '+', '-', '*', '/':
			// Leading '-' belongs to a number only at the start.
			if r == '-' && cur.Len() == 0 && len(out) == 0 {
				cur.WriteRune(r)
				continue
			}
			flush()
			out = append(out, string(r))
		default:
			if (r >= '0' && r <= '9') || r == '.' {
				cur.WriteRune(r)
			}
		}
	}
	flush()
	return out
}

func HandleCalcAction(ctx context.Context, operation string, payload map[string]any) (map[string]any, error) {
	switch operation {
	case "eval":
		return handleEval(ctx, payload)
	default:
		return nil, fmt.Errorf("unknown calc operation: %s", operation)
	}
}
