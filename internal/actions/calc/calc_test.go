package calc

import (
	"context"
	"strings"
	"testing"
)

func eval(t *testing.T, expression string) (string, error) {
	t.Helper()
	out, err := HandleCalcAction(context.Background(), "eval", map[string]any{"expression": expression})
	if err != nil {
		return "", err
	}
	result, ok := out["result"].(string)
	if !ok {
		t.Fatalf("missing result in %v", out)
	}
	return result, nil
}

func TestEvalExpressions(t *testing.T) {
	testCases := []struct {
		name       string
		expression string
		expected   string
	}{
		{"precedence", "2 + 3 * 4", "14"},
		{"left to right same precedence", "10 - 3 - 2", "5"},
		{"division", "10 / 4", "2.5"},
		{"glued operators", "2+3*4", "14"},
		{"word operators", "2 plus 3 times 4", "14"},
		{"surrounding words", "calculate 2 + 2 for me", "4"},
		{"negative start", "-3 + 5", "2"},
		{"sum keyword", "sum of 1 2 3 4", "10"},
		{"total keyword", "total 10 and 20", "30"},
		{"average keyword", "average of 2 4 6", "4"},
		{"mean with decimals", "mean of 1.5 2.5", "2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := eval(t, tc.expression)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.expected {
				t.Errorf("eval(%q) = %s, want %s", tc.expression, got, tc.expected)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	testCases := []struct {
		name       string
		expression string
		wantErr    string
	}{
		{"division by zero", "5 / 0", "division by zero"},
		{"empty", "   ", "empty expression"},
		{"no numbers", "calculate the things", "no arithmetic expression"},
		{"dangling operator", "2 +", "malformed expression"},
		{"average of nothing", "average of nothing", "no numbers to average"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := eval(t, tc.expression)
			if err == nil {
				t.Fatalf("eval(%q) succeeded, want error containing %q", tc.expression, tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestUnknownOperation(t *testing.T) {
	if _, err := HandleCalcAction(context.Background(), "derive", map[string]any{"expression": "2"}); err == nil {
		t.Fatal("unknown operation must fail")
	}
}
