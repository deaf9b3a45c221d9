package expr

import "testing"

func TestArithmetic(t *testing.T) {
	e, err := Parse("2 * t + 1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := e.Eval(3)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %v, want 7", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	e, err := Parse("1/0")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := e.Eval(0); err == nil {
		t.Fatal("expected runtime error for division by zero")
	}
}

func TestUnsupportedIdentifier(t *testing.T) {
	if _, err := Parse("abs(t)"); err == nil {
		t.Fatal("expected parse error for unsupported identifier")
	}
}

func TestPrecedenceAndAssociativity(t *testing.T) {
	cases := []struct {
		expr string
		t    float64
		want float64
	}{
		{"2 + 3 * 4", 0, 14},
		{"(2 + 3) * 4", 0, 20},
		{"2 ^ 3 ^ 2", 0, 512}, // right-assoc: 2^(3^2) = 2^9
		{"-2 ^ 2", 0, -4},     // unary binds looser than ^ on its operand
		{"10 % 3", 0, 1},
		{"t * t", 4, 16},
	}
	for _, c := range cases {
		e, err := Parse(c.expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.expr, err)
		}
		got, err := e.Eval(c.t)
		if err != nil {
			t.Fatalf("Eval(%q): %v", c.expr, err)
		}
		if got != c.want {
			t.Errorf("%q at t=%v: got %v, want %v", c.expr, c.t, got, c.want)
		}
	}
}

func TestRepeatable(t *testing.T) {
	e, err := Parse("t^2 - 3*t + 1")
	if err != nil {
		t.Fatal(err)
	}
	a, _ := e.Eval(5)
	b, _ := e.Eval(5)
	if a != b {
		t.Fatalf("non-deterministic eval: %v vs %v", a, b)
	}
}
