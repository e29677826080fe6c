package dice

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"
)

// sequence returns a roller that yields values in order and fails the test
// when it runs out.
func sequence(t *testing.T, values ...int) Roller {
	t.Helper()
	i := 0
	return RollerFunc(func(sides int) int {
		if i >= len(values) {
			t.Fatalf("roller exhausted after %d dice", len(values))
		}
		v := values[i]
		i++
		return v
	})
}

func mustEval(t *testing.T, input string, roller Roller) Result {
	t.Helper()
	node, err := Parse(input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	res, err := Evaluate(node, roller)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return res
}

func keptFlags(res Result) []bool {
	flags := make([]bool, len(res.Rolls))
	for i, r := range res.Rolls {
		flags[i] = r.Kept
	}
	return flags
}

func values(res Result) []int {
	vals := make([]int, len(res.Rolls))
	for i, r := range res.Rolls {
		vals[i] = r.Value
	}
	return vals
}

func keptValues(res Result) []int {
	var vals []int
	for _, r := range res.Rolls {
		if r.Kept {
			vals = append(vals, r.Value)
		}
	}
	sort.Ints(vals)
	return vals
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"42", 42},
		{"7/2", 3},
		{"-7/2", -4},
		{"7/-2", -4},
		{"-7/-2", 3},
		{"6/3", 2},
		{"-6/3", -2},
		{"0/5", 0},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"[2+3]*2", 10},
		{"10-2-3", 5},
		{"--3", 3},
		{"-(2+3)", -5},
		{"2 × 3 ÷ 4", 1},
		{"1 - 10 / 3", -2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := mustEval(t, tt.input, MinRoller)
			if res.Total != tt.want {
				t.Errorf("got %d, want %d", res.Total, tt.want)
			}
			if len(res.Rolls) != 0 {
				t.Errorf("expected no dice, got %d", len(res.Rolls))
			}
		})
	}
}

func TestFloorDivision(t *testing.T) {
	for a := -20; a <= 20; a++ {
		for b := -7; b <= 7; b++ {
			if b == 0 {
				continue
			}
			got := floorDiv(a, b)
			// q is the floor when q*b <= a < (q+1)*b for b > 0, mirrored for b < 0.
			r := a - got*b
			if (b > 0 && (r < 0 || r >= b)) || (b < 0 && (r > 0 || r <= b)) {
				t.Errorf("floorDiv(%d, %d) = %d, remainder %d out of range", a, b, got, r)
			}
		}
	}
}

func TestDeterministicModes(t *testing.T) {
	tests := []struct {
		input  string
		roller Roller
		want   int
		dice   int
	}{
		{"d20", MaxRoller, 20, 1},
		{"4d", MinRoller, 4, 4},
		{"d%", MaxRoller, 100, 1},
		{"3d6", MidRoller, 9, 3},
		{"d20", MidRoller, 10, 1},
		{"d4", MidRoller, 2, 1},
		{"2d8 + 3", MaxRoller, 19, 2},
		{"0d6", MaxRoller, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := mustEval(t, tt.input, tt.roller)
			if res.Total != tt.want {
				t.Errorf("got total %d, want %d", res.Total, tt.want)
			}
			if len(res.Rolls) != tt.dice {
				t.Errorf("got %d dice, want %d", len(res.Rolls), tt.dice)
			}
		})
	}

	res := mustEval(t, "4d", MinRoller)
	for i, r := range res.Rolls {
		if r.Sides != 6 || r.Value != 1 || !r.Kept {
			t.Errorf("die %d: got %+v, want kept d6 showing 1", i, r)
		}
	}
}

func TestSelectors(t *testing.T) {
	tests := []struct {
		input string
		rolls []int
		total int
		kept  []bool
	}{
		{"4d6kh3", []int{6, 4, 4, 1}, 14, []bool{true, true, true, false}},
		{"4d6d1", []int{6, 4, 4, 1}, 14, []bool{true, true, true, false}},
		{"4d6dl1", []int{6, 4, 4, 1}, 14, []bool{true, true, true, false}},
		{"3d6kh1", []int{3, 3, 5}, 5, []bool{false, false, true}},
		{"3d6kl1", []int{3, 3, 5}, 3, []bool{true, false, false}},
		{"3d6dl1", []int{3, 3, 5}, 8, []bool{false, true, true}},
		{"3d6dh1", []int{3, 3, 5}, 6, []bool{true, true, false}},
		{"3d6kh2", []int{4, 6, 4}, 10, []bool{true, true, false}},
		{"4d6kh3kl2", []int{6, 4, 4, 1}, 8, []bool{false, true, true, false}},
		{"2d6kh5", []int{3, 4}, 7, []bool{true, true}},
		{"2d6dl5", []int{3, 4}, 0, []bool{false, false}},
		{"2d6k0", []int{3, 4}, 0, []bool{false, false}},
		{"5d10dh1dl1", []int{2, 9, 5, 1, 7}, 14, []bool{true, false, true, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := mustEval(t, tt.input, sequence(t, tt.rolls...))
			if res.Total != tt.total {
				t.Errorf("got total %d, want %d", res.Total, tt.total)
			}
			got := keptFlags(res)
			if fmt.Sprint(got) != fmt.Sprint(tt.kept) {
				t.Errorf("got kept %v, want %v", got, tt.kept)
			}
			if fmt.Sprint(values(res)) != fmt.Sprint(tt.rolls) {
				t.Errorf("trace not in roll order: got %v, want %v", values(res), tt.rolls)
			}
		})
	}
}

func TestKeepHighMatchesDiscardLow(t *testing.T) {
	// Every combination of four d6 values.
	for v := 0; v < 6*6*6*6; v++ {
		rolls := []int{v%6 + 1, v/6%6 + 1, v/36%6 + 1, v/216%6 + 1}
		kh := mustEval(t, "4d6kh3", sequence(t, rolls...))
		dl := mustEval(t, "4d6d1", sequence(t, rolls...))
		// Tied dice may swap positions, but the kept values agree.
		if kh.Total != dl.Total || fmt.Sprint(keptValues(kh)) != fmt.Sprint(keptValues(dl)) {
			t.Fatalf("rolls %v: kh3 kept %v (%d), d1 kept %v (%d)",
				rolls, keptValues(kh), kh.Total, keptValues(dl), dl.Total)
		}
	}
}

func TestAdvantage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rolls []int
		total int
		kept  []bool
	}{
		{"adv picks higher", "2d10adv", []int{4, 5, 6, 8}, 14, []bool{false, false, true, true}},
		{"dis picks lower", "2d10dis", []int{4, 5, 6, 8}, 9, []bool{true, true, false, false}},
		{"adv when first is higher", "2d10adv", []int{6, 8, 4, 5}, 14, []bool{true, true, false, false}},
		{"adv tie keeps first", "2d10adv", []int{4, 5, 6, 3}, 9, []bool{true, true, false, false}},
		{"dis tie keeps first", "2d10dis", []int{4, 5, 6, 3}, 9, []bool{true, true, false, false}},
		{
			"adv replays prior selectors", "4d6kh3adv",
			[]int{6, 4, 4, 1, 2, 2, 3, 1}, 14,
			[]bool{true, true, true, false, false, false, false, false},
		},
		{
			"adv compares kept totals", "3d6kl1adv",
			[]int{1, 6, 6, 2, 2, 2}, 2,
			[]bool{false, false, false, true, false, false},
		},
		{
			"selector after adv acts on winner", "2d6 adv kh1",
			[]int{1, 2, 5, 6}, 6,
			[]bool{false, false, false, true},
		},
		{
			"nested adv", "d20 adv adv",
			[]int{5, 12, 3, 7}, 12,
			[]bool{false, true, false, false},
		},
		{"alias ad", "d20ad", []int{3, 17}, 17, []bool{false, true}},
		{"alias da", "d20da", []int{3, 17}, 3, []bool{true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustEval(t, tt.input, sequence(t, tt.rolls...))
			if res.Total != tt.total {
				t.Errorf("got total %d, want %d", res.Total, tt.total)
			}
			got := keptFlags(res)
			if fmt.Sprint(got) != fmt.Sprint(tt.kept) {
				t.Errorf("got kept %v, want %v", got, tt.kept)
			}
		})
	}
}

func TestSelectorsDoNotCrossRolls(t *testing.T) {
	res := mustEval(t, "2d6kh1 + 2d6", sequence(t, 1, 2, 6, 6))
	if res.Total != 14 {
		t.Errorf("got total %d, want 14", res.Total)
	}
	want := []bool{false, true, true, true}
	if fmt.Sprint(keptFlags(res)) != fmt.Sprint(want) {
		t.Errorf("got kept %v, want %v", keptFlags(res), want)
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"divide by zero", bin(TokenSlash, lit(1), lit(0)), TagDivideByZero},
		{"invalid sides", roll(1, 7), TagInvalidSides},
		{"zero sides", roll(2, 0), TagInvalidSides},
		{"negative count", &RollNode{Count: &NegateNode{Operand: lit(1)}, Sides: lit(6)}, TagInvalidCount},
		{"too many dice", roll(MaxDice+1, 6), TagResourceLimit},
		{"error in right operand", bin(TokenPlus, lit(1), roll(1, 3)), TagInvalidSides},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.node, MaxRoller)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsTag(err, TagEvalError) {
				t.Errorf("expected EvalError, got %v", err)
			}
			if !IsTag(err, tt.want) {
				t.Errorf("expected %s, got %v", tt.want, err)
			}
		})
	}
}

func TestAdvantageChainHitsDiceLimit(t *testing.T) {
	input := "d6" + strings.Repeat(" adv", 14)
	_, err := Roll(input, MaxRoller)
	if !IsTag(err, TagResourceLimit) {
		t.Fatalf("expected ResourceLimit, got %v", err)
	}

	// 13 doublings stay under the limit.
	res, err := Roll("d6"+strings.Repeat(" adv", 13), MinRoller)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if len(res.Rolls) != 1<<13 || res.Total != 1 {
		t.Errorf("got %d dice, total %d", len(res.Rolls), res.Total)
	}
}

func TestZeroDiceWithSelectors(t *testing.T) {
	tests := []string{
		"0d6",
		"0d6adv",
		"0d6kh1",
		"0d20 adv dis",
		"0d6dl3 adv kl1",
		"0d6" + strings.Repeat(" adv", 99),
		"0d6" + strings.Repeat(" dis", 49) + strings.Repeat(" adv", 50),
	}
	for _, input := range tests {
		name := input
		if len(name) > 24 {
			name = fmt.Sprintf("%s...(%d bytes)", name[:24], len(name))
		}
		t.Run(name, func(t *testing.T) {
			node, err := Parse(input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			done := make(chan struct{})
			var res Result
			go func() {
				defer close(done)
				res, err = Evaluate(node, MaxRoller)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("evaluation did not return")
			}

			if err != nil {
				t.Fatalf("eval error: %v", err)
			}
			if res.Total != 0 || len(res.Rolls) != 0 {
				t.Errorf("got total %d with %d dice, want an empty roll", res.Total, len(res.Rolls))
			}
		})
	}
}

func TestZeroDiceInsideLargerExpression(t *testing.T) {
	res, err := Roll("0d6adv dis + 2d4kh1", sequence(t, 3, 1))
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if res.Total != 3 || len(res.Rolls) != 2 {
		t.Errorf("got total %d with trace %+v", res.Total, res.Rolls)
	}
}

func TestComputedCountAndSides(t *testing.T) {
	node := &RollNode{Count: roll(1, 4), Sides: bin(TokenPlus, lit(4), lit(2))}
	res, err := Evaluate(node, MaxRoller)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if res.Total != 24 {
		t.Errorf("got total %d, want 24", res.Total)
	}
	if len(res.Rolls) != 5 || res.Rolls[0].Sides != 4 || res.Rolls[1].Sides != 6 {
		t.Errorf("unexpected trace %+v", res.Rolls)
	}
}

func TestEvaluateIsRepeatable(t *testing.T) {
	node, err := Parse("4d6kh3 + 2d20adv - d8")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	before := Format(node)

	first, err := Evaluate(node, NewRandom(7))
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	second, err := Evaluate(node, NewRandom(7))
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if first.Total != second.Total || fmt.Sprint(first.Rolls) != fmt.Sprint(second.Rolls) {
		t.Errorf("same seed gave different results: %+v vs %+v", first, second)
	}
	if after := Format(node); after != before {
		t.Errorf("evaluation changed tree: %q -> %q", before, after)
	}
}

func TestErrorsWrap(t *testing.T) {
	_, err := Roll("1/0", MinRoller)
	wrapped := fmt.Errorf("roll: %w", err)
	if !IsTag(wrapped, TagDivideByZero) {
		t.Errorf("IsTag should see through wrapping: %v", wrapped)
	}
	if IsTag(fmt.Errorf("plain"), TagDivideByZero) {
		t.Error("IsTag matched a foreign error")
	}
	if strings.Contains(err.Error(), "position") {
		t.Errorf("eval errors carry no position: %q", err.Error())
	}
}
