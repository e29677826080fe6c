package dice

import (
	"fmt"
	"sort"
)

// MaxDice is the maximum number of dice a single evaluation may roll,
// advantage and disadvantage rerolls included.
const MaxDice = 10000

// DieOutcome records one physical die rolled during evaluation.
type DieOutcome struct {
	Sides int  `json:"sides" yaml:"sides"`
	Value int  `json:"value" yaml:"value"`
	Kept  bool `json:"kept" yaml:"kept"`
}

// Result is the outcome of evaluating an expression.
type Result struct {
	Total int          `json:"total" yaml:"total"`
	Rolls []DieOutcome `json:"dice" yaml:"dice"`
}

// ValidSides reports whether a die with the given number of sides exists.
func ValidSides(sides int) bool {
	switch sides {
	case 4, 6, 8, 10, 12, 20, 100:
		return true
	default:
		return false
	}
}

// Evaluate evaluates an expression tree, drawing die values from roller.
// The tree is not modified, so the same tree may be evaluated repeatedly.
func Evaluate(node Node, roller Roller) (Result, error) {
	e := &evaluator{roller: roller, trace: []DieOutcome{}}
	total, err := e.eval(node)
	if err != nil {
		return Result{}, err
	}
	return Result{Total: total, Rolls: e.trace}, nil
}

// Roll parses and evaluates input in one step.
func Roll(input string, roller Roller) (Result, error) {
	node, err := Parse(input)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(node, roller)
}

type evaluator struct {
	roller Roller
	trace  []DieOutcome
}

func (e *evaluator) eval(node Node) (int, error) {
	switch n := node.(type) {
	case *LiteralNode:
		return n.Value, nil
	case *BinaryNode:
		return e.evalBinary(n)
	case *NegateNode:
		v, err := e.eval(n.Operand)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case *RollNode:
		return e.evalRoll(n)
	default:
		return 0, fmt.Errorf("unsupported expression node type: %T", node)
	}
}

func (e *evaluator) evalBinary(n *BinaryNode) (int, error) {
	left, err := e.eval(n.Left)
	if err != nil {
		return 0, err
	}
	right, err := e.eval(n.Right)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case TokenPlus:
		return left + right, nil
	case TokenMinus:
		return left - right, nil
	case TokenStar:
		return left * right, nil
	case TokenSlash:
		if right == 0 {
			return 0, NewDivideByZeroError()
		}
		return floorDiv(left, right), nil
	default:
		return 0, fmt.Errorf("unsupported binary operator: %s", n.Op)
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func (e *evaluator) evalRoll(n *RollNode) (int, error) {
	count, err := e.eval(n.Count)
	if err != nil {
		return 0, err
	}
	sides, err := e.eval(n.Sides)
	if err != nil {
		return 0, err
	}

	if !ValidSides(sides) {
		return 0, NewEvalError(TagInvalidSides, fmt.Sprintf("invalid die: d%d", sides))
	}
	if count < 0 {
		return 0, NewEvalError(TagInvalidCount, fmt.Sprintf("cannot roll %d dice", count))
	}

	pool, err := e.rollPool(count, sides, n.Selectors)
	if err != nil {
		return 0, err
	}
	return e.keptTotal(pool), nil
}

// rollPool rolls count dice and applies selectors to them. It returns the
// trace indices of the dice belonging to the surviving side, in roll order.
func (e *evaluator) rollPool(count, sides int, selectors []Selector) ([]int, error) {
	// Every side of an empty roll is empty, so selectors cannot change it.
	// Past this point each call rolls at least one die, which keeps the
	// number of calls under MaxDice.
	if count == 0 {
		return nil, nil
	}
	if count > MaxDice-len(e.trace) {
		return nil, NewEvalError(TagResourceLimit,
			fmt.Sprintf("expression rolls more than %d dice", MaxDice))
	}

	pool := make([]int, count)
	for i := range pool {
		pool[i] = len(e.trace)
		e.trace = append(e.trace, DieOutcome{Sides: sides, Value: e.roller.Roll(sides), Kept: true})
	}

	for i, sel := range selectors {
		switch sel.Kind {
		case KeepHigh, KeepLow, DiscardHigh, DiscardLow:
			e.selectByValue(pool, sel)
		case Advantage, Disadvantage:
			// The second side replays this roll with the selectors seen so far.
			other, err := e.rollPool(count, sides, selectors[:i])
			if err != nil {
				return nil, err
			}
			pool = e.pickSide(pool, other, sel.Kind == Advantage)
		default:
			return nil, fmt.Errorf("unsupported selector: %s", sel.Kind)
		}
	}
	return pool, nil
}

// selectByValue applies a keep or discard selector to the kept dice of pool.
func (e *evaluator) selectByValue(pool []int, sel Selector) {
	kept := make([]int, 0, len(pool))
	for _, idx := range pool {
		if e.trace[idx].Kept {
			kept = append(kept, idx)
		}
	}

	high := sel.Kind == KeepHigh || sel.Kind == DiscardHigh
	// pool is in roll order, so a stable sort lets the earlier die win ties.
	sort.SliceStable(kept, func(a, b int) bool {
		va, vb := e.trace[kept[a]].Value, e.trace[kept[b]].Value
		if high {
			return va > vb
		}
		return va < vb
	})

	n := min(max(sel.Count, 0), len(kept))
	dropped := kept[n:]
	if sel.Kind == DiscardHigh || sel.Kind == DiscardLow {
		dropped = kept[:n]
	}
	for _, idx := range dropped {
		e.trace[idx].Kept = false
	}
}

// pickSide keeps the side with the higher (or lower) kept total and drops
// every die of the other. Ties keep first.
func (e *evaluator) pickSide(first, second []int, higher bool) []int {
	a, b := e.keptTotal(first), e.keptTotal(second)
	winner, loser := first, second
	if (higher && b > a) || (!higher && b < a) {
		winner, loser = second, first
	}
	for _, idx := range loser {
		e.trace[idx].Kept = false
	}
	return winner
}

func (e *evaluator) keptTotal(pool []int) int {
	total := 0
	for _, idx := range pool {
		if e.trace[idx].Kept {
			total += e.trace[idx].Value
		}
	}
	return total
}
