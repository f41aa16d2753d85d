package diff

import (
	"errors"
	"fmt"
)

// Kind tags an edit operation.
type Kind int

const (
	Insert Kind = iota
	Remove
	Change
	Move
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "Insert"
	case Remove:
		return "Remove"
	case Change:
		return "Change"
	case Move:
		return "Move"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Op is one step of an edit script. Ops are applied in order and each
// position refers to the sequence as it stands when that op runs:
//
//	Insert(Pos, Count)  Items are placed so the first lands at Pos
//	Remove(Pos, Count)  Count entries starting at Pos are dropped
//	Change(Pos)         the entry at Pos is replaced by Items[0]
//	Move(Pos, To)       the entry at Pos is taken out and reinserted at To
type Op[T any] struct {
	Kind  Kind
	Pos   int
	Count int
	To    int
	Items []T
}

func (o Op[T]) String() string {
	switch o.Kind {
	case Insert, Remove:
		return fmt.Sprintf("%s(%d,%d)", o.Kind, o.Pos, o.Count)
	case Change:
		return fmt.Sprintf("Change(%d)", o.Pos)
	case Move:
		return fmt.Sprintf("Move(%d,%d)", o.Pos, o.To)
	default:
		return o.Kind.String()
	}
}

// ErrOutOfRange is returned by Apply when an op does not fit the sequence.
var ErrOutOfRange = errors.New("diff: op out of range")

// Apply runs ops against a copy of seq and returns the result.
func Apply[T any](seq []T, ops []Op[T]) ([]T, error) {
	out := append([]T(nil), seq...)
	for i, op := range ops {
		switch op.Kind {
		case Insert:
			if op.Pos < 0 || op.Pos > len(out) || op.Count != len(op.Items) {
				return nil, fmt.Errorf("op %d %s on len %d: %w", i, op, len(out), ErrOutOfRange)
			}
			tail := append([]T(nil), out[op.Pos:]...)
			out = append(append(out[:op.Pos], op.Items...), tail...)
		case Remove:
			if op.Pos < 0 || op.Count < 0 || op.Pos+op.Count > len(out) {
				return nil, fmt.Errorf("op %d %s on len %d: %w", i, op, len(out), ErrOutOfRange)
			}
			out = append(out[:op.Pos], out[op.Pos+op.Count:]...)
		case Change:
			if op.Pos < 0 || op.Pos >= len(out) || len(op.Items) != 1 {
				return nil, fmt.Errorf("op %d %s on len %d: %w", i, op, len(out), ErrOutOfRange)
			}
			out[op.Pos] = op.Items[0]
		case Move:
			if op.Pos < 0 || op.Pos >= len(out) || op.To < 0 || op.To >= len(out) {
				return nil, fmt.Errorf("op %d %s on len %d: %w", i, op, len(out), ErrOutOfRange)
			}
			v := out[op.Pos]
			out = append(out[:op.Pos], out[op.Pos+1:]...)
			out = append(out[:op.To], append([]T{v}, out[op.To:]...)...)
		}
	}
	return out, nil
}
