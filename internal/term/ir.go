package term

import (
	"fmt"

	"github.com/roach88/kanren/internal/ir"
	"github.com/roach88/kanren/internal/lmap"
	"github.com/roach88/kanren/internal/logic"
)

// MapKey is the single object key that marks a logic map in IR form:
// {"lmap": [[k, v], ...]}.
const MapKey = "lmap"

// ToIR converts a fully reified term to its IR value.
// Returns an error if the term still contains a variable.
func ToIR(t Term) (ir.IRValue, error) {
	switch t := t.(type) {
	case Int:
		return ir.IRInt(t), nil
	case Str:
		return ir.IRString(t), nil
	case Bool:
		return ir.IRBool(t), nil
	case List:
		arr := make(ir.IRArray, len(t.Items))
		for i, item := range t.Items {
			v, err := valToIR(item)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil
	case Map:
		pairs := make(ir.IRArray, 0, t.Entries.Len())
		for i, e := range t.Entries.Entries() {
			k, err := valToIR(e.Key)
			if err != nil {
				return nil, fmt.Errorf("lmap[%d] key: %w", i, err)
			}
			v, err := valToIR(e.Value)
			if err != nil {
				return nil, fmt.Errorf("lmap[%d] value: %w", i, err)
			}
			pairs = append(pairs, ir.IRArray{k, v})
		}
		return ir.IRObject{MapKey: pairs}, nil
	default:
		return nil, fmt.Errorf("unsupported term type %T", t)
	}
}

func valToIR(v logic.Val[Term]) (ir.IRValue, error) {
	t, ok := v.Value()
	if !ok {
		return nil, fmt.Errorf("unbound variable %s", v)
	}
	return ToIR(t)
}

// FromIR converts a ground IR value to a term. Strings are always atoms.
// Objects must have the single key "lmap" holding [key, value] pairs.
func FromIR(v ir.IRValue) (logic.Val[Term], error) {
	switch v := v.(type) {
	case ir.IRInt:
		return I(int64(v)), nil
	case ir.IRString:
		return S(string(v)), nil
	case ir.IRBool:
		return B(bool(v)), nil
	case ir.IRArray:
		items := make([]logic.Val[Term], len(v))
		for i, elem := range v {
			item, err := FromIR(elem)
			if err != nil {
				return logic.Val[Term]{}, fmt.Errorf("list[%d]: %w", i, err)
			}
			items[i] = item
		}
		return L(items...), nil
	case ir.IRObject:
		pairs, err := MapPairs(v)
		if err != nil {
			return logic.Val[Term]{}, err
		}
		entries := make([]lmap.Entry[Term, Term], len(pairs))
		for i, p := range pairs {
			k, err := FromIR(p[0])
			if err != nil {
				return logic.Val[Term]{}, fmt.Errorf("lmap[%d] key: %w", i, err)
			}
			val, err := FromIR(p[1])
			if err != nil {
				return logic.Val[Term]{}, fmt.Errorf("lmap[%d] value: %w", i, err)
			}
			entries[i] = lmap.E(k, val)
		}
		return M(entries...), nil
	default:
		return logic.Val[Term]{}, fmt.Errorf("unsupported IR value %T", v)
	}
}

// MapPairs checks that obj is a logic map literal and returns its
// [key, value] pairs in order.
func MapPairs(obj ir.IRObject) ([]ir.IRArray, error) {
	raw, ok := obj[MapKey]
	if !ok || len(obj) != 1 {
		return nil, fmt.Errorf("object must have exactly one key %q", MapKey)
	}
	list, ok := raw.(ir.IRArray)
	if !ok {
		return nil, fmt.Errorf("%s must be a list of [key, value] pairs", MapKey)
	}
	pairs := make([]ir.IRArray, len(list))
	for i, elem := range list {
		pair, ok := elem.(ir.IRArray)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%s[%d] must be a [key, value] pair", MapKey, i)
		}
		pairs[i] = pair
	}
	return pairs, nil
}
