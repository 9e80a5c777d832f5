package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	intPair   = Tuple2[int, int]
	intTriple = Tuple3[int, int, int]
	nested    = Tuple2[int, intPair]
)

func testDomain() *Domain {
	return NewDomain("test",
		Type[int]("int"),
		Type[string]("string"),
		Structural[intPair]("pair"),
		Structural[intTriple]("triple"),
		Structural[nested]("nested"),
	)
}

// resolvedInt returns the resolved int bound to v in s, failing the test if unbound.
func resolvedInt(t *testing.T, s *State, v Val[int]) int {
	t.Helper()
	n, ok := Reify(s, v)
	require.True(t, ok, "expected %s to be bound in %s", v, s)
	return n
}

func TestNewLVar_Unique(t *testing.T) {
	seen := make(map[LVar]bool)
	for i := 0; i < 100; i++ {
		v := NewLVar()
		assert.False(t, v.IsZero())
		assert.False(t, seen[v], "duplicate LVar %s", v)
		seen[v] = true
	}
}

func TestVal_Construction(t *testing.T) {
	x := Fresh[int]()
	assert.True(t, x.IsVar())
	_, ok := x.Value()
	assert.False(t, ok)

	five := Resolved(5)
	assert.False(t, five.IsVar())
	n, ok := five.Value()
	require.True(t, ok)
	assert.Equal(t, 5, n)
	assert.Equal(t, "5", five.String())

	_, isVar := five.LVar()
	assert.False(t, isVar)
	lv, isVar := x.LVar()
	assert.True(t, isVar)
	assert.Equal(t, lv.String(), x.String())
}

func TestVal_MustValuePanicsOnVar(t *testing.T) {
	assert.Panics(t, func() { Fresh[int]().MustValue() })
	assert.Equal(t, 3, Resolved(3).MustValue())
}

func TestResolve_FollowsChains(t *testing.T) {
	s := NewState(testDomain())
	x, y, z := Fresh[int](), Fresh[int](), Fresh[int]()

	s, ok := Unify(s, x, y)
	require.True(t, ok)
	s, ok = Unify(s, y, z)
	require.True(t, ok)

	// Still unresolved: chain ends at an unbound variable.
	assert.True(t, x.Resolve(s).IsVar())

	s, ok = Unify(s, z, Resolved(7))
	require.True(t, ok)
	assert.Equal(t, 7, x.Resolve(s).MustValue())
	assert.Equal(t, 7, y.Resolve(s).MustValue())
}

func TestResolve_DoesNotMutateState(t *testing.T) {
	s := NewState(testDomain())
	x := Fresh[int]()
	s1, ok := Unify(s, x, Resolved(1))
	require.True(t, ok)

	before := s1.String()
	_ = x.Resolve(s1)
	assert.Equal(t, before, s1.String())
	assert.Equal(t, 0, Table[int](s).Len(), "original state must stay empty")
}

func TestUnify_Atomic(t *testing.T) {
	s := NewState(testDomain())

	next, ok := Unify(s, Resolved(4), Resolved(4))
	assert.True(t, ok)
	assert.Same(t, s, next, "equal values must not change the state")

	next, ok = Unify(s, Resolved(4), Resolved(5))
	assert.False(t, ok)
	assert.Nil(t, next)

	_, ok = Unify(s, Resolved("a"), Resolved("a"))
	assert.True(t, ok)
	_, ok = Unify(s, Resolved("a"), Resolved("b"))
	assert.False(t, ok)
}

func TestUnify_BindsVariable(t *testing.T) {
	testCases := []struct {
		name string
		swap bool
	}{
		{"var on left", false},
		{"var on right", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState(testDomain())
			x := Fresh[int]()
			a, b := x, Resolved(9)
			if tc.swap {
				a, b = b, a
			}
			next, ok := Unify(s, a, b)
			require.True(t, ok)
			assert.Equal(t, 9, resolvedInt(t, next, x))
			assert.True(t, x.Resolve(s).IsVar(), "original state must not see the binding")
		})
	}
}

func TestUnify_SameVariableIsNoop(t *testing.T) {
	s := NewState(testDomain())
	x := Fresh[int]()
	next, ok := Unify(s, x, x)
	require.True(t, ok)
	assert.Same(t, s, next)
}

func TestUnify_TwoVariablesShareBinding(t *testing.T) {
	s := NewState(testDomain())
	x, y := Fresh[int](), Fresh[int]()

	s, ok := Unify(s, x, y)
	require.True(t, ok)
	s, ok = Unify(s, y, Resolved(3))
	require.True(t, ok)
	assert.Equal(t, 3, resolvedInt(t, s, x))

	_, ok = Unify(s, x, Resolved(4))
	assert.False(t, ok, "binding is monotonic within a lineage")
}

func TestUnify_Symmetric(t *testing.T) {
	x := Fresh[int]()
	pairs := []struct {
		name string
		a, b Val[int]
	}{
		{"equal", Resolved(1), Resolved(1)},
		{"unequal", Resolved(1), Resolved(2)},
		{"var and value", x, Resolved(2)},
	}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			s := NewState(testDomain())
			ab, okAB := Unify(s, p.a, p.b)
			ba, okBA := Unify(s, p.b, p.a)
			require.Equal(t, okAB, okBA)
			if okAB {
				assert.Equal(t, ab.String(), ba.String())
			}
		})
	}
}

func TestUnify_Idempotent(t *testing.T) {
	s := NewState(testDomain())
	x := Fresh[int]()
	s, ok := Unify(s, x, Resolved(2))
	require.True(t, ok)

	v := Resolved(2)
	next, ok := Unify(s, v, v)
	require.True(t, ok)
	assert.Same(t, s, next)

	next, ok = Unify(s, x, Resolved(2))
	require.True(t, ok)
	assert.Equal(t, s.String(), next.String())
}

func TestUnify_Tuple(t *testing.T) {
	s := NewState(testDomain())
	y := Fresh[int]()

	next, ok := Unify(s, Pair(Resolved(1), y), Pair(Resolved(1), Resolved(2)))
	require.True(t, ok)
	assert.Equal(t, 2, resolvedInt(t, next, y))

	_, ok = Unify(s, Pair(Resolved(1), Resolved(3)), Pair(Resolved(1), Resolved(2)))
	assert.False(t, ok)
}

func TestUnify_TupleShortCircuitsWithoutPartialBindings(t *testing.T) {
	s := NewState(testDomain())
	x := Fresh[int]()

	// First element binds x, second element conflicts.
	next, ok := Unify(s, Pair(x, Resolved(3)), Pair(Resolved(1), Resolved(2)))
	assert.False(t, ok)
	assert.Nil(t, next)
	assert.True(t, x.Resolve(s).IsVar(), "no partial binding may be observable")
	assert.Equal(t, 0, Table[int](s).Len())
}

func TestUnify_TupleThreadsState(t *testing.T) {
	s := NewState(testDomain())
	x := Fresh[int]()

	// Binding from element 1 must be visible to element 2.
	_, ok := Unify(s, Pair(x, x), Pair(Resolved(1), Resolved(2)))
	assert.False(t, ok)

	next, ok := Unify(s, Pair(x, x), Pair(Resolved(1), Resolved(1)))
	require.True(t, ok)
	assert.Equal(t, 1, resolvedInt(t, next, x))
}

func TestUnify_Triple(t *testing.T) {
	s := NewState(testDomain())
	x := Fresh[intTriple]()
	y := Fresh[int]()

	s, ok := Unify(s, x, Triple(Resolved(1), y, Resolved(3)))
	require.True(t, ok)
	s, ok = Unify(s, x, Triple(Resolved(1), Resolved(2), Resolved(3)))
	require.True(t, ok)
	assert.Equal(t, 2, resolvedInt(t, s, y))

	_, ok = Unify(s, x, Triple(Resolved(1), Resolved(2), Resolved(4)))
	assert.False(t, ok)
}

func TestUnify_NestedTuple(t *testing.T) {
	s := NewState(testDomain())
	y := Fresh[int]()
	inner := Fresh[intPair]()

	s, ok := Unify(s, Pair(Resolved(1), inner), Pair(Resolved(1), Pair(Resolved(2), y)))
	require.True(t, ok)
	s, ok = Unify(s, inner, Pair(Resolved(2), Resolved(5)))
	require.True(t, ok)

	got, ok := Reify(s, Pair(Resolved(1), inner))
	require.True(t, ok)
	assert.Equal(t, 1, got.First.MustValue())
	innerPair := got.Second.MustValue()
	assert.Equal(t, 2, innerPair.First.MustValue())
	assert.Equal(t, 5, innerPair.Second.MustValue())
}

func TestReify_UnboundFails(t *testing.T) {
	s := NewState(testDomain())
	_, ok := Reify(s, Fresh[int]())
	assert.False(t, ok)

	_, ok = Reify(s, Pair(Resolved(1), Fresh[int]()))
	assert.False(t, ok, "nested unbound variable must fail reification")
}

func TestIdentical(t *testing.T) {
	s := NewState(testDomain())
	x, y := Fresh[int](), Fresh[int]()

	assert.True(t, Identical(s, x, x))
	assert.False(t, Identical(s, x, y))
	assert.False(t, Identical(s, x, Resolved(1)))
	assert.True(t, Identical(s, Resolved(1), Resolved(1)))
	assert.False(t, Identical(s, Resolved(1), Resolved(2)))

	s, ok := Unify(s, x, Resolved(1))
	require.True(t, ok)
	assert.True(t, Identical(s, x, Resolved(1)))

	assert.True(t, Identical(s, Pair(x, Resolved(2)), Pair(Resolved(1), Resolved(2))))
	assert.False(t, Identical(s, Pair(y, Resolved(2)), Pair(Resolved(1), Resolved(2))))
}

func TestDomain_UnifyValuesDispatches(t *testing.T) {
	d := testDomain()
	s := NewState(d)
	x := Fresh[string]()

	next, ok := d.UnifyValues(s, x, Resolved("hi"))
	require.True(t, ok)
	got, ok := Reify(next, x)
	require.True(t, ok)
	assert.Equal(t, "hi", got)
}

func TestDomain_TypeMismatchPanics(t *testing.T) {
	d := testDomain()
	s := NewState(d)

	defer func() {
		r := recover()
		require.NotNil(t, r, "mismatched domain values must panic")
		err, ok := r.(*InvariantError)
		require.True(t, ok, "panic value should be *InvariantError, got %T", r)
		assert.Equal(t, ErrCodeTypeMismatch, err.Code)
		assert.True(t, IsInvariantError(err))
	}()
	d.UnifyValues(s, Resolved(1), Resolved("1"))
}

func TestDomain_UnregisteredTypePanics(t *testing.T) {
	s := NewState(testDomain())

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*InvariantError)
		require.True(t, ok)
		assert.Equal(t, ErrCodeUnregisteredType, err.Code)
		assert.Equal(t, "test", err.Domain)
	}()
	Unify(s, Resolved(1.5), Resolved(1.5))
}

func TestDomain_DuplicateRegistrationPanics(t *testing.T) {
	assert.PanicsWithError(t, "DUPLICATE_TYPE: type int registered twice (domain=dup)", func() {
		NewDomain("dup", Type[int]("a"), Type[int]("b"))
	})
}

func TestDomain_Metadata(t *testing.T) {
	d := testDomain()
	assert.Equal(t, "test", d.Name())
	assert.Equal(t, []string{"int", "string", "pair", "triple", "nested"}, d.TypeNames())
	assert.True(t, Registered[int](d))
	assert.False(t, Registered[float64](d))
	assert.Equal(t, "test[int string pair triple nested]", d.String())
}

func TestDomain_TypeFunc(t *testing.T) {
	type caseless string
	d := NewDomain("words", TypeFunc[caseless]("word", func(a, b caseless) bool {
		return len(a) == len(b)
	}))
	s := NewState(d)
	_, ok := Unify(s, Resolved(caseless("abc")), Resolved(caseless("xyz")))
	assert.True(t, ok, "custom equality decides atomic unification")
	_, ok = Unify(s, Resolved(caseless("abc")), Resolved(caseless("ab")))
	assert.False(t, ok)
}

func TestNewState_NilDomainPanics(t *testing.T) {
	assert.Panics(t, func() { NewState(nil) })
}

func TestBindings_View(t *testing.T) {
	s := NewState(testDomain())
	x, y := Fresh[int](), Fresh[int]()
	s, _ = Unify(s, x, Resolved(1))
	s, _ = Unify(s, y, x)

	b := Table[int](s)
	assert.Equal(t, 2, b.Len())

	xv, _ := x.LVar()
	got, ok := b.Get(xv)
	require.True(t, ok)
	assert.Equal(t, 1, got.MustValue())

	var order []LVar
	for v := range b.All() {
		order = append(order, v)
	}
	require.Len(t, order, 2)
	assert.Less(t, order[0].ID(), order[1].ID())
}

func TestState_String(t *testing.T) {
	s := NewState(testDomain())
	assert.Equal(t, "State{}", s.String())

	x := Fresh[int]()
	s, _ = Unify(s, x, Resolved(4))
	assert.Equal(t, "State{int: "+x.String()+"=4}", s.String())

	s = s.Fork(func(s *State) Stream { return nil })
	assert.Contains(t, s.String(), "pending=1")
}
