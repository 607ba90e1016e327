package vm_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forlang/internal/ast"
	"forlang/internal/source"
	"forlang/internal/vm"
)

func TestScenarios(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		lines []string
		x     int64
	}{
		{"three iterations", `for (x=0; x<3; x++) { printf("hi"); }`, []string{"hi", "hi", "hi"}, 3},
		{"break skips update", `for (x=5; x!=0; x--) { printf("go"); break; }`, []string{"go"}, 5},
		{"break before update", `for (x=5; x>0; x--) { printf("go"); break; }`, []string{"go"}, 5},
		{"zero iterations", `for (x=0; x>0; x++) { printf("never"); }`, nil, 0},
		{"false on entry", `for (x=0; x<0; x++) { printf("never"); }`, nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := run(t, tc.src, vm.Options{})
			require.Nil(t, res.err)
			assert.Equal(t, tc.lines, res.lines)
			assert.Equal(t, tc.x, res.vm.Store.Get("x"))
		})
	}
}

func TestFalseConditionLeavesOnlyInitBinding(t *testing.T) {
	res := run(t, `for (x=0; x<0; x++) { printf("never"); }`, vm.Options{})
	require.Nil(t, res.err)
	assert.Empty(t, res.lines)
	assert.Zero(t, res.vm.Iterations)
	assert.Equal(t, map[string]int64{"x": 0}, res.vm.Store.Snapshot())
}

func TestIterationCountMatchesTrueChecks(t *testing.T) {
	cases := []struct {
		src  string
		want uint64
		x    int64
	}{
		{`for (i=0; i<10; i++) { printf('a'); }`, 10, 10},
		{`for (i=10; i>=0; i--) { printf('a'); }`, 11, -1},
		{`for (i=-3; i<=3; i++) { printf('a'); }`, 7, 4},
		{`for (i=7; i==7; i++) { printf('a'); }`, 1, 8},
	}
	for _, tc := range cases {
		res := run(t, tc.src, vm.Options{})
		require.Nil(t, res.err, tc.src)
		assert.Equal(t, tc.want, res.vm.Iterations, tc.src)
		assert.Len(t, res.lines, int(tc.want), tc.src)
		assert.Equal(t, tc.x, res.vm.Store.Get("i"), tc.src)
	}
}

func TestFinalValueNegatesCondition(t *testing.T) {
	for _, op := range []ast.RelOp{ast.RelLt, ast.RelLe, ast.RelGt, ast.RelGe, ast.RelEq, ast.RelNe} {
		inc := ast.IncIncrement
		start, limit := int64(0), int64(4)
		if op == ast.RelGt || op == ast.RelGe {
			inc = ast.IncDecrement
			start, limit = 4, 0
		}
		if op == ast.RelEq {
			start, limit = 4, 4
		}
		b, file := buildTree(loopSpec{
			initName: "k", initVal: start,
			condName: "k", rel: op, limit: limit,
			updName: "k", inc: inc,
			body: []string{`"."`},
		})
		res := runTree(context.Background(), b, file, nil, vm.Options{})
		require.Nil(t, res.err, op.String())

		final := res.vm.Store.Get("k")
		holds, known := vm.Compare(final, op, limit)
		require.True(t, known)
		assert.False(t, holds, "condition k %s %d still holds for k=%d", op, limit, final)
	}
}

func TestEvalConditionIsIdempotent(t *testing.T) {
	b, file := buildTree(loopSpec{initName: "x", condName: "x", rel: ast.RelLt, limit: 5, updName: "x", inc: ast.IncIncrement})
	m := vm.New(b, file, nil, nil, vm.Options{})
	st := vm.NewStore()
	st.Set("x", 2)

	loop, ok := b.Items.Loop(b.Files.Get(file).Items[0])
	require.True(t, ok)

	for range 5 {
		got, vmErr := m.EvalCondition(st, &loop.Cond)
		require.Nil(t, vmErr)
		assert.True(t, got)
	}
	assert.Equal(t, map[string]int64{"x": 2}, st.Snapshot())
}

func TestUnsetVariableReadsZero(t *testing.T) {
	// init пишет в a, условие и обновление работают с b
	res := run(t, `for (a=9; b<2; b++) { printf("z"); }`, vm.Options{})
	require.Nil(t, res.err)
	assert.Equal(t, []string{"z", "z"}, res.lines)
	assert.Equal(t, map[string]int64{"a": 9, "b": 2}, res.vm.Store.Snapshot())
}

func TestExecUpdate(t *testing.T) {
	b, file := buildTree(
		loopSpec{initName: "x", condName: "x", rel: ast.RelLt, updName: "n", inc: ast.IncIncrement},
		loopSpec{initName: "x", condName: "x", rel: ast.RelLt, updName: "n", inc: ast.IncDecrement},
	)
	m := vm.New(b, file, nil, nil, vm.Options{})
	st := vm.NewStore()
	items := b.Files.Get(file).Items
	inc, _ := b.Items.Loop(items[0])
	dec, _ := b.Items.Loop(items[1])

	v, vmErr := m.ExecUpdate(st, &inc.Update)
	require.Nil(t, vmErr)
	assert.Equal(t, int64(1), v, "unset variable counts as 0")

	v, vmErr = m.ExecUpdate(st, &dec.Update)
	require.Nil(t, vmErr)
	v, vmErr = m.ExecUpdate(st, &dec.Update)
	require.Nil(t, vmErr)
	assert.Equal(t, int64(-1), v)
	assert.Equal(t, int64(-1), st.Get("n"))
}

func TestBreakTruncatesBody(t *testing.T) {
	res := run(t, `for (i=0; i<3; i++) { printf("a"); printf("b"); break; printf("c"); }`, vm.Options{})
	require.Nil(t, res.err)
	assert.Equal(t, []string{"a", "b"}, res.lines)
	assert.Equal(t, int64(0), res.vm.Store.Get("i"), "update must not run after break")
	assert.Equal(t, uint64(1), res.vm.Iterations)
}

func TestExecBodyReturnsControl(t *testing.T) {
	b, file := buildTree(
		loopSpec{body: []string{`"a"`, `'b'`}},
		loopSpec{body: []string{`"a"`, "break", `"never"`}},
	)
	rt := vm.NewBufferRuntime()
	m := vm.New(b, file, rt, nil, vm.Options{})
	items := b.Files.Get(file).Items

	l0, _ := b.Items.Loop(items[0])
	ctl, vmErr := m.ExecBody(vm.NewStore(), l0.Body)
	require.Nil(t, vmErr)
	assert.Equal(t, vm.ControlLinear, ctl)

	l1, _ := b.Items.Loop(items[1])
	ctl, vmErr = m.ExecBody(vm.NewStore(), l1.Body)
	require.Nil(t, vmErr)
	assert.Equal(t, vm.ControlBreak, ctl)

	assert.Equal(t, []string{"a", "b", "a"}, rt.Lines())
}

func TestOutputKeepsEscapesVerbatim(t *testing.T) {
	res := run(t, `for (i=0; i<1; i++) { printf("a\tb"); printf(''); printf("it's"); }`, vm.Options{})
	require.Nil(t, res.err)
	assert.Equal(t, []string{`a\tb`, "", "it's"}, res.lines)
}

func TestUnknownOperatorHaltsBeforeOutput(t *testing.T) {
	t.Run("relational", func(t *testing.T) {
		b, file := buildTree(loopSpec{initName: "x", condName: "x", rel: ast.RelOp(42), updName: "x", inc: ast.IncIncrement, body: []string{`"out"`}})
		res := runTree(context.Background(), b, file, nil, vm.Options{})
		require.NotNil(t, res.err)
		assert.Equal(t, vm.PanicUnknownOperator, res.err.Code)
		assert.Empty(t, res.lines)
		assert.Contains(t, res.err.Error(), "VM2001")
	})
	t.Run("increment", func(t *testing.T) {
		b, file := buildTree(loopSpec{initName: "x", condName: "x", rel: ast.RelLt, limit: 3, updName: "x", inc: ast.IncInvalid, body: []string{`"once"`}})
		res := runTree(context.Background(), b, file, nil, vm.Options{})
		require.NotNil(t, res.err)
		assert.Equal(t, vm.PanicUnknownOperator, res.err.Code)
		assert.Equal(t, []string{"once"}, res.lines)
		assert.Equal(t, int64(0), res.vm.Store.Get("x"))
	})
}

func TestErrorPropagatesPastLaterLoops(t *testing.T) {
	b, file := buildTree(
		loopSpec{initName: "x", condName: "x", rel: ast.RelInvalid, updName: "x", inc: ast.IncIncrement},
		loopSpec{initName: "y", condName: "y", rel: ast.RelLt, limit: 1, updName: "y", inc: ast.IncIncrement, body: []string{`"second"`}},
	)
	res := runTree(context.Background(), b, file, nil, vm.Options{})
	require.NotNil(t, res.err)
	assert.Empty(t, res.lines)
	_, ok := res.vm.Store.Lookup("y")
	assert.False(t, ok, "second loop must not start")
}

func TestSequentialLoopsShareStore(t *testing.T) {
	src := `
for (i=0; i<2; i++) { printf("first"); }
for (j=0; i<4; i++) { printf("second"); }
`
	res := run(t, src, vm.Options{})
	require.Nil(t, res.err)
	assert.Equal(t, []string{"first", "first", "second", "second"}, res.lines)
	assert.Equal(t, map[string]int64{"i": 4, "j": 0}, res.vm.Store.Snapshot())
}

func TestEmptyProgram(t *testing.T) {
	res := run(t, "// nothing here\n", vm.Options{})
	require.Nil(t, res.err)
	assert.Empty(t, res.lines)
	assert.Zero(t, res.vm.Store.Len())
}

func TestIntegerOverflow(t *testing.T) {
	b, file := buildTree(loopSpec{
		initName: "x", initVal: math.MaxInt64 - 1,
		condName: "x", rel: ast.RelNe, limit: 0,
		updName: "x", inc: ast.IncIncrement,
		body: []string{`"."`},
	})
	res := runTree(context.Background(), b, file, nil, vm.Options{})
	require.NotNil(t, res.err)
	assert.Equal(t, vm.PanicIntegerOverflow, res.err.Code)
	assert.Equal(t, int64(math.MaxInt64), res.vm.Store.Get("x"), "failed update leaves store untouched")
	assert.Len(t, res.lines, 2)
}

func TestIterationLimit(t *testing.T) {
	res := run(t, `for (x=0; x>=0; x++) { printf("loop"); }`, vm.Options{MaxIterations: 5})
	require.NotNil(t, res.err)
	assert.Equal(t, vm.PanicIterationLimit, res.err.Code)
	assert.Len(t, res.lines, 5)
	assert.Equal(t, uint64(5), res.vm.Iterations)
}

func TestIterationLimitExactlyReached(t *testing.T) {
	res := run(t, `for (x=0; x<5; x++) { printf("loop"); }`, vm.Options{MaxIterations: 5})
	require.Nil(t, res.err)
	assert.Len(t, res.lines, 5)
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, file, fs := compile(t, `for (x=0; x<1; x--) { printf("spin"); }`)
	res := runTree(ctx, b, file, fs, vm.Options{})
	require.NotNil(t, res.err)
	assert.Equal(t, vm.PanicCancelled, res.err.Code)
	assert.Contains(t, res.err.Message, context.Canceled.Error())
	assert.Empty(t, res.lines)
}

type cancelAfter struct {
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Output(string) error {
	c.n--
	if c.n == 0 {
		c.cancel()
	}
	return nil
}

func TestCancellationBetweenIterations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, file, fs := compile(t, `for (x=0; x<1; x--) { printf("spin"); }`)
	sink := &cancelAfter{n: 3, cancel: cancel}
	m := vm.New(b, file, sink, fs, vm.Options{})
	vmErr := m.Run(ctx)
	require.NotNil(t, vmErr)
	assert.Equal(t, vm.PanicCancelled, vmErr.Code)
	assert.Equal(t, uint64(3), m.Lines)
	assert.Equal(t, int64(-3), m.Store.Get("x"))
}

type failingRuntime struct{}

func (failingRuntime) Output(string) error { return errors.New("disk full") }

func TestOutputFailure(t *testing.T) {
	b, file, fs := compile(t, `for (x=0; x<3; x++) { printf("hi"); }`)
	m := vm.New(b, file, failingRuntime{}, fs, vm.Options{})
	vmErr := m.Run(context.Background())
	require.NotNil(t, vmErr)
	assert.Equal(t, vm.PanicOutputFailed, vmErr.Code)
	assert.Contains(t, vmErr.Message, "disk full")
}

func TestMalformedTree(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	file := b.NewFile(source.Span{})
	b.PushItem(file, ast.ItemID(77))

	res := runTree(context.Background(), b, file, nil, vm.Options{})
	require.NotNil(t, res.err)
	assert.Equal(t, vm.PanicMalformedTree, res.err.Code)

	b2, file2 := buildTree(loopSpec{condName: "x", rel: ast.RelLt, limit: 1, updName: "x", inc: ast.IncIncrement})
	loop, _ := b2.Items.Loop(b2.Files.Get(file2).Items[0])
	loop.Body = b2.Stmts.NewBreak(source.Span{})
	res = runTree(context.Background(), b2, file2, nil, vm.Options{})
	require.NotNil(t, res.err)
	assert.Equal(t, vm.PanicMalformedTree, res.err.Code)

	res = runTree(context.Background(), b, ast.FileID(9), nil, vm.Options{})
	require.NotNil(t, res.err)
	assert.Equal(t, vm.PanicMalformedTree, res.err.Code)
}

func TestFormatWithFiles(t *testing.T) {
	b, file, fs := compile(t, "for (x=9223372036854775806; x>0; x++) {\n  printf(\"big\");\n}\n")
	res := runTree(context.Background(), b, file, fs, vm.Options{})
	require.NotNil(t, res.err)
	require.Equal(t, vm.PanicIntegerOverflow, res.err.Code)

	out := res.err.FormatWithFiles(fs)
	assert.True(t, strings.HasPrefix(out, "panic VM2002: integer overflow"), out)
	assert.Contains(t, out, "at prog.fl:1:")
	assert.Contains(t, out, "backtrace:\n  0: update x++ at prog.fl:1:")
	assert.Contains(t, out, "  1: loop#1 at prog.fl:1:1")
}

func TestStripDelimiters(t *testing.T) {
	got, ok := vm.StripDelimiters(`"hello"`)
	assert.True(t, ok)
	assert.Equal(t, "hello", got)

	_, ok = vm.StripDelimiters(`"`)
	assert.False(t, ok)
}

func TestParsePanicCode(t *testing.T) {
	code, ok := vm.ParsePanicCode(vm.PanicIterationLimit.String())
	require.True(t, ok)
	assert.Equal(t, vm.PanicIterationLimit, code)

	for _, bad := range []string{"", "VM", "E2001", "VM20x1", "VM0"} {
		_, ok := vm.ParsePanicCode(bad)
		assert.False(t, ok, bad)
	}
}
