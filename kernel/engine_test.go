package kernel

import (
	"context"
	"errors"
	stdmath "math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-lanemath/lane"
)

// buf builds a buffer of elem with the given per-lane values; vals holds
// width values per lane without padding.
func buf(elem lane.ElemType, width int, vals ...float64) *lane.Buffer {
	n := len(vals) / width
	b := lane.Alloc(elem, width, n)
	for i := 0; i < n; i++ {
		for k := 0; k < width; k++ {
			b.SetFloat(b.Index(i, k), vals[i*width+k])
		}
	}
	return b
}

// values flattens b into per-lane values without padding.
func values(b *lane.Buffer) []float64 {
	out := make([]float64, 0, b.Lanes()*b.Width())
	for i := 0; i < b.Lanes(); i++ {
		out = append(out, b.Lane(i)...)
	}
	return out
}

// nanEqual compares float slices treating NaNs as equal.
var nanEqual = cmp.Comparer(func(a, b float64) bool {
	if stdmath.IsNaN(a) || stdmath.IsNaN(b) {
		return stdmath.IsNaN(a) && stdmath.IsNaN(b)
	}
	return a == b
})

func newEngine(t testing.TB, cfg Config) *Engine {
	t.Helper()
	eng := New(cfg)
	t.Cleanup(eng.Close)
	return eng
}

func TestFminIgnoresNaN(t *testing.T) {
	eng := newEngine(t, DefaultConfig())

	res, err := eng.Evaluate(context.Background(), Invocation{
		Op:    "fmin",
		Width: 2,
		Elem:  lane.Float32,
		Lanes: 1,
		Inputs: map[string]*lane.Buffer{
			"a": lane.MustBuffer(2, []float32{1, float32(stdmath.NaN())}),
			"b": lane.MustBuffer(2, []float32{2, 3}),
		},
	})
	require.NoError(t, err)
	got, ok := lane.Data[float32](res.Primary)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 3}, got)
	assert.Empty(t, res.Aux)
}

func TestAbsMostNegative(t *testing.T) {
	eng := newEngine(t, DefaultConfig())

	in := lane.MustBuffer(1, []int8{-128, -1, 0, 127})
	res, err := eng.EvaluateOp(context.Background(), "abs", 1, lane.Int8,
		map[string]*lane.Buffer{"v": in}, 4)
	require.NoError(t, err)

	assert.Equal(t, lane.Uint8, res.Primary.Elem())
	got, _ := lane.Data[uint8](res.Primary)
	assert.Equal(t, []uint8{128, 1, 0, 127}, got)
}

func TestAbsIdempotent(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	ctx := context.Background()

	all := make([]int16, 0, 1<<16)
	for v := stdmath.MinInt16; v <= stdmath.MaxInt16; v++ {
		all = append(all, int16(v))
	}
	first, err := eng.EvaluateOp(ctx, "abs", 4, lane.Int16,
		map[string]*lane.Buffer{"v": lane.MustBuffer(4, all)}, len(all)/4)
	require.NoError(t, err)

	// Reinterpret the unsigned magnitudes as the signed input type.
	mags, _ := lane.Data[uint16](first.Primary)
	again := make([]int16, len(mags))
	for i, m := range mags {
		again[i] = int16(m)
	}
	second, err := eng.EvaluateOp(ctx, "abs", 4, lane.Int16,
		map[string]*lane.Buffer{"v": lane.MustBuffer(4, again)}, len(again)/4)
	require.NoError(t, err)

	assert.True(t, lane.Equal(first.Primary, second.Primary))
}

func TestZeroLanes(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	ctx := context.Background()

	for _, op := range DefaultRegistry().Ops() {
		for _, elem := range op.Elems {
			for width := 1; width <= lane.MaxWidth; width++ {
				inputs := make(map[string]*lane.Buffer, len(op.Inputs))
				for _, in := range op.Inputs {
					inputs[in.Name] = lane.Alloc(in.Type.Resolve(elem), width, 0)
				}
				res, err := eng.EvaluateOp(ctx, op.Name, width, elem, inputs, 0)
				require.NoError(t, err, "%s on %vx%d", op.Name, elem, width)
				assert.Zero(t, res.Primary.Lanes())
				assert.Equal(t, op.OutputType(elem), res.Primary.Elem())
				assert.Len(t, res.Aux, len(op.Aux))
				for _, aux := range res.Aux {
					assert.Zero(t, aux.Lanes())
				}
			}
		}
	}
}

func TestLanePermutation(t *testing.T) {
	eng := newEngine(t, Config{BatchLanes: 3, ParallelThreshold: -1})
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(1, 2))

	const n, width = 257, 3
	x := make([]float64, n*width)
	y := make([]float64, n*width)
	for i := range x {
		x[i] = rng.Float64()*200 - 100
		y[i] = rng.Float64()*20 - 10
	}
	perm := rng.Perm(n)
	px := make([]float64, 0, len(x))
	py := make([]float64, 0, len(y))
	for _, p := range perm {
		px = append(px, x[p*width:(p+1)*width]...)
		py = append(py, y[p*width:(p+1)*width]...)
	}

	eval := func(a, b []float64) *Result {
		res, err := eng.EvaluateOp(ctx, "remquo", width, lane.Float32, map[string]*lane.Buffer{
			"x": buf(lane.Float32, width, a...),
			"y": buf(lane.Float32, width, b...),
		}, n)
		require.NoError(t, err)
		return res
	}
	base := eval(x, y)
	permuted := eval(px, py)

	for j, p := range perm {
		if diff := cmp.Diff(base.Primary.Lane(p), permuted.Primary.Lane(j), nanEqual); diff != "" {
			t.Fatalf("lane %d remainder differs (-base +permuted):\n%s", p, diff)
		}
		if diff := cmp.Diff(base.Aux["quotient"].Lane(p), permuted.Aux["quotient"].Lane(j)); diff != "" {
			t.Fatalf("lane %d quotient differs (-base +permuted):\n%s", p, diff)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	seq := newEngine(t, Config{Workers: 1, ParallelThreshold: 1 << 30})
	par := newEngine(t, Config{Workers: 4, BatchLanes: 7, ParallelThreshold: -1})
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(3, 4))

	vals := make([]float64, 1000*4)
	for i := range vals {
		vals[i] = rng.NormFloat64() * 50
	}
	inputs := map[string]*lane.Buffer{"v": buf(lane.Float64, 4, vals...)}

	for _, name := range []string{"asinh", "sincos", "frexp", "tgamma", "cospi"} {
		a, err := seq.EvaluateOp(ctx, name, 4, lane.Float64, inputs, 1000)
		require.NoError(t, err)
		b, err := par.EvaluateOp(ctx, name, 4, lane.Float64, inputs, 1000)
		require.NoError(t, err)
		assert.True(t, lane.Equal(a.Primary, b.Primary), name)
		for k := range a.Aux {
			assert.True(t, lane.Equal(a.Aux[k], b.Aux[k]), "%s aux %s", name, k)
		}
	}
}

func TestWidth3Padding(t *testing.T) {
	eng := newEngine(t, DefaultConfig())

	// Padding slots hold garbage that must not leak into the result.
	in := lane.MustBuffer(3, []float32{1, 2, 4, 99, -8, 0.5, 16, 99})
	res, err := eng.EvaluateOp(context.Background(), "frexp", 3, lane.Float32,
		map[string]*lane.Buffer{"v": in}, 2)
	require.NoError(t, err)

	frac, _ := lane.Data[float32](res.Primary)
	exp, _ := lane.Data[int32](res.Aux["exponent"])
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0, -0.5, 0.5, 0.5, 0}, frac)
	assert.Equal(t, []int32{1, 2, 3, 0, 4, 0, 5, 0}, exp)
}

func TestCancelled(t *testing.T) {
	for _, cfg := range []Config{
		{ParallelThreshold: 1 << 30},
		{Workers: 4, BatchLanes: 16, ParallelThreshold: -1},
	} {
		eng := newEngine(t, cfg)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		in := buf(lane.Float32, 1, make([]float64, 4096)...)
		res, err := eng.EvaluateOp(ctx, "recip", 1, lane.Float32, map[string]*lane.Buffer{"v": in}, 4096)
		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, res)

		var cfgErr *ConfigError
		assert.False(t, errors.As(err, &cfgErr))
	}
}

func TestEngineClosed(t *testing.T) {
	eng := New(Config{ParallelThreshold: -1})
	eng.Close()

	res, err := eng.EvaluateOp(context.Background(), "recip", 2, lane.Float64,
		map[string]*lane.Buffer{"v": buf(lane.Float64, 2, 1, 2, 4, 8)}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5, 0.25, 0.125}, values(res.Primary))
}

func TestConcurrentEvaluate(t *testing.T) {
	eng := newEngine(t, Config{Workers: 2, BatchLanes: 5, ParallelThreshold: -1})
	in := buf(lane.Float32, 2, 1, 4, 9, 16, 25, 36, 49, 64)

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			res, err := eng.EvaluateOp(context.Background(), "rootn", 2, lane.Float32, map[string]*lane.Buffer{
				"x": in,
				"n": lane.MustBuffer(2, []int32{2, 2, 2, 2, 2, 2, 2, 2}),
			}, 4)
			if err == nil && !cmp.Equal(values(res.Primary), []float64{1, 2, 3, 4, 5, 6, 7, 8}) {
				err = errors.New("wrong result")
			}
			errs <- err
		}()
	}
	for range 8 {
		require.NoError(t, <-errs)
	}
}

func BenchmarkEvaluateHypot(b *testing.B) {
	eng := newEngine(b, DefaultConfig())
	const n = 1 << 16
	x := lane.Alloc(lane.Float32, 4, n)
	y := lane.Alloc(lane.Float32, 4, n)
	inputs := map[string]*lane.Buffer{"x": x, "y": y}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.EvaluateOp(ctx, "hypot", 4, lane.Float32, inputs, n); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvaluateNativePowr(b *testing.B) {
	eng := newEngine(b, DefaultConfig())
	const n = 1 << 16
	x := lane.Alloc(lane.Float32, 4, n)
	y := lane.Alloc(lane.Float32, 4, n)
	for i := 0; i < n*4; i++ {
		x.SetFloat(i, 1.5)
		y.SetFloat(i, float64(i%17))
	}
	inputs := map[string]*lane.Buffer{"x": x, "y": y}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.EvaluateOp(ctx, "native_powr", 4, lane.Float32, inputs, n); err != nil {
			b.Fatal(err)
		}
	}
}
