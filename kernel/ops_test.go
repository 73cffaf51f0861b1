package kernel

import (
	"context"
	stdmath "math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-lanemath/lane"
)

func eval1(t *testing.T, eng *Engine, op string, elem lane.ElemType, in *lane.Buffer) *Result {
	t.Helper()
	res, err := eng.EvaluateOp(context.Background(), op, in.Width(), elem,
		map[string]*lane.Buffer{"v": in}, in.Lanes())
	require.NoError(t, err)
	return res
}

func TestConvertPolicy(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	nan := stdmath.NaN()

	t.Run("float to int saturates", func(t *testing.T) {
		res := eval1(t, eng, "convert_int8", lane.Float32, buf(lane.Float32, 1, 300.7, -1.5, nan, -300, 126.9))
		got, _ := lane.Data[int8](res.Primary)
		assert.Equal(t, []int8{127, -1, 0, -128, 126}, got)
	})
	t.Run("float to unsigned clamps at zero", func(t *testing.T) {
		res := eval1(t, eng, "convert_uint32", lane.Float64, buf(lane.Float64, 1, 1e20, -5, 4294967295.9))
		got, _ := lane.Data[uint32](res.Primary)
		assert.Equal(t, []uint32{stdmath.MaxUint32, 0, stdmath.MaxUint32}, got)
	})
	t.Run("signed to unsigned wraps", func(t *testing.T) {
		res := eval1(t, eng, "convert_ushort", lane.Int16, lane.MustBuffer(2, []int16{-1, -32768}))
		got, _ := lane.Data[uint16](res.Primary)
		assert.Equal(t, []uint16{65535, 32768}, got)
	})
	t.Run("unsigned to narrower signed wraps", func(t *testing.T) {
		res := eval1(t, eng, "convert_char", lane.Uint32, lane.MustBuffer(1, []uint32{0xFFFFFFFF, 0x180}))
		got, _ := lane.Data[int8](res.Primary)
		assert.Equal(t, []int8{-1, -128}, got)
	})
	t.Run("int to float rounds to nearest", func(t *testing.T) {
		res := eval1(t, eng, "convert_double", lane.Int64, lane.MustBuffer(1, []int64{1<<53 + 1, -(1<<53 + 3)}))
		got, _ := lane.Data[float64](res.Primary)
		assert.Equal(t, []float64{1 << 53, -(1<<53 + 4)}, got)
	})
	t.Run("uint64 to float32", func(t *testing.T) {
		res := eval1(t, eng, "convert_float", lane.Uint64, lane.MustBuffer(1, []uint64{stdmath.MaxUint64}))
		got, _ := lane.Data[float32](res.Primary)
		assert.Equal(t, []float32{0x1p64}, got)
	})
	t.Run("float64 to half rounds once", func(t *testing.T) {
		res := eval1(t, eng, "convert_half", lane.Float64, buf(lane.Float64, 1, 0.1, 65520, 1+0x1p-11+0x1p-40))
		got, _ := lane.Data[lane.Half](res.Primary)
		assert.Equal(t, []lane.Half{0x2E66, lane.HalfInf, 0x3C01}, got)
	})
	t.Run("half to int", func(t *testing.T) {
		in := lane.MustBuffer(1, []lane.Half{lane.HalfFromFloat64(-2.75), lane.HalfInf, lane.HalfNaN})
		res := eval1(t, eng, "convert_int16", lane.Float16, in)
		got, _ := lane.Data[int16](res.Primary)
		assert.Equal(t, []int16{-2, 32767, 0}, got)
	})
	t.Run("identity conversion copies", func(t *testing.T) {
		in := lane.MustBuffer(4, []int32{1, -2, 3, -4})
		res := eval1(t, eng, "convert_int32", lane.Int32, in)
		assert.True(t, lane.Equal(in, res.Primary))
		assert.NotSame(t, in, res.Primary)
	})
}

func TestConvertRoundTrip(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	rng := rand.New(rand.NewPCG(5, 6))

	tests := []struct {
		name     string
		from, to lane.ElemType
		gen      func() float64
	}{
		{"int32 via float64", lane.Int32, lane.Float64, func() float64 { return float64(rng.Int32() - 1<<30) }},
		{"int16 via float32", lane.Int16, lane.Float32, func() float64 { return float64(rng.IntN(65536) - 32768) }},
		{"uint8 via half", lane.Uint8, lane.Float16, func() float64 { return float64(rng.IntN(256)) }},
		{"int8 via int64", lane.Int8, lane.Int64, func() float64 { return float64(rng.IntN(256) - 128) }},
		{"float32 via float64", lane.Float32, lane.Float64, func() float64 { return float64(float32(rng.NormFloat64() * 1e6)) }},
		{"half via float32", lane.Float16, lane.Float32, func() float64 { return lane.HalfFromFloat64(rng.NormFloat64() * 100).Float64() }},
		{"small ints via half", lane.Int32, lane.Float16, func() float64 { return float64(rng.IntN(4097) - 2048) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals := make([]float64, 3*64)
			for i := range vals {
				vals[i] = tt.gen()
			}
			in := buf(tt.from, 3, vals...)
			mid := eval1(t, eng, "convert_"+tt.to.String(), tt.from, in)
			back := eval1(t, eng, "convert_"+tt.from.String(), tt.to, mid.Primary)
			if diff := cmp.Diff(values(in), values(back.Primary)); diff != "" {
				t.Errorf("round trip differs (-in +back):\n%s", diff)
			}
		})
	}
}

func TestFrexpProperty(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	rng := rand.New(rand.NewPCG(7, 8))

	for _, elem := range lane.FloatElemTypes() {
		vals := make([]float64, 4*100)
		for i := range vals {
			vals[i] = stdmath.Ldexp(rng.Float64()-0.5, rng.IntN(20)-10)
		}
		vals[0], vals[1] = 0x1p-24, -0x1p-149 // denormals
		in := buf(elem, 4, vals...)
		res := eval1(t, eng, "frexp", elem, in)

		for i := 0; i < in.Lanes()*4; i++ {
			x := in.Float(i)
			m := res.Primary.Float(i)
			e := res.Aux["exponent"].Int(i)
			if x == 0 {
				assert.Equal(t, x, m)
				assert.Zero(t, e)
				continue
			}
			assert.Equal(t, x, stdmath.Ldexp(m, int(e)), "%v: %v * 2^%d", elem, m, e)
			assert.GreaterOrEqual(t, stdmath.Abs(m), 0.5)
			assert.Less(t, stdmath.Abs(m), 1.0)
		}
	}
}

func TestFrexpSpecials(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	inf, nan := stdmath.Inf(1), stdmath.NaN()

	res := eval1(t, eng, "frexp", lane.Float32, buf(lane.Float32, 1, stdmath.Copysign(0, -1), inf, -inf, nan))
	m := values(res.Primary)
	assert.True(t, stdmath.Signbit(m[0]) && m[0] == 0)
	assert.Equal(t, inf, m[1])
	assert.Equal(t, -inf, m[2])
	assert.True(t, stdmath.IsNaN(m[3]))
	assert.Equal(t, []float64{0, 0, 0, 0}, values(res.Aux["exponent"]))
}

func TestRemquoProperty(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	rng := rand.New(rand.NewPCG(9, 10))

	const n = 500
	a := make([]float64, 2*n)
	b := make([]float64, 2*n)
	for i := range a {
		a[i] = float64(float32(rng.NormFloat64() * 1e4))
		b[i] = float64(float32(rng.NormFloat64() * 10))
		if b[i] == 0 {
			b[i] = 1
		}
	}
	res, err := eng.EvaluateOp(context.Background(), "remquo", 2, lane.Float32, map[string]*lane.Buffer{
		"x": buf(lane.Float32, 2, a...),
		"y": buf(lane.Float32, 2, b...),
	}, n)
	require.NoError(t, err)

	rem := values(res.Primary)
	quo := values(res.Aux["quotient"])
	for i := range a {
		if stdmath.Abs(a[i]/b[i]) >= 1<<30 {
			continue
		}
		assert.InDelta(t, a[i], quo[i]*b[i]+rem[i], 1e-6*stdmath.Abs(a[i])+1e-30, "remquo(%v, %v)", a[i], b[i])
		assert.LessOrEqual(t, stdmath.Abs(rem[i]), stdmath.Abs(b[i])/2)
	}
}

func TestPrecisionRounding(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	ctx := context.Background()

	// mad rounds the product; fma does not.
	a := 1 + 0x1p-12
	in := map[string]*lane.Buffer{
		"a": buf(lane.Float32, 1, a),
		"b": buf(lane.Float32, 1, a),
		"c": buf(lane.Float32, 1, -1),
	}
	mad, err := eng.EvaluateOp(ctx, "mad", 1, lane.Float32, in, 1)
	require.NoError(t, err)
	fma, err := eng.EvaluateOp(ctx, "fma", 1, lane.Float32, in, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0x1p-11}, values(mad.Primary))
	assert.Equal(t, []float64{0x1p-11 + 0x1p-24}, values(fma.Primary))

	// nextafter steps at the element precision.
	next, err := eng.EvaluateOp(ctx, "nextafter", 1, lane.Float16, map[string]*lane.Buffer{
		"v":      buf(lane.Float16, 1, 1, 0),
		"target": buf(lane.Float16, 1, 2, -1),
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1 + 0x1p-10, -0x1p-24}, values(next.Primary))
}

func TestIntOperands(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	ctx := context.Background()

	ld, err := eng.EvaluateOp(ctx, "ldexp", 2, lane.Float32, map[string]*lane.Buffer{
		"v":        buf(lane.Float32, 2, 1.5, -3, 1, 1),
		"exponent": lane.MustBuffer(2, []int32{4, -1, 200, -200}),
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{24, -1.5, stdmath.Inf(1), 0}, values(ld.Primary))

	ilogb, err := eng.EvaluateOp(ctx, "ilogb", 1, lane.Float64, map[string]*lane.Buffer{
		"v": buf(lane.Float64, 1, 10, 0x1p-1060, 0, stdmath.Inf(-1)),
	}, 4)
	require.NoError(t, err)
	got, _ := lane.Data[int32](ilogb.Primary)
	assert.Equal(t, []int32{3, -1060, stdmath.MinInt32, stdmath.MaxInt32}, got)

	root, err := eng.EvaluateOp(ctx, "rootn", 1, lane.Float64, map[string]*lane.Buffer{
		"x": buf(lane.Float64, 1, -8, 16, -16, 0),
		"n": lane.MustBuffer(1, []int32{3, 4, 2, -2}),
	}, 4)
	require.NoError(t, err)
	r := values(root.Primary)
	assert.InDelta(t, -2, r[0], 1e-15)
	assert.InDelta(t, 2, r[1], 1e-15)
	assert.True(t, stdmath.IsNaN(r[2]))
	assert.True(t, stdmath.IsInf(r[3], 1))
}

func TestIEEESpecialsAreNotErrors(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	ctx := context.Background()

	cases := []struct {
		op   string
		args map[string][]float64
		want []float64
	}{
		{"acosh", map[string][]float64{"v": {0.5}}, []float64{stdmath.NaN()}},
		{"recip", map[string][]float64{"v": {0}}, []float64{stdmath.Inf(1)}},
		{"powr", map[string][]float64{"x": {-2}, "y": {2}}, []float64{stdmath.NaN()}},
		{"hypot", map[string][]float64{"x": {3e38}, "y": {3e38}}, []float64{stdmath.Inf(1)}},
		{"atan2pi", map[string][]float64{"y": {1}, "x": {-1}}, []float64{0.75}},
		{"native_recip", map[string][]float64{"v": {0}}, []float64{stdmath.Inf(1)}},
		{"log", map[string][]float64{"v": {0}}, []float64{stdmath.Inf(-1)}},
		{"log10", map[string][]float64{"v": {-1}}, []float64{stdmath.NaN()}},
		{"cosh", map[string][]float64{"v": {100}}, []float64{stdmath.Inf(1)}},
		{"native_sinh", map[string][]float64{"v": {-100}}, []float64{stdmath.Inf(-1)}},
		{"native_cospi", map[string][]float64{"v": {0.5}}, []float64{0}},
		{"native_atan2", map[string][]float64{"y": {0}, "x": {-1}}, []float64{float64(float32(stdmath.Pi))}},
	}
	for _, c := range cases {
		inputs := make(map[string]*lane.Buffer, len(c.args))
		for name, v := range c.args {
			inputs[name] = buf(lane.Float32, 1, v...)
		}
		res, err := eng.EvaluateOp(ctx, c.op, 1, lane.Float32, inputs, 1)
		require.NoError(t, err, c.op)
		if diff := cmp.Diff(c.want, values(res.Primary), nanEqual); diff != "" {
			t.Errorf("%s (-want +got):\n%s", c.op, diff)
		}
	}
}

func TestSincosAux(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	res := eval1(t, eng, "sincos", lane.Float64, buf(lane.Float64, 2, 0, stdmath.Pi/2))
	assert.InDeltaSlice(t, []float64{0, 1}, values(res.Primary), 1e-15)
	assert.InDeltaSlice(t, []float64{1, 0}, values(res.Aux["cos"]), 1e-15)
	assert.Equal(t, lane.Float64, res.Aux["cos"].Elem())
}

func TestNativeSincosAux(t *testing.T) {
	eng := newEngine(t, DefaultConfig())
	res := eval1(t, eng, "native_sincos", lane.Float32, buf(lane.Float32, 4, 0, stdmath.Pi/2, -stdmath.Pi, 1))
	assert.InDeltaSlice(t, []float64{0, 1, 0, stdmath.Sin(1)}, values(res.Primary), 1e-6)
	assert.InDeltaSlice(t, []float64{1, 0, -1, stdmath.Cos(1)}, values(res.Aux["cos"]), 1e-6)
	assert.Equal(t, lane.Float32, res.Aux["cos"].Elem())
}
