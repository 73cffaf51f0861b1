package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestOps(t *testing.T) {
	code, out, _ := execute(t, "ops")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "NAME")
	for _, name := range []string{"remquo", "native_powr", "half_recip", "convert_float16", "abs"} {
		assert.Contains(t, out, name)
	}
	assert.Regexp(t, `remquo\s+x:T y:T\s+T quotient:int32\s+float16,float32,float64\s+precise`, out)
	assert.Regexp(t, `native_rootn\s+x:T n:int32\s+T\s+float16,float32\s+native`, out)
}

func TestOpsByElem(t *testing.T) {
	code, out, _ := execute(t, "ops", "--elem", "char", "--width", "4")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "KERNEL")
	assert.Contains(t, out, "AbsInt8x4Uint8x4")
	assert.Contains(t, out, "ConvertFloat16Int8x4Float16x4")
	assert.NotContains(t, out, "hypot")

	code, _, errOut := execute(t, "ops", "--elem", "quad")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown element type")
}

func TestEval(t *testing.T) {
	code, out, errOut := execute(t, "eval", "fmin", "--width", "2", "--in", "a=1,nan", "--in", "b=2,3")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "FminFloat32x2Float32x2Float32x2\nresult float32x2[1]: (1, 3)\n", out)

	code, out, errOut = execute(t, "eval", "remquo", "--elem", "double", "--in", "x=7,-7,10", "--in", "y=2,2,4")
	require.Equal(t, 0, code, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "result float64x1[3]: (-1) (1) (2)", lines[1])
	assert.Equal(t, "quotient int32x1[3]: (4) (-4) (2)", lines[2])

	code, out, errOut = execute(t, "eval", "abs", "--elem", "short", "--in", "v=-32768,5")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "result uint16x1[2]: (32768) (5)")

	code, out, errOut = execute(t, "eval", "ldexp", "--elem", "half", "--width", "3",
		"--in", "v=1,1,1", "--in", "exponent=1,-25,16")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "result float16x3[1]: (2, 0, +Inf)")
}

func TestEvalIntegersAreDecimal(t *testing.T) {
	code, out, errOut := execute(t, "eval", "abs", "--elem", "short", "--in", "v=010,-0100")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "result uint16x1[2]: (10) (100)")

	code, out, errOut = execute(t, "eval", "convert_int32", "--elem", "uint", "--in", "v=010,007")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "result int32x1[2]: (10) (7)")
}

func TestEvalConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown op", []string{"eval", "cbrt", "--in", "v=1"}, "unknown operation"},
		{"bad width", []string{"eval", "recip", "--width", "5", "--in", "v=1"}, "invalid vector width"},
		{"unsupported type", []string{"eval", "abs", "--elem", "float", "--in", "v=1"}, "unsupported element type"},
		{"missing input", []string{"eval", "hypot", "--in", "x=1"}, `operand "y": missing input`},
		{"length mismatch", []string{"eval", "hypot", "--in", "x=1,2", "--in", "y=1"}, "lane count mismatch"},
		{"unexpected input", []string{"eval", "recip", "--in", "v=1", "--in", "w=2"}, `operand "w": unexpected input`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := execute(t, tt.args...)
			assert.Equal(t, 2, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestEvalUsageErrors(t *testing.T) {
	tests := [][]string{
		{"eval", "recip", "--in", "v=abc"},
		{"eval", "recip", "--in", "=1"},
		{"eval", "recip", "--in", "v=1", "--in", "v=2"},
		{"eval", "hypot", "--width", "2", "--in", "x=1,2,3", "--in", "y=1,2,3"},
		{"eval"},
	}
	for _, args := range tests {
		code, _, errOut := execute(t, args...)
		assert.Equal(t, 1, code, "%v", args)
		assert.True(t, strings.HasPrefix(errOut, "lanemath: "), "%v: %s", args, errOut)
	}
}

func TestCheck(t *testing.T) {
	code, out, errOut := execute(t, "check", "hypot", "native_recip", "nextafter", "--lanes", "32", "--seed", "9", "-v")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "ok   HypotFloat16x3Float16x3Float16x3")
	assert.Contains(t, out, "SKIP NextafterFloat64Float64Float64")
	assert.Contains(t, out, "32 kernels: 20 passed, 0 failed, 12 skipped (seed 9)")

	code, out, _ = execute(t, "check", "ldexp", "--lanes", "8", "--jobs", "2")
	require.Equal(t, 0, code)
	assert.Equal(t, "12 kernels: 12 passed, 0 failed, 0 skipped (seed 1)\n", out)

	code, _, errOut = execute(t, "check", "nope")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown operation")
}

func TestCPU(t *testing.T) {
	code, out, _ := execute(t, "cpu")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "dispatch level: ")
	assert.Contains(t, out, "float32 lanes")
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("LANEMATH_WORKERS", "two")
	code, _, errOut := execute(t, "cpu")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "LANEMATH_WORKERS")

	t.Setenv("LANEMATH_WORKERS", "2")
	code, out, errOut := execute(t, "eval", "recip", "--workers", "1", "--batch", "1", "--in", "v=4")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "(0.25)")
}
