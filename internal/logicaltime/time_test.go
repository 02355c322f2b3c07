package logicaltime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var families = []Factory{NewFloat64Factory(), NewInteger64Factory()}

func mustTime(t *testing.T, f Factory, s string) Time {
	t.Helper()
	v, err := f.ParseTime(s)
	require.NoError(t, err)
	return v
}

func mustInterval(t *testing.T, f Factory, s string) Interval {
	t.Helper()
	v, err := f.ParseInterval(s)
	require.NoError(t, err)
	return v
}

func TestSentinels(t *testing.T) {
	for _, f := range families {
		t.Run(f.Name(), func(t *testing.T) {
			initial := f.MakeInitial()
			assert.True(t, initial.IsInitial())
			assert.False(t, initial.IsFinal())

			final := f.MakeFinal()
			assert.True(t, final.IsFinal())
			assert.False(t, final.IsInitial())

			less, err := Less(initial, final)
			require.NoError(t, err)
			assert.True(t, less)

			tm := mustTime(t, f, "5")
			tm.SetFinal()
			assert.True(t, tm.IsFinal())
			tm.SetInitial()
			assert.True(t, tm.IsInitial())

			zero := f.MakeZero()
			assert.True(t, zero.IsZero())
			eps := f.MakeEpsilon()
			assert.True(t, eps.IsEpsilon())
			assert.False(t, eps.IsZero())

			smaller, err := Less(zero, eps)
			require.NoError(t, err)
			assert.True(t, smaller)

			i := mustInterval(t, f, "3")
			i.SetEpsilon()
			assert.True(t, i.IsEpsilon())
			i.SetZero()
			assert.True(t, i.IsZero())
		})
	}
}

func TestRoundTripEncoding(t *testing.T) {
	for _, f := range families {
		t.Run(f.Name(), func(t *testing.T) {
			times := []Time{f.MakeInitial(), f.MakeFinal(), mustTime(t, f, "1"), mustTime(t, f, "1024")}
			for _, tm := range times {
				data := tm.Encode()
				assert.Equal(t, tm.EncodedLength(), data.Size())

				got, err := f.DecodeTime(data)
				require.NoError(t, err, tm.String())
				eq, err := Equal(tm, got)
				require.NoError(t, err)
				assert.True(t, eq, "%s != %s", tm, got)

				buf := make([]byte, tm.EncodedLength()+3)
				n, err := tm.EncodeTo(buf)
				require.NoError(t, err)
				assert.Equal(t, tm.EncodedLength(), n)

				again := f.MakeInitial()
				require.NoError(t, again.DecodeFrom(buf))
				eq, _ = Equal(tm, again)
				assert.True(t, eq)
			}

			intervals := []Interval{f.MakeZero(), f.MakeEpsilon(), mustInterval(t, f, "7")}
			for _, iv := range intervals {
				got, err := f.DecodeInterval(iv.Encode())
				require.NoError(t, err)
				eq, err := Equal(iv, got)
				require.NoError(t, err)
				assert.True(t, eq, "%s != %s", iv, got)
				assert.Equal(t, iv.IsEpsilon(), got.IsEpsilon())
			}
		})
	}
}

func TestEncodingLayout(t *testing.T) {
	assert.Equal(t, "3ff8000000000000", NewFloat64Time(1.5).Encode().String())
	assert.Equal(t, "7fefffffffffffff", NewFloat64Factory().MakeFinal().Encode().String())
	assert.Equal(t, "0000000000000001", NewFloat64Factory().MakeEpsilon().Encode().String())
	assert.Equal(t, "000000000000002a", NewInteger64Time(42).Encode().String())
	assert.Equal(t, "7fffffffffffffff", NewInteger64Factory().MakeFinal().Encode().String())
	assert.Equal(t, "0000000000000001", NewInteger64Factory().MakeEpsilon().Encode().String())
}

func TestEncodeToShortBuffer(t *testing.T) {
	for _, f := range families {
		t.Run(f.Name(), func(t *testing.T) {
			_, err := f.MakeFinal().EncodeTo(make([]byte, 7))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCouldNotEncode)

			var cerr *CodecError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, 8, cerr.Need)
			assert.Equal(t, 7, cerr.Have)

			_, err = f.MakeZero().EncodeTo(nil)
			assert.ErrorIs(t, err, ErrCouldNotEncode)
		})
	}
}

func TestDecodeFailureLeavesTargetUnchanged(t *testing.T) {
	for _, f := range families {
		t.Run(f.Name(), func(t *testing.T) {
			tm := mustTime(t, f, "9")
			err := tm.DecodeFrom([]byte{1, 2, 3})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCouldNotDecode)
			assert.NotErrorIs(t, err, ErrInvalidLogicalTime)

			err = tm.Decode(NewVariableLengthData(make([]byte, 9)))
			assert.ErrorIs(t, err, ErrCouldNotDecode)

			eq, _ := Equal(tm, mustTime(t, f, "9"))
			assert.True(t, eq)

			iv := mustInterval(t, f, "4")
			assert.ErrorIs(t, iv.DecodeFrom(nil), ErrCouldNotDecode)
			eq, _ = Equal(iv, mustInterval(t, f, "4"))
			assert.True(t, eq)
		})
	}
}

func TestFloat64DecodeRejectsNaN(t *testing.T) {
	nan := NewVariableLengthData([]byte{0x7f, 0xf8, 0, 0, 0, 0, 0, 1})
	tm := NewFloat64Time(2)
	err := tm.Decode(nan)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCouldNotDecode)
	assert.Equal(t, 2.0, tm.Value())
}

func TestDecodeRejectsNegative(t *testing.T) {
	tests := []struct {
		name string
		f    Factory
		data []byte
	}{
		{"integer -5", NewInteger64Factory(), []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfb}},
		{"float -1", NewFloat64Factory(), []byte{0xbf, 0xf0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := NewVariableLengthData(tt.data)

			_, err := tt.f.DecodeTime(data)
			assert.ErrorIs(t, err, ErrCouldNotDecode)
			_, err = tt.f.DecodeInterval(data)
			assert.ErrorIs(t, err, ErrCouldNotDecode)

			tm := mustTime(t, tt.f, "10")
			assert.ErrorIs(t, tm.Decode(data), ErrCouldNotDecode)
			iv := mustInterval(t, tt.f, "4")
			assert.ErrorIs(t, iv.DecodeFrom(tt.data), ErrCouldNotDecode)

			eq, _ := Equal(tm, mustTime(t, tt.f, "10"))
			assert.True(t, eq, "time must not move")
			eq, _ = Equal(iv, mustInterval(t, tt.f, "4"))
			assert.True(t, eq, "interval must not move")
		})
	}
}

func TestTotalOrder(t *testing.T) {
	for _, f := range families {
		t.Run(f.Name(), func(t *testing.T) {
			values := []Time{f.MakeInitial(), mustTime(t, f, "1"), mustTime(t, f, "2"), mustTime(t, f, "2"), f.MakeFinal()}
			for _, a := range values {
				for _, b := range values {
					lt, err := Less(a, b)
					require.NoError(t, err)
					eq, _ := Equal(a, b)
					gt, _ := Greater(a, b)
					le, _ := LessOrEqual(a, b)
					ge, _ := GreaterOrEqual(a, b)

					count := 0
					for _, v := range []bool{lt, eq, gt} {
						if v {
							count++
						}
					}
					assert.Equal(t, 1, count, "%s vs %s", a, b)
					assert.Equal(t, lt || eq, le)
					assert.Equal(t, gt || eq, ge)
				}
			}
		})
	}
}

func TestArithmeticClosure(t *testing.T) {
	for _, f := range families {
		t.Run(f.Name(), func(t *testing.T) {
			for _, ts := range []string{"0", "3", "1000"} {
				for _, is := range []string{"zero", "epsilon", "1", "64"} {
					tm := mustTime(t, f, ts)
					orig := tm.Clone()
					iv := mustInterval(t, f, is)

					require.NoError(t, tm.Add(iv))
					require.NoError(t, tm.Subtract(iv))
					eq, err := Equal(tm, orig)
					require.NoError(t, err)
					assert.True(t, eq, "%s + %s - %s", orig, iv, iv)
				}
			}
		})
	}
}

func TestDistance(t *testing.T) {
	for _, f := range families {
		t.Run(f.Name(), func(t *testing.T) {
			a := mustTime(t, f, "10")
			b := mustTime(t, f, "4")

			d1, err := a.Distance(b)
			require.NoError(t, err)
			d2, err := b.Distance(a)
			require.NoError(t, err)

			eq, _ := Equal(d1, mustInterval(t, f, "6"))
			assert.True(t, eq)
			eq, _ = Equal(d1, d2)
			assert.True(t, eq)

			self, err := a.Distance(a)
			require.NoError(t, err)
			assert.True(t, self.IsZero())
		})
	}
}

func TestIllegalArithmetic(t *testing.T) {
	for _, f := range families {
		t.Run(f.Name(), func(t *testing.T) {
			tm := mustTime(t, f, "2")
			err := tm.Subtract(mustInterval(t, f, "3"))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIllegalTimeArithmetic)
			eq, _ := Equal(tm, mustTime(t, f, "2"))
			assert.True(t, eq, "target unchanged")

			final := f.MakeFinal()
			assert.ErrorIs(t, final.Add(f.MakeEpsilon()), ErrIllegalTimeArithmetic)
			assert.ErrorIs(t, final.Subtract(mustInterval(t, f, "1")), ErrIllegalTimeArithmetic)
			assert.NoError(t, final.Add(f.MakeZero()))
			assert.True(t, final.IsFinal())

			iv := mustInterval(t, f, "1")
			assert.ErrorIs(t, iv.Subtract(mustInterval(t, f, "2")), ErrIllegalTimeArithmetic)
			assert.False(t, iv.IsZero())
		})
	}
}

func TestIntegerOverflow(t *testing.T) {
	tm := NewInteger64Time(math.MaxInt64 - 1)
	err := tm.Add(NewInteger64Interval(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTimeArithmetic)
	assert.Equal(t, int64(math.MaxInt64-1), tm.Value())

	require.NoError(t, tm.Add(NewInteger64Interval(1)))
	assert.True(t, tm.IsFinal())

	iv := NewInteger64Interval(math.MaxInt64)
	assert.ErrorIs(t, iv.Add(NewInteger64Interval(1)), ErrIllegalTimeArithmetic)
}

func TestFloatOverflow(t *testing.T) {
	iv := NewFloat64Interval(math.MaxFloat64)
	err := iv.Add(NewFloat64Interval(math.MaxFloat64))
	assert.ErrorIs(t, err, ErrIllegalTimeArithmetic)
	assert.Equal(t, math.MaxFloat64, iv.Value())
}

func TestFamilyMismatch(t *testing.T) {
	ft := NewFloat64Time(1)
	it := NewInteger64Time(1)
	fi := NewFloat64Interval(1)
	ii := NewInteger64Interval(1)

	_, err := ft.Compare(it)
	assert.ErrorIs(t, err, ErrInvalidLogicalTime)
	_, err = it.Distance(ft)
	assert.ErrorIs(t, err, ErrInvalidLogicalTime)

	err = ft.Add(ii)
	assert.ErrorIs(t, err, ErrInvalidLogicalTimeInterval)
	assert.NotErrorIs(t, err, ErrInvalidLogicalTime)
	assert.Equal(t, 1.0, ft.Value())

	err = ii.Subtract(fi)
	assert.ErrorIs(t, err, ErrInvalidLogicalTimeInterval)

	var mm *MismatchError
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, Integer64Name, mm.Want)
	assert.Equal(t, Float64Name, mm.Got)

	_, err = fi.Compare(nil)
	assert.ErrorIs(t, err, ErrInvalidLogicalTimeInterval)
	assert.Contains(t, err.Error(), "<nil>")
}

func TestParse(t *testing.T) {
	f := NewFloat64Factory()
	tm, err := f.ParseTime(" 2.25 ")
	require.NoError(t, err)
	assert.Equal(t, "HLAfloat64Time<2.25>", tm.String())

	for _, bad := range []string{"NaN", "-1", "inf", "soon"} {
		_, err := f.ParseTime(bad)
		assert.ErrorIs(t, err, ErrInvalidLogicalTime, bad)
		_, err = f.ParseInterval(bad)
		assert.ErrorIs(t, err, ErrInvalidLogicalTimeInterval, bad)
	}

	i := NewInteger64Factory()
	iv, err := i.ParseInterval("epsilon")
	require.NoError(t, err)
	assert.Equal(t, "HLAinteger64Interval<1>", iv.String())
	_, err = i.ParseTime("1.5")
	assert.ErrorIs(t, err, ErrInvalidLogicalTime)
}

func TestVariableLengthDataIsCopied(t *testing.T) {
	src := []byte{1, 2, 3}
	v := NewVariableLengthData(src)
	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, v.Bytes())

	out := v.Bytes()
	out[1] = 9
	assert.Equal(t, "010203", v.String())

	parsed, err := ParseVariableLengthData("010203")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(v))
}
