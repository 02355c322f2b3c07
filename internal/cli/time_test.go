package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rtikit/internal/logicaltime"
)

func TestTimeResolve(t *testing.T) {
	out, err := execute(t, "time", "resolve", logicaltime.Integer64Name)
	require.NoError(t, err)
	assert.Contains(t, out, "HLAinteger64Time\n")
	assert.Contains(t, out, "  initial: HLAinteger64Time<0>\n")
	assert.Contains(t, out, "  zero:    HLAinteger64Interval<0>\n")
	assert.Contains(t, out, "  epsilon: HLAinteger64Interval<1>\n")
}

func TestTimeResolve_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "time", "resolve")
	require.NoError(t, err)

	var resp struct {
		Data ResolveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, logicaltime.Float64Name, resp.Data.Implementation, "float64 is the default")
	assert.Contains(t, resp.Data.Available, logicaltime.Integer64Name)
	assert.Contains(t, resp.Data.Available, logicaltime.Float64Name)
}

func TestTimeResolve_Unknown(t *testing.T) {
	out, err := execute(t, "time", "resolve", "HLAsundialTime")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, logicaltime.ErrCouldNotCreateLogicalTimeFactory)
	assert.Contains(t, out, "Error ["+ErrCodeTimeFactory+"]")
}

func TestTimeEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"integer time", []string{"time", "encode", "42", "-i", logicaltime.Integer64Name}, "HLAinteger64Time<42> 000000000000002a\n"},
		{"integer interval", []string{"time", "encode", "epsilon", "--interval", "-i", logicaltime.Integer64Name}, "HLAinteger64Interval<1> 0000000000000001\n"},
		{"float time", []string{"time", "encode", "1.5", "-i", logicaltime.Float64Name}, "HLAfloat64Time<1.5> 3ff8000000000000\n"},
		{"integer decode", []string{"time", "decode", "000000000000002A", "-i", logicaltime.Integer64Name}, "HLAinteger64Time<42> 000000000000002a\n"},
		{"float interval decode", []string{"time", "decode", "4000000000000000", "--interval", "-i", logicaltime.Float64Name}, "HLAfloat64Interval<2> 4000000000000000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestTimeCodecErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"negative time", []string{"time", "encode", "-i", logicaltime.Integer64Name, "--", "-1"}, logicaltime.ErrInvalidLogicalTime},
		{"not a number", []string{"time", "encode", "soon", "--interval"}, logicaltime.ErrInvalidLogicalTimeInterval},
		{"short data", []string{"time", "decode", "0001", "-i", logicaltime.Integer64Name}, logicaltime.ErrCouldNotDecode},
		{"bad hex", []string{"time", "decode", "zz"}, logicaltime.ErrCouldNotDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+ErrCodeTimeCodec+"]")
		})
	}
}
