package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementCode(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"NC": "ND",
		"B2": "B3",
		"M0": "M1",
		"JG": "JH",
		"CA": "CB",
		"ZZ": "ZA",
		"X":  "X",
	}
	for in, want := range tests {
		assert.Equal(t, want, IncrementCode(in), in)
	}
}

func TestHandle(t *testing.T) {
	t.Parallel()

	d := NewDefaultDispatcher()

	tests := []struct {
		name      string
		req       string
		want      string
		errorCode string
	}{
		{name: "diagnostics", req: "NC", want: "ND0008D7B4FB629D0885" + Firmware, errorCode: "00"},
		{name: "diagnostics ignores payload", req: "NCxyz", want: "ND0008D7B4FB629D0885" + Firmware, errorCode: "00"},
		{name: "echo", req: "B20003ABC", want: "B300ABC", errorCode: "00"},
		{name: "kcv", req: "BUT060020" + "0123456789ABCDEFFEDCBA9876543210", want: "BV0008D7B4", errorCode: "00"},
		{name: "unknown command", req: "ZZ0123", want: "ZA68", errorCode: "68"},
		{name: "short echo", req: "B2", want: "B315", errorCode: "15"},
		{name: "bad key length", req: "BUT060002AB", want: "BV02", errorCode: "02"},
		{name: "unknown pin format", req: "JGT99", want: "JH23", errorCode: "23"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := d.Handle([]byte(tt.req))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(res.Response))
			assert.Equal(t, tt.errorCode, res.ErrorCode)
			assert.Equal(t, tt.req[:2], res.Command)
			if tt.errorCode == "00" {
				assert.NoError(t, res.Err)
			} else {
				assert.Error(t, res.Err)
			}
		})
	}
}

func TestHandleMalformed(t *testing.T) {
	t.Parallel()

	_, err := NewDefaultDispatcher().Handle([]byte("N"))
	assert.ErrorIs(t, err, ErrMalformedRequest)
}

func TestRegisterAndDescribe(t *testing.T) {
	t.Parallel()

	d := NewDispatcher("test")
	d.Register(Command{
		Code:        "ZB",
		Description: "Fails",
		Execute: func([]byte) ([]byte, error) {
			return nil, errors.New("boom")
		},
	})
	d.Register(Command{
		Code:        "ZA",
		Description: "Upper",
		Execute: func(in []byte) ([]byte, error) {
			return append([]byte("ZB00"), in...), nil
		},
	})

	cmds := d.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, "ZA", cmds[0].Code)
	assert.Equal(t, "ZB", cmds[1].Code)
	assert.Equal(t, "Upper", d.GetDescription("ZA"))
	assert.Equal(t, "QQ", d.GetDescription("QQ"))

	res, err := d.Handle([]byte("ZAhi"))
	require.NoError(t, err)
	assert.Equal(t, "ZB00hi", string(res.Response))

	res, err = d.Handle([]byte("ZB"))
	require.NoError(t, err)
	assert.Equal(t, "ZC41", string(res.Response), "unmapped errors are internal errors")

	_, err = d.ExecuteCommand("QQ", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDefaultCommandSet(t *testing.T) {
	t.Parallel()

	var codes []string
	for _, c := range NewDefaultDispatcher().Commands() {
		codes = append(codes, c.Code)
		assert.NotEmpty(t, c.Description)
	}
	assert.Equal(t, []string{"B2", "BU", "CA", "JE", "JG", "M0", "M2", "M6", "NC"}, codes)
}
