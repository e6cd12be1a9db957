package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(durationView{Spec: "1d", Seconds: 86400})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_TextUsesStringer(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(durationView{Spec: "2min", Seconds: 120}))
	assert.Equal(t, "2min = 120 seconds\n", buf.String())
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error("EXCEEDS_CLAIMABLE", "claim exceeds claimable amount", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EXCEEDS_CLAIMABLE", resp.Error.Code)
	assert.Equal(t, "claim exceeds claimable amount", resp.Error.Message)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("INVALID_AMOUNT", "amount must be positive", "row 3"))
	assert.Equal(t, "Error [INVALID_AMOUNT]: amount must be positive\n", buf.String())
}

func TestOutputFormatter_VerboseGoesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	formatter.VerboseLog("read %d row(s)", 3)
	assert.Empty(t, out.String())
	assert.Equal(t, "read 3 row(s)\n", errOut.String())

	formatter.Verbose = false
	formatter.VerboseLog("dropped")
	assert.Equal(t, "read 3 row(s)\n", errOut.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "open", errors.New("no such file")))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Equal(t, "outer: open: no such file", wrapped.Error())
}

func TestRPCError(t *testing.T) {
	tests := []struct {
		code connect.Code
		exit int
	}{
		{connect.CodeInvalidArgument, ExitFailure},
		{connect.CodeNotFound, ExitFailure},
		{connect.CodeFailedPrecondition, ExitFailure},
		{connect.CodeUnavailable, ExitCommandError},
		{connect.CodeInternal, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf}

			err := rpcError(formatter, "claim", connect.NewError(tt.code, errors.New("boom")))
			assert.Equal(t, tt.exit, GetExitCode(err))
			assert.Contains(t, buf.String(), tt.code.String())
			assert.Contains(t, buf.String(), "boom")
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "50%", percent(0.5))
	assert.Equal(t, "0%", percent(0))
	assert.Equal(t, "100%", percent(1))
}
