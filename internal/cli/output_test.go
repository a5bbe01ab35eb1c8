package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "success"}, nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)

	id, err := uuid.Parse(resp.TraceID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestOutputFormatter_TraceIDIsStable(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success("a", nil))
	require.NoError(t, formatter.Error("E001", "b", nil))

	dec := json.NewDecoder(buf)
	var first, second CLIResponse
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, first.TraceID, second.TraceID)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	details := map[string]string{"query": "products", "field": "where[0].op"}
	require.NoError(t, formatter.Error(ErrCodeCompile, "unknown operator", details))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeCompile, resp.Error.Code)
	assert.Equal(t, "unknown operator", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("All queries rendered", nil))
	assert.Equal(t, "All queries rendered\n", buf.String())

	buf.Reset()
	require.NoError(t, formatter.Success([]int{1}, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "custom")
		return err
	}))
	assert.Equal(t, "custom", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("E002", "file not found", "ignored"))
	assert.Equal(t, "Error [E002]: file not found\n", buf.String())

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error("E002", "file not found", "queries.yaml"))
	assert.Contains(t, buf.String(), "Details: queries.yaml")
}

func TestExitError(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{name: "nil", err: nil, code: ExitSuccess},
		{name: "plain", err: base, code: ExitFailure, msg: "boom"},
		{name: "new", err: NewExitError(ExitCommandError, "bad flag"), code: ExitCommandError, msg: "bad flag"},
		{name: "wrapped", err: WrapExitError(ExitFailure, "E004", base), code: ExitFailure, msg: "E004: boom"},
		{name: "nested", err: fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "x")), code: ExitCommandError, msg: "outer: x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetExitCode(tt.err))
			if tt.err != nil {
				assert.Equal(t, tt.msg, tt.err.Error())
			}
		})
	}

	assert.ErrorIs(t, WrapExitError(ExitFailure, "x", base), base)
}

func TestIsReported(t *testing.T) {
	base := errors.New("boom")

	assert.False(t, IsReported(nil))
	assert.False(t, IsReported(base))
	assert.False(t, IsReported(WrapExitError(ExitCommandError, "failed to load config", base)))
	assert.True(t, IsReported(reportedExitError(ExitFailure, ErrCodeBuild, base)))
	assert.True(t, IsReported(fmt.Errorf("outer: %w", reportedExitError(ExitFailure, ErrCodeSQL, nil))))
}

func TestOutputFailure_MarksErrorReported(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	err := outputFailure(f, ErrCodeBuild, errors.New("boom"))
	assert.True(t, IsReported(err))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "boom")
}

func TestTable(t *testing.T) {
	buf := &bytes.Buffer{}
	Table(buf, table.Row{"PARAM", "VALUE"}, []table.Row{{"code1", "shirt"}})
	out := buf.String()
	assert.Contains(t, out, "PARAM")
	assert.Contains(t, out, "code1")
	assert.Contains(t, out, "shirt")
	assert.Contains(t, out, "┌")
}
