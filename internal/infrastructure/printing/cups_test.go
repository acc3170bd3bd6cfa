package printing

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commandCall struct {
	name  string
	args  []string
	stdin []byte
}

type fakeRunner struct {
	calls  []commandCall
	stdout map[string]string
	stderr map[string]string
	errs   map[string]error
	block  bool
}

func (f *fakeRunner) run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, commandCall{name: name, args: args, stdin: stdin})
	if f.block {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	return []byte(f.stdout[name]), []byte(f.stderr[name]), f.errs[name]
}

func newFakeCUPSDriver(t *testing.T, runner *fakeRunner) *CUPSDriver {
	t.Helper()
	d, err := NewCUPSDriver(&CUPSDriverConfig{
		Options: []string{"fit-to-page"},
		Runner:  runner.run,
	})
	require.NoError(t, err)
	return d
}

func TestNewCUPSDriver_Defaults(t *testing.T) {
	runner := &fakeRunner{}
	d := newFakeCUPSDriver(t, runner)

	assert.Equal(t, DriverCUPS, d.Name())
	assert.Equal(t, defaultLPBinary, d.config.LPBinary)
	assert.Equal(t, defaultLPStatBinary, d.config.LPStatBinary)
	assert.Equal(t, defaultCUPSTimeout, d.config.Timeout)
	assert.NoError(t, d.Close())
}

func TestNewCUPSDriver_MissingBinary(t *testing.T) {
	_, err := NewCUPSDriver(&CUPSDriverConfig{LPBinary: "/nonexistent/lp"})
	require.Error(t, err)
	assert.True(t, receipt.IsCode(err, receipt.ErrCodePrinter))
}

func TestCUPSDriver_Print(t *testing.T) {
	runner := &fakeRunner{
		stdout: map[string]string{"lp": "request id is POS-80-42 (1 file(s))\n"},
	}
	d := newFakeCUPSDriver(t, runner)

	s, err := d.Open(context.Background(), "POS-80")
	require.NoError(t, err)
	printTestPage(t, s)
	require.NoError(t, s.Close())

	require.Len(t, runner.calls, 2)

	check := runner.calls[0]
	assert.Equal(t, "lpstat", check.name)
	assert.Equal(t, []string{"-p", "POS-80"}, check.args)
	assert.Nil(t, check.stdin)

	submit := runner.calls[1]
	assert.Equal(t, "lp", submit.name)
	assert.Equal(t, []string{"-d", "POS-80", "-t", receipt.DocumentTitle, "-o", "fit-to-page"}, submit.args)

	img, err := png.Decode(bytes.NewReader(submit.stdin))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, img.Bounds().Dx(), defaultMinPageWidth)
}

func TestCUPSDriver_PrinterUnavailable(t *testing.T) {
	runner := &fakeRunner{
		errs:   map[string]error{"lpstat": errors.New("exit status 1")},
		stderr: map[string]string{"lpstat": "lpstat: Invalid destination name in list \"POS-80\"."},
	}
	d := newFakeCUPSDriver(t, runner)

	s, err := d.Open(context.Background(), "POS-80")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, receipt.IsCode(err, receipt.ErrCodePrinter))
	assert.Contains(t, err.Error(), "Invalid destination")
}

func TestCUPSDriver_EmptyPrinterName(t *testing.T) {
	runner := &fakeRunner{}
	d := newFakeCUPSDriver(t, runner)

	_, err := d.Open(context.Background(), " ")
	require.Error(t, err)
	assert.Empty(t, runner.calls)
}

func TestCUPSDriver_SubmitFails(t *testing.T) {
	runner := &fakeRunner{
		errs: map[string]error{"lp": errors.New("exit status 1")},
	}
	d := newFakeCUPSDriver(t, runner)

	s, err := d.Open(context.Background(), "POS-80")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.StartDoc(receipt.DocumentTitle))
	require.NoError(t, s.StartPage())
	require.NoError(t, s.TextOut(100, 100, "x"))
	require.NoError(t, s.EndPage())

	err = s.EndDoc()
	require.Error(t, err)
	assert.True(t, receipt.IsCode(err, receipt.ErrCodePrinter))
}

func TestCUPSDriver_AbortSubmitsNothing(t *testing.T) {
	runner := &fakeRunner{}
	d := newFakeCUPSDriver(t, runner)

	s, err := d.Open(context.Background(), "POS-80")
	require.NoError(t, err)
	require.NoError(t, s.StartDoc(receipt.DocumentTitle))
	require.NoError(t, s.AbortDoc())
	require.NoError(t, s.Close())

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "lpstat", runner.calls[0].name)
}

func TestCUPSDriver_Timeout(t *testing.T) {
	runner := &fakeRunner{block: true}
	d, err := NewCUPSDriver(&CUPSDriverConfig{
		Timeout: 20 * time.Millisecond,
		Runner:  runner.run,
	})
	require.NoError(t, err)

	_, err = d.Open(context.Background(), "POS-80")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
