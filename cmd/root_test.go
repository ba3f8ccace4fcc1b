package cmd

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seann-Moser/servoctl/pkg/controller"
)

func testFlags() *pflag.FlagSet {
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.String("mode", "user-input", "")
	f.Int("step", 1, "")
	f.Duration("delay", 15*time.Millisecond, "")
	f.Duration("max-pulse", 2400*time.Microsecond, "")
	f.String("power-line", "", "")
	f.Bool("debug", false, "")
	f.String("unrelated", "", "")
	return f
}

func TestFlagOverrides(t *testing.T) {
	f := testFlags()
	require.NoError(t, f.Parse([]string{
		"--mode", "sweep", "--step", "15", "--delay", "1s",
		"--power-line", "GPIO23", "--max-pulse", "2ms", "--unrelated", "x",
	}))

	m, err := flagOverrides(f)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"mode":            "sweep",
		"sweep.step":      "15",
		"sweep.delay":     "1s",
		"power.line":      23,
		"servo.max_pulse": "2ms",
	}, m)

	c, err := controller.LoadConfiguration("", m)
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, controller.Sweep, c.Mode)
	assert.Equal(t, 15, c.Sweep.Step)
	assert.Equal(t, time.Second, c.Sweep.Delay)
	assert.Equal(t, 23, c.Power.Line)
	assert.Equal(t, 2*time.Millisecond, c.Servo.MaxPulse)
}

func TestFlagOverridesUnchangedFlags(t *testing.T) {
	m, err := flagOverrides(testFlags())
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestPowerLine(t *testing.T) {
	n, err := powerLine("")
	require.NoError(t, err)
	assert.Equal(t, -1, n)

	n, err = powerLine("17")
	require.NoError(t, err)
	assert.Equal(t, 17, n)

	n, err = powerLine("GPIO26")
	require.NoError(t, err)
	assert.Equal(t, 26, n)

	_, err = powerLine("not-a-pin")
	assert.Error(t, err)
}
