/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/warthog618/go-gpiocdev/device/rpi"
	"go.uber.org/zap"

	"github.com/Seann-Moser/servoctl/pkg/controller"
	"github.com/Seann-Moser/servoctl/pkg/io"
)

var (
	cfgFile string
	conf    controller.Configuration
	logger  = zap.NewNop()
)

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"debug":      "debug",
	"driver":     "driver.name",
	"bus":        "driver.bus",
	"channel":    "servo.channel",
	"min-pulse":  "servo.min_pulse",
	"max-pulse":  "servo.max_pulse",
	"power-line": "power.line",
	"port":       "console.port",
	"baud":       "console.baud",
	"mode":       "mode",
	"start":      "sweep.start",
	"stop":       "sweep.stop",
	"step":       "sweep.step",
	"delay":      "sweep.delay",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "servoctl",
	Short: "Drive a hobby servo through a PWM driver",
	Long: `servoctl drives a single hobby servo through a PCA9685 PWM board.

It can replay a fixed demo, take angles typed on a serial console (or stdin),
or sweep between two angles. Settings come from an optional YAML file and
can be overridden with flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := flagOverrides(cmd.Flags())
		if err != nil {
			return err
		}
		c, err := controller.LoadConfiguration(cfgFile, overrides)
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return errors.Wrap(err, "invalid configuration")
		}
		l, err := newLogger(c.Debug)
		if err != nil {
			return errors.Wrap(err, "failed to build logger")
		}
		conf, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "YAML configuration file")
	f.Bool("debug", false, "print trace lines on the console and debug logs")
	f.String("driver", io.DriverLog, "pwm driver: gobot, periph or log (dry run)")
	f.Int("bus", 1, "i2c bus of the PCA9685 board")
	f.Int("channel", 0, "pwm channel the servo is attached to")
	f.Duration("min-pulse", 544*time.Microsecond, "pulse width at 0 degrees")
	f.Duration("max-pulse", 2400*time.Microsecond, "pulse width at 180 degrees")
	f.String("power-line", "", "gpio line enabling servo power, as a number or a Raspberry Pi name such as GPIO23")
	f.String("port", "", "serial port of the console, stdin/stdout when empty")
	f.Int("baud", 9600, "console baud rate")
}

// flagOverrides collects the flags set on the command line.
func flagOverrides(flags *pflag.FlagSet) (map[string]interface{}, error) {
	m := map[string]interface{}{}
	var err error
	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if f.Name == "power-line" {
			line, perr := powerLine(f.Value.String())
			if perr != nil {
				err = perr
				return
			}
			m[key] = line
			return
		}
		m[key] = f.Value.String()
	})
	return m, err
}

func powerLine(s string) (int, error) {
	if s == "" {
		return -1, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	n, err := rpi.Pin(s)
	if err != nil {
		return 0, errors.Wrapf(err, "unknown power line %q", s)
	}
	return n, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
