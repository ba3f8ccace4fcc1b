package controller

import (
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/Seann-Moser/servoctl/pkg/io"
)

type Configuration struct {
	Mode    Mode          `koanf:"mode"`
	Debug   bool          `koanf:"debug"`
	Servo   ServoConfig   `koanf:"servo"`
	Driver  DriverConfig  `koanf:"driver"`
	Power   PowerConfig   `koanf:"power"`
	Console ConsoleConfig `koanf:"console"`
	Input   InputConfig   `koanf:"input"`
	Sweep   SweepParams   `koanf:"sweep"`
	Demo    DemoConfig    `koanf:"demo"`
}

type ServoConfig struct {
	Channel  int           `koanf:"channel"`
	MinPulse time.Duration `koanf:"min_pulse"`
	MaxPulse time.Duration `koanf:"max_pulse"`
}

type DriverConfig struct {
	Name      string  `koanf:"name"`
	Bus       int     `koanf:"bus"`
	Address   int     `koanf:"address"`
	Frequency float64 `koanf:"frequency"`
}

type PowerConfig struct {
	Chip string `koanf:"chip"`
	Line int    `koanf:"line"`
}

type ConsoleConfig struct {
	Port         string        `koanf:"port"`
	Baud         int           `koanf:"baud"`
	ReadyTimeout time.Duration `koanf:"ready_timeout"`
}

type InputConfig struct {
	TokenTimeout time.Duration `koanf:"token_timeout"`
	PollInterval time.Duration `koanf:"poll_interval"`
}

type DemoConfig struct {
	Angles []int         `koanf:"angles"`
	Pause  time.Duration `koanf:"pause"`
}

// SweepParams describe one sweep. DefaultStep and DefaultStepDelay are the
// values used when none are configured.
type SweepParams struct {
	Start int           `koanf:"start"`
	Stop  int           `koanf:"stop"`
	Step  int           `koanf:"step"`
	Delay time.Duration `koanf:"delay"`
}

const (
	DefaultStep      = 1
	DefaultStepDelay = 15 * time.Millisecond
)

// Reverse returns the same sweep run from Stop back to Start.
func (p SweepParams) Reverse() SweepParams {
	p.Start, p.Stop = p.Stop, p.Start
	return p
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Mode: UserInput,
		Servo: ServoConfig{
			Channel:  0,
			MinPulse: 544 * time.Microsecond,
			MaxPulse: 2400 * time.Microsecond,
		},
		Driver: DriverConfig{
			Name:      io.DriverLog,
			Bus:       1,
			Address:   0x40,
			Frequency: 50,
		},
		Power: PowerConfig{
			Chip: "gpiochip0",
			Line: -1,
		},
		Console: ConsoleConfig{
			Baud: 9600,
		},
		Input: InputConfig{
			TokenTimeout: time.Second,
			PollInterval: 10 * time.Millisecond,
		},
		Sweep: SweepParams{
			Start: io.MinAngle,
			Stop:  io.MaxAngle,
			Step:  DefaultStep,
			Delay: DefaultStepDelay,
		},
		Demo: DemoConfig{
			Angles: []int{90, 0, 90, 180},
			Pause:  5 * time.Second,
		},
	}
}

// LoadConfiguration layers the defaults, the optional YAML file at path and
// the overrides, in that order. Override keys use the dotted koanf form, e.g.
// "servo.min_pulse".
func LoadConfiguration(path string, overrides map[string]interface{}) (Configuration, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfiguration(), "koanf"), nil); err != nil {
		return Configuration{}, errors.Wrap(err, "failed loading defaults")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Configuration{}, errors.Wrapf(err, "failed loading config file %s", path)
		}
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return Configuration{}, errors.Wrap(err, "failed loading overrides")
		}
	}

	var c Configuration
	err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			WeaklyTypedInput: true,
			Result:           &c,
		},
	})
	if err != nil {
		return Configuration{}, errors.Wrap(err, "failed decoding configuration")
	}
	return c, nil
}

// Validate checks the configuration once at startup.
func (c Configuration) Validate() error {
	if _, ok := modeNames[c.Mode]; !ok {
		return errors.Errorf("unknown mode %d", int(c.Mode))
	}
	if c.Servo.Channel < 0 {
		return errors.Errorf("servo.channel cannot be negative, have %d", c.Servo.Channel)
	}
	if c.Servo.MinPulse <= 0 || c.Servo.MaxPulse <= c.Servo.MinPulse {
		return errors.Errorf("servo pulse range %v-%v is invalid", c.Servo.MinPulse, c.Servo.MaxPulse)
	}
	switch c.Driver.Name {
	case io.DriverGobot, io.DriverPeriph, io.DriverLog:
	default:
		return errors.Errorf("unknown driver.name %q", c.Driver.Name)
	}
	if c.Driver.Frequency <= 0 || c.Driver.Frequency > 450 {
		return errors.Errorf("driver.frequency should be between 0 and 450Hz, have %v", c.Driver.Frequency)
	}
	if c.Servo.MaxPulse >= time.Duration(float64(time.Second)/c.Driver.Frequency) {
		return errors.Errorf("servo.max_pulse %v does not fit a %vHz period", c.Servo.MaxPulse, c.Driver.Frequency)
	}
	if c.Console.Baud <= 0 {
		return errors.Errorf("console.baud must be positive, have %d", c.Console.Baud)
	}
	if c.Input.PollInterval < 0 || c.Input.TokenTimeout < 0 {
		return errors.New("input timings cannot be negative")
	}
	for _, a := range c.Demo.Angles {
		if err := checkAngle("demo", a); err != nil {
			return errors.Wrap(err, "demo.angles")
		}
	}
	if c.Mode == Sweep {
		if err := c.Sweep.validate(); err != nil {
			return errors.Wrap(err, "sweep")
		}
	}
	return nil
}

// IOConfig is the pwm and power section handed to io.New.
func (c Configuration) IOConfig() io.Config {
	return io.Config{
		Driver:    c.Driver.Name,
		Bus:       c.Driver.Bus,
		Address:   c.Driver.Address,
		Frequency: c.Driver.Frequency,
		PowerChip: c.Power.Chip,
		PowerLine: c.Power.Line,
	}
}
