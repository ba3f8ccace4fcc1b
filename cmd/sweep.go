package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Seann-Moser/servoctl/pkg/controller"
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep the servo once between two angles",
	Long: `Sweep moves the servo from --start to --stop in --step degree increments,
waiting --delay after every step. For example:

  servoctl sweep --start 45 --stop 135 --step 15 --delay 1s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := setup()
		if err != nil {
			return err
		}
		defer s.Close()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			select {
			case <-sigs:
				cancel()
			case <-ctx.Done():
			}
		}()

		err = s.ctrl.Sweep(ctx, conf.Sweep)
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

func init() {
	f := sweepCmd.Flags()
	f.Int("start", 0, "start angle")
	f.Int("stop", 180, "stop angle")
	f.Int("step", controller.DefaultStep, "step angle")
	f.Duration("delay", controller.DefaultStepDelay, "wait after every step")
	rootCmd.AddCommand(sweepCmd)
}
