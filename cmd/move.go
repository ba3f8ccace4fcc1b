package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var hold time.Duration

// moveCmd represents the move command
var moveCmd = &cobra.Command{
	Use:   "move <angle>",
	Short: "Move the servo to one angle (0-180)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		angle, err := strconv.Atoi(args[0])
		if err != nil {
			return errors.Wrapf(err, "angle %q is not an integer", args[0])
		}
		s, err := setup()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ctrl.SetAngle(angle); err != nil {
			return err
		}
		// the pwm driver stops pulsing on close, give the servo time to get there
		return ignoreCanceled(s.ctrl.Wait.Wait(cmd.Context(), hold))
	},
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func init() {
	moveCmd.Flags().DurationVar(&hold, "hold", time.Second, "how long to keep driving the servo before exiting")
	rootCmd.AddCommand(moveCmd)
}
