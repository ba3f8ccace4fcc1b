/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Seann-Moser/servoctl/pkg/controller"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the servo control loop",
	Long: `Run attaches the servo and repeats one procedure until interrupted:

  user-input  read angles (0-180) from the console and move to each
  fixed-demo  move to 90, 0, 90 and 180 degrees, pausing after each
  sweep       sweep from sweep.start to sweep.stop and back`,
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

		if s.ctrl.Mode() == controller.UserInput {
			go func() {
				if _, err := s.ctrl.Input.ReadFrom(s.port); err != nil && ctx.Err() == nil {
					logger.Warn("console read failed", zap.Error(err))
				}
			}()
		}
		if err := s.ctrl.Run(ctx); err != nil {
			return err
		}
		logger.Info("servoctl run finished")
		return nil
	},
}

func init() {
	runCmd.Flags().String("mode", controller.UserInput.String(), "procedure to run: user-input, fixed-demo or sweep")
	rootCmd.AddCommand(runCmd)
}
