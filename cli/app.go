// Package cli contains the magfactor command line: evaluating a configured factor at a pose and
// checking its Jacobian against finite differences.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"go.viam.com/magfactor/logging"
)

const (
	// Flags.
	flagConfig = "config"
	flagDebug  = "debug"
	flagStep   = "step"
	flagTol    = "tol"

	defaultTol = 1e-6
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	var logger logging.Logger = logging.NewBlankLogger("magfactor")

	return &cli.App{
		Name:            "magfactor",
		Usage:           "evaluate magnetometer pose factors",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			level := zapcore.InfoLevel
			if c.Bool(flagDebug) {
				level = zapcore.DebugLevel
			}
			logger = logging.NewWriterLogger("magfactor", c.App.ErrWriter, level)
			logging.ReplaceGlobal(logger)
			return nil
		},
		After: func(c *cli.Context) error {
			//nolint:errcheck
			logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "evaluate",
				Usage:     "print the residual, whitened error and Jacobian of a factor at a pose",
				UsageText: "magfactor evaluate --config <path>",
				Flags:     []cli.Flag{configFlag()},
				Action: func(c *cli.Context) error {
					return EvaluateAction(c, logger)
				},
			},
			{
				Name:      "check",
				Usage:     "compare the analytic Jacobian of a factor with central differences",
				UsageText: "magfactor check --config <path> [--step <h>] [--tol <tol>]",
				Flags: []cli.Flag{
					configFlag(),
					&cli.Float64Flag{
						Name:  flagStep,
						Usage: "finite difference step, 0 for the default",
					},
					&cli.Float64Flag{
						Name:  flagTol,
						Usage: "largest accepted absolute difference, scaled by the field magnitude",
						Value: defaultTol,
					},
				},
				Action: func(c *cli.Context) error {
					return CheckAction(c, logger)
				},
			},
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     flagConfig,
		Aliases:  []string{"c"},
		Usage:    "load the factor document from `FILE`",
		Required: true,
	}
}
