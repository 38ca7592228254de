// Copyright 2018 Andrew Bates
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/abates/mbim"
	"github.com/abates/mbim/device"
	"github.com/abates/mbim/msbasicconnect"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var version = "devel"

var (
	errNoActions = errors.New("no actions specified")

	// errReported is returned once the failure has already been written
	// to the error output
	errReported = errors.New("operation failed")
)

type app struct {
	flags      config
	logLevel   mbim.LogLevel
	configFile string
	actions    msbasicconnect.Flags

	stdout io.Writer
	stderr io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{flags: defaultConfig(), stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:           "mbimcli",
		Short:         "Control MBIM devices",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("log") {
				a.flags.Log = a.logLevel.String()
			}

			filename := a.configFile
			if filename == "" {
				filename = defaultConfigFile()
			}

			cfg, err := loadConfig(cmd.Flags(), a.flags, filename, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), cfg)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fs := cmd.PersistentFlags()
	fs.StringVarP(&a.flags.Device, "device", "d", a.flags.Device, "Specify device `path`")
	fs.IntVar(&a.flags.Baud, "baud", 0, "Open the device as a serial port at this baud rate")
	fs.Var(&a.logLevel, "log", "Log Level {none|info|debug|trace}")
	fs.StringVar(&a.flags.LogFile, "log-file", "", "Write log messages to a rotated file")
	fs.StringVar(&a.configFile, "config", "", "Config `file` (default "+defaultConfigFile()+")")
	fs.BoolVar(&a.flags.NoOpen, "no-open", false, "Do not explicitly open the MBIM device before running the command")
	fs.BoolVar(&a.flags.NoClose, "no-close", false, "Do not close the MBIM device after running the command")
	fs.Uint32Var(&a.flags.MaxControlTransfer, "max-control-transfer", a.flags.MaxControlTransfer, "Largest control message announced to the device")

	a.actions.Register(cmd.Flags())
	return cmd
}

func (a *app) run(ctx context.Context, cfg config) error {
	if err := cfg.configureLogging(a.stderr); err != nil {
		return err
	}

	inv, err := msbasicconnect.NewInvocation(&a.actions, msbasicconnect.Output(a.stdout, a.stderr))
	if err != nil {
		return err
	}

	if !inv.Active() {
		return errNoActions
	}

	port, err := device.OpenPort(cfg.Device, cfg.Baud)
	if err != nil {
		return errors.Wrapf(err, "couldn't open the MbimDevice at '%s'", cfg.Device)
	}

	dev, err := device.New(port, device.PathDisplay(cfg.Device), device.MaxControlTransfer(cfg.MaxControlTransfer))
	if err != nil {
		port.Close()
		return err
	}

	if !cfg.NoOpen {
		if err := dev.Open(ctx); err != nil {
			dev.Close(context.Background(), false)
			return errors.Wrapf(err, "couldn't open the MbimDevice at '%s'", cfg.Device)
		}
	}

	mbim.Log.Debugf("MBIM Device at '%s' ready", cfg.Device)
	runErr := inv.Run(ctx, dev)

	// the caller's context may already be cancelled, the device bounds
	// the close handshake with its own timeout
	if err := dev.Close(context.Background(), !cfg.NoClose); err != nil {
		fmt.Fprintf(a.stderr, "error: couldn't close device: %v\n", err)
	}

	if runErr != nil {
		return errReported
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		if err != errReported {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
