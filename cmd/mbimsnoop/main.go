// Copyright 2021 Andrew Bates
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
	"fmt"
	"io"
	"os"

	"github.com/abates/mbim"
	"github.com/abates/mbim/device"
	"github.com/creack/pty"
	"github.com/spf13/cobra"
)

func main() {
	var (
		portFlag string
		baudFlag int
		logLevel mbim.LogLevel
	)

	cmd := &cobra.Command{
		Use:           "mbimsnoop",
		Short:         "Trace the MBIM messages exchanged with a serial attached modem",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if logLevel > mbim.LevelNone {
				mbim.SetLogLevel(logLevel, os.Stderr)
			}
			return snoop(portFlag, baudFlag)
		},
	}
	cmd.Flags().StringVar(&portFlag, "port", "/dev/ttyUSB0", "serial port connected to the modem")
	cmd.Flags().IntVar(&baudFlag, "baud", 115200, "serial port baud rate")
	cmd.Flags().Var(&logLevel, "log", "Log Level {none|info|debug|trace}")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func snoop(portName string, baud int) error {
	s, err := device.OpenPort(portName, baud)
	if err != nil {
		return err
	}
	defer s.Close()

	p, f, err := pty.Open()
	if err != nil {
		return fmt.Errorf("Failed to start PTY: %v", err)
	}
	defer p.Close()
	defer f.Close()

	fmt.Fprintf(os.Stdout, "Connect intercepted application to %s\n", f.Name())

	txReader, txWriter := io.Pipe()
	rxReader, rxWriter := io.Pipe()

	rx := io.TeeReader(s, rxWriter)
	tx := io.TeeReader(p, txWriter)

	go device.Snoop(os.Stdout, rxReader, txReader)

	go func() {
		io.Copy(p, rx)
		rxWriter.Close()
	}()
	_, err = io.Copy(s, tx)
	txWriter.Close()
	return err
}
