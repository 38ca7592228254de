package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/abates/mbim"
	"github.com/abates/mbim/device"
	"github.com/kirsle/configdir"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"
)

// config holds the settings that may come from the config file or from
// the command line
type config struct {
	Device             string `toml:"device"`
	Baud               int    `toml:"baud"`
	Log                string `toml:"log"`
	LogFile            string `toml:"log-file"`
	NoOpen             bool   `toml:"no-open"`
	NoClose            bool   `toml:"no-close"`
	MaxControlTransfer uint32 `toml:"max-control-transfer"`
}

func defaultConfig() config {
	return config{
		Device:             "/dev/cdc-wdm0",
		MaxControlTransfer: device.DefaultMaxControlTransfer,
	}
}

func defaultConfigFile() string {
	return filepath.Join(configdir.LocalConfig("go-mbim"), "config.toml")
}

// loadConfig layers the defaults, then filename, then every flag that was
// set on the command line.  A missing file is only an error when it was
// named explicitly
func loadConfig(fs *pflag.FlagSet, flags config, filename string, explicit bool) (config, error) {
	cfg := defaultConfig()
	if filename != "" {
		_, err := toml.DecodeFile(filename, &cfg)
		if errors.Is(err, os.ErrNotExist) && !explicit {
			mbim.Log.Debugf("No config file at %s", filename)
		} else if err != nil {
			return cfg, errors.Wrapf(err, "couldn't read config file %s", filename)
		}
	}

	if fs.Changed("device") {
		cfg.Device = flags.Device
	}
	if fs.Changed("baud") {
		cfg.Baud = flags.Baud
	}
	if fs.Changed("log") {
		cfg.Log = flags.Log
	}
	if fs.Changed("log-file") {
		cfg.LogFile = flags.LogFile
	}
	if fs.Changed("no-open") {
		cfg.NoOpen = flags.NoOpen
	}
	if fs.Changed("no-close") {
		cfg.NoClose = flags.NoClose
	}
	if fs.Changed("max-control-transfer") {
		cfg.MaxControlTransfer = flags.MaxControlTransfer
	}
	return cfg, nil
}

// logOutput returns where log messages go.  A configured log file is
// rotated
func (cfg config) logOutput(stderr io.Writer) io.Writer {
	if cfg.LogFile == "" {
		return stderr
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
	}
}

func (cfg config) configureLogging(stderr io.Writer) error {
	if cfg.Log == "" {
		return nil
	}

	var level mbim.LogLevel
	if err := level.Set(cfg.Log); err != nil {
		return err
	}

	mbim.SetLogLevel(level, cfg.logOutput(stderr))
	return nil
}
