// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The cleanerd command runs on the shoe cleaner and forwards commands
// received over Bluetooth to the motor controller's serial port.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli"
	"tinygo.org/x/bluetooth"

	"github.com/kortschak/shoecleaner/ble"
	"github.com/kortschak/shoecleaner/bridge"
	"github.com/kortschak/shoecleaner/internal/config"
	"github.com/kortschak/shoecleaner/rfcomm"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	app := cli.NewApp()
	app.Name = "cleanerd"
	app.Usage = "shoe cleaner Bluetooth to serial bridge"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Value: config.Path(), Usage: "config file path"},
		cli.StringFlag{Name: "transport", Usage: "transport: rfcomm, uart or serial (default rfcomm)"},
		cli.StringFlag{Name: "name", Usage: "advertised name for ble transports (default " + ble.DefaultName + ")"},
		cli.UintFlag{Name: "channel", Usage: "rfcomm channel (default 1)"},
		cli.StringFlag{Name: "serial", Usage: "motor controller serial port (default " + bridge.DefaultPort + ")"},
		cli.IntFlag{Name: "baud", Usage: "motor controller baud rate (default 9600)"},
		cli.DurationFlag{Name: "pause", Value: bridge.DefaultPause, Usage: "delay after each forwarded command"},
		cli.BoolFlag{Name: "debug", Usage: "log debug messages"},
	}
	app.Action = func(c *cli.Context) error {
		if !c.Bool("debug") {
			log = log.Level(zerolog.InfoLevel)
		}
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		channel := c.Uint("channel")
		if channel > 255 {
			return fmt.Errorf("invalid rfcomm channel: %d", channel)
		}
		return run(log, options{
			transport: config.Or(config.Or(c.String("transport"), cfg.Transport), "rfcomm"),
			name:      config.Or(config.Or(c.String("name"), cfg.Name), ble.DefaultName),
			channel:   config.Or(config.Or(uint8(channel), cfg.Channel), rfcomm.DefaultChannel),
			port:      config.Or(config.Or(c.String("serial"), cfg.SerialPort), bridge.DefaultPort),
			baud:      config.Or(config.Or(c.Int("baud"), cfg.Baud), bridge.DefaultBaud),
			pause:     c.Duration("pause"),
		})
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

type options struct {
	transport string
	name      string
	channel   uint8
	port      string
	baud      int
	pause     time.Duration
}

func run(log zerolog.Logger, opts options) error {
	port, err := bridge.OpenSerial(opts.port, opts.baud)
	if err != nil {
		return err
	}
	defer port.Close()
	// Poll so that the status relay notices shutdown.
	err = port.SetReadTimeout(time.Second)
	if err != nil {
		return fmt.Errorf("failed to set serial read timeout: %w", err)
	}
	log.Info().Str("port", opts.port).Int("baud", opts.baud).Msg("opened motor controller")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b := bridge.New(port, opts.pause, log)
	relay := relayStatus(ctx, cancel, b)

	switch opts.transport {
	case "rfcomm":
		ln, err := rfcomm.Listen(opts.channel)
		if err != nil {
			return err
		}
		log.Info().Uint8("channel", ln.Channel()).Msg("listening")
		err = b.ServeRFCOMM(ctx, ln)
		if err != nil {
			return err
		}
	default:
		p, err := ble.ProfileByName(opts.transport)
		if err != nil {
			return err
		}
		adapter := bluetooth.DefaultAdapter
		err = adapter.Enable()
		if err != nil {
			return fmt.Errorf("failed to enable bluetooth: %w", err)
		}
		adapter.SetConnectHandler(func(dev bluetooth.Device, connected bool) {
			log.Info().Stringer("remote", dev.Address).Bool("connected", connected).Msg("controller connection change")
		})
		err = b.Advertise(adapter, p, opts.name)
		if err != nil {
			return err
		}
		<-ctx.Done()
	}
	log.Info().Msg("shutting down")
	cancel()
	return <-relay
}

// relayStatus relays motor controller status until ctx is done. A
// relay failure cancels ctx so that no more controllers are served.
// The relay's result is sent on the returned channel.
func relayStatus(ctx context.Context, cancel context.CancelFunc, b *bridge.Bridge) <-chan error {
	relay := make(chan error, 1)
	go func() {
		err := b.RelayStatus(ctx)
		if err != nil {
			cancel()
		}
		relay <- err
	}()
	return relay
}
