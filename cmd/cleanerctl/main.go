// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The cleanerctl command controls a Bluetooth shoe cleaner from the
// command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli"
	"tinygo.org/x/bluetooth"

	"github.com/kortschak/shoecleaner/ble"
	"github.com/kortschak/shoecleaner/cleaner"
	"github.com/kortschak/shoecleaner/cmd/internal/link"
	"github.com/kortschak/shoecleaner/command"
	"github.com/kortschak/shoecleaner/internal/config"
	"github.com/kortschak/shoecleaner/rfcomm"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	labels := make([]string, 0, 5)
	for _, c := range command.Commands() {
		labels = append(labels, c.String())
	}

	app := cli.NewApp()
	app.Name = "cleanerctl"
	app.Usage = "control a Bluetooth shoe cleaner"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Value: config.Path(), Usage: "config file path"},
		cli.StringFlag{Name: "transport", Usage: "transport: " + strings.Join(link.Transports, ", ") + " (default uart)"},
		cli.StringFlag{Name: "name", Usage: "device name (default " + ble.DefaultName + ")"},
		cli.StringFlag{Name: "addr", Usage: "device address for rfcomm (default lookup by name)"},
		cli.UintFlag{Name: "channel", Usage: "rfcomm channel (default 1)"},
		cli.DurationFlag{Name: "timeout", Value: ble.DefaultScanTimeout, Usage: "scan and connection timeout"},
		cli.BoolFlag{Name: "debug", Usage: "log debug messages"},
	}
	app.Before = func(c *cli.Context) error {
		if !c.GlobalBool("debug") {
			log = log.Level(zerolog.InfoLevel)
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "scan",
			Usage:  "list advertising devices",
			Flags:  []cli.Flag{cli.BoolFlag{Name: "all", Usage: "list devices with any name"}},
			Action: scan,
		},
		{
			Name:      "send",
			Usage:     "send a command",
			ArgsUsage: strings.Join(labels, "|"),
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "check", Usage: "refuse commands not allowed from the initial state"},
				cli.DurationFlag{Name: "wait", Usage: "wait for a status report after sending"},
			},
			Action: send,
		},
		{
			Name:   "watch",
			Usage:  "print status reports until interrupted",
			Action: watch,
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func options(c *cli.Context) (link.Options, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return link.Options{}, err
	}
	channel := c.GlobalUint("channel")
	if channel > 255 {
		return link.Options{}, fmt.Errorf("invalid rfcomm channel: %d", channel)
	}
	return link.Options{
		Transport: config.Or(c.GlobalString("transport"), cfg.Transport),
		Name:      config.Or(config.Or(c.GlobalString("name"), cfg.Name), ble.DefaultName),
		Address:   config.Or(c.GlobalString("addr"), cfg.Address),
		Channel:   config.Or(config.Or(uint8(channel), cfg.Channel), rfcomm.DefaultChannel),
	}, nil
}

// connect opens a link to the configured appliance. Status events
// are sent on the returned channel.
func connect(ctx context.Context, c *cli.Context) (*cleaner.Controller, io.Closer, <-chan cleaner.Event, error) {
	opts, err := options(c)
	if err != nil {
		return nil, nil, nil, err
	}
	ctrl := cleaner.NewController(cleaner.NewMachine())
	events := make(chan cleaner.Event, 8)
	ctrl.Events = func(e cleaner.Event) {
		select {
		case events <- e:
		default:
			log.Warn().Stringer("status", e.Status).Msg("dropped status report")
		}
	}
	ctrl.Machine().Observe(func(s cleaner.Snapshot) {
		log.Debug().Stringer("state", s.State).Bool("connected", s.Connected).Msg("state change")
	})
	connCtx, cancel := context.WithTimeout(ctx, c.GlobalDuration("timeout"))
	defer cancel()
	l, err := link.Open(connCtx, ctrl, opts, func(err error) {
		log.Warn().Err(err).Msg("link error")
	})
	if err != nil {
		return nil, nil, nil, err
	}
	log.Debug().Str("name", opts.Name).Str("transport", opts.Transport).Msg("connected")
	return ctrl, l, events, nil
}

func scan(c *cli.Context) error {
	opts, err := options(c)
	if err != nil {
		return err
	}
	adapter := bluetooth.DefaultAdapter
	err = adapter.Enable()
	if err != nil {
		return fmt.Errorf("failed to enable bluetooth: %w", err)
	}
	all := c.Bool("all")
	seen := make(map[bluetooth.Address]bool)
	time.AfterFunc(c.GlobalDuration("timeout"), func() { adapter.StopScan() })
	return adapter.Scan(func(adapter *bluetooth.Adapter, r bluetooth.ScanResult) {
		if seen[r.Address] || (!all && r.LocalName() != opts.Name) {
			return
		}
		seen[r.Address] = true
		fmt.Printf("%s\t%d\t%q\n", r.Address, r.RSSI, r.LocalName())
	})
}

func send(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("send requires exactly one command label", 2)
	}
	cmd, err := command.Parse(c.Args().First())
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctrl, l, events, err := connect(ctx, c)
	if err != nil {
		return err
	}
	defer l.Close()

	if c.Bool("check") {
		err = ctrl.Press(cmd)
	} else {
		err = ctrl.Send(cmd)
	}
	if err != nil {
		return err
	}
	log.Info().Stringer("command", cmd).Msg("sent command")

	wait := c.Duration("wait")
	if wait <= 0 {
		return nil
	}
	select {
	case e := <-events:
		fmt.Println(e.Message())
		return nil
	case <-time.After(wait):
		return errors.New("timed out waiting for status report")
	case <-ctx.Done():
		return nil
	}
}

func watch(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctrl, l, events, err := connect(ctx, c)
	if err != nil {
		return err
	}
	defer l.Close()

	lost := make(chan struct{})
	ctrl.Machine().Observe(func(s cleaner.Snapshot) {
		if !s.Connected {
			select {
			case <-lost:
			default:
				close(lost)
			}
		}
	})
	for {
		select {
		case e := <-events:
			fmt.Printf("%s\t%v\t%s\n", time.Now().Format(time.TimeOnly), e.State, e.Message())
		case <-lost:
			return errors.New("device disconnected")
		case <-ctx.Done():
			return nil
		}
	}
}
