// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The shoecleaner command is a control surface for a Bluetooth shoe
// cleaner.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/rs/zerolog"

	"github.com/kortschak/shoecleaner/ble"
	"github.com/kortschak/shoecleaner/cleaner"
	"github.com/kortschak/shoecleaner/cmd/internal/link"
	"github.com/kortschak/shoecleaner/internal/config"
	"github.com/kortschak/shoecleaner/rfcomm"
)

func main() {
	cfgPath := flag.String("config", config.Path(), "config file path")
	transport := flag.String("transport", "", "transport: "+strings.Join(link.Transports, ", ")+" (default uart)")
	name := flag.String("name", "", "device name (default "+ble.DefaultName+")")
	addr := flag.String("addr", "", "device address for rfcomm (default lookup by name)")
	channel := flag.Uint("channel", 0, "rfcomm channel (default 1)")
	timeout := flag.Duration("timeout", ble.DefaultScanTimeout, "connection timeout")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*debug {
		log = log.Level(zerolog.InfoLevel)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *channel > 255 {
		flag.Usage()
		os.Exit(2)
	}
	opts := link.Options{
		Transport: config.Or(*transport, cfg.Transport),
		Name:      config.Or(config.Or(*name, cfg.Name), ble.DefaultName),
		Address:   config.Or(*addr, cfg.Address),
		Channel:   config.Or(config.Or(uint8(*channel), cfg.Channel), rfcomm.DefaultChannel),
	}

	m := cleaner.NewMachine()
	c := cleaner.NewController(m)

	ui := newSurface(c, log)
	m.Observe(func(s cleaner.Snapshot) {
		log.Debug().Stringer("state", s.State).Bool("connected", s.Connected).Msg("state change")
		ui.changed()
	})
	c.Events = func(e cleaner.Event) {
		log.Info().Stringer("status", e.Status).Stringer("state", e.State).Msg(e.Message())
		ui.report(e.Message())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := make(chan func() error, 1)
	go func() {
		ui.report(fmt.Sprintf("connecting to %s", opts.Name))
		connCtx, cancelConn := context.WithTimeout(ctx, *timeout)
		defer cancelConn()
		l, err := link.Open(connCtx, c, opts, func(err error) {
			log.Warn().Err(err).Msg("link error")
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to connect")
			ui.report(link.Message(err))
			return
		}
		log.Info().Str("name", opts.Name).Str("transport", opts.Transport).Msg("connected")
		conn <- l.Close
	}()
	shutdown := func() {
		cancel()
		select {
		case closeConn := <-conn:
			if err := closeConn(); err != nil {
				log.Warn().Err(err).Msg("failed to close connection")
			}
		default:
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		shutdown()
		os.Exit(0)
	}()

	go func() {
		w := new(app.Window)
		w.Option(app.Title("Shoe Cleaner"), app.Size(unit.Dp(360), unit.Dp(640)))
		if err := ui.loop(w); err != nil {
			log.Fatal().Err(err).Msg("window failed")
		}
		shutdown()
		os.Exit(0)
	}()
	app.Main()
}
