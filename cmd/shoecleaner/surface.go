// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"image/color"
	"sync"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/notify"
	"github.com/rs/zerolog"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/kortschak/shoecleaner/cleaner"
	"github.com/kortschak/shoecleaner/cmd/internal/ring"
	"github.com/kortschak/shoecleaner/command"
)

var (
	white     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black     = color.NRGBA{A: 0xff}
	lightGray = color.NRGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}
	green     = color.NRGBA{R: 0x00, G: 0xa0, B: 0x00, A: 0xff}
	red       = color.NRGBA{R: 0xe0, G: 0x00, B: 0x00, A: 0xff}
)

const recentEvents = 4

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

type button struct {
	cmd   command.Command
	label string
	click widget.Clickable
}

// surface is the control panel. Button enablement follows the
// controller's state machine.
type surface struct {
	c   *cleaner.Controller
	log zerolog.Logger

	notifier notify.Notifier

	mu     sync.Mutex
	recent *ring.Log[string]

	update chan struct{}

	th        *material.Theme
	buttons   []*button
	power     widget.Clickable
	powerIcon *widget.Icon
}

func newSurface(c *cleaner.Controller, log zerolog.Logger) *surface {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	s := &surface{
		c:      c,
		log:    log,
		recent: ring.NewLog[string](recentEvents),
		update: make(chan struct{}, 1),
		th:     th,
		buttons: []*button{
			{cmd: command.SwingUp, label: "Raise arm"},
			{cmd: command.NormalMode, label: "Normal mode"},
			{cmd: command.QuickMode, label: "Quick mode"},
			{cmd: command.SwingDown, label: "Lower arm"},
		},
		powerIcon: must(widget.NewIcon(icons.ActionPowerSettingsNew)),
	}
	n, err := notify.NewNotifier()
	if err != nil {
		log.Warn().Err(err).Msg("desktop notifications unavailable")
	} else {
		s.notifier = n
	}
	return s
}

// changed requests a redraw.
func (s *surface) changed() {
	select {
	case s.update <- struct{}{}:
	default:
	}
}

// report records msg in the recent events list and raises a desktop
// notification.
func (s *surface) report(msg string) {
	s.mu.Lock()
	s.recent.Push(msg)
	s.mu.Unlock()
	if s.notifier != nil {
		_, err := s.notifier.CreateNotification("Shoe Cleaner", msg)
		if err != nil {
			s.log.Debug().Err(err).Msg("failed to raise notification")
		}
	}
	s.changed()
}

func (s *surface) press(cmd command.Command) {
	go func() {
		err := s.c.Press(cmd)
		switch {
		case err == nil:
			s.log.Info().Stringer("command", cmd).Msg("sent command")
		case errors.Is(err, cleaner.ErrNotConnected):
			s.report("device is not connected")
		default:
			s.log.Warn().Err(err).Stringer("command", cmd).Msg("failed to send command")
			s.report(err.Error())
		}
	}()
}

func (s *surface) loop(w *app.Window) error {
	events := make(chan event.Event)
	ack := make(chan struct{})

	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-ack
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
	var ops op.Ops
	for {
		select {
		case <-s.update:
			w.Invalidate()
		case e := <-events:
			switch e := e.(type) {
			case app.DestroyEvent:
				ack <- struct{}{}
				return e.Err
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				s.layout(gtx)
				e.Frame(gtx.Ops)
			}
			ack <- struct{}{}
		}
	}
}

func (s *surface) layout(gtx layout.Context) layout.Dimensions {
	snap := s.c.Machine().Snapshot()
	for _, b := range s.buttons {
		for b.click.Clicked(gtx) {
			if snap.Enabled(b.cmd) {
				s.press(b.cmd)
			}
		}
	}
	for s.power.Clicked(gtx) {
		if snap.Enabled(command.PowerOff) {
			s.press(command.PowerOff)
		}
	}

	paint.Fill(gtx.Ops, white)

	children := []layout.FlexChild{
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return s.connection(gtx, snap)
		}),
	}
	for _, b := range s.buttons {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return s.pill(gtx, b, snap.Enabled(b.cmd))
		}))
	}
	children = append(children,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return s.powerOff(gtx, snap.Enabled(command.PowerOff))
		}),
		layout.Rigid(s.events),
	)
	return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{
			Axis:      layout.Vertical,
			Spacing:   layout.SpaceEvenly,
			Alignment: layout.Middle,
		}.Layout(gtx, children...)
	})
}

func (s *surface) connection(gtx layout.Context, snap cleaner.Snapshot) layout.Dimensions {
	status := material.H5(s.th, "disconnected")
	status.Color = red
	if snap.Connected {
		status = material.H5(s.th, "connected")
		status.Color = green
	}
	state := material.Caption(s.th, snap.State.String())
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(status.Layout),
		layout.Rigid(state.Layout),
	)
}

func (s *surface) pill(gtx layout.Context, b *button, enabled bool) layout.Dimensions {
	btn := material.Button(s.th, &b.click, b.label)
	btn.Background = lightGray
	btn.Color = black
	btn.CornerRadius = unit.Dp(28)
	btn.Inset = layout.Inset{
		Top: unit.Dp(14), Bottom: unit.Dp(14),
		Left: unit.Dp(32), Right: unit.Dp(32),
	}
	if !enabled {
		gtx = gtx.Disabled()
	}
	return btn.Layout(gtx)
}

func (s *surface) powerOff(gtx layout.Context, enabled bool) layout.Dimensions {
	btn := material.IconButton(s.th, &s.power, s.powerIcon, "power off")
	btn.Background = red
	btn.Color = white
	btn.Size = unit.Dp(40)
	btn.Inset = layout.UniformInset(unit.Dp(10))
	if !enabled {
		gtx = gtx.Disabled()
	}
	label := material.Body1(s.th, "Power off")
	label.Color = black
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(btn.Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(label.Layout),
	)
}

func (s *surface) events(gtx layout.Context) layout.Dimensions {
	s.mu.Lock()
	items := s.recent.Items()
	s.mu.Unlock()
	children := make([]layout.FlexChild, len(items))
	for i, msg := range items {
		l := material.Body2(s.th, msg)
		l.Color = color.NRGBA{A: 0xff - uint8(i)*0x30}
		children[i] = layout.Rigid(l.Layout)
	}
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx, children...)
}
