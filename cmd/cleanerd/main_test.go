package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kortschak/shoecleaner/bridge"
	"github.com/kortschak/shoecleaner/rfcomm"
)

// unplugged is a serial port that has gone away.
type unplugged struct{ err error }

func (p unplugged) Read([]byte) (int, error)  { return 0, p.err }
func (p unplugged) Write([]byte) (int, error) { return 0, p.err }

// idleListener has no controllers to hand out.
type idleListener struct {
	once   sync.Once
	closed chan struct{}
}

func (l *idleListener) Accept() (*rfcomm.Conn, error) {
	<-l.closed
	return nil, errors.New("listener closed")
}

func (l *idleListener) Close() error {
	l.once.Do(func() { close(l.closed) })
	return nil
}

func TestRelayFailureStopsServing(t *testing.T) {
	want := errors.New("port unplugged")
	b := bridge.New(unplugged{want}, time.Microsecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	relay := relayStatus(ctx, cancel, b)

	served := make(chan error)
	go func() { served <- b.ServeRFCOMM(ctx, &idleListener{closed: make(chan struct{})}) }()
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("unexpected serve error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("still serving after relay failure")
	}
	if err := <-relay; !errors.Is(err, want) {
		t.Errorf("unexpected relay error: got:%v want:%v", err, want)
	}
}
