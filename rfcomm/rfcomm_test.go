package rfcomm

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/kortschak/shoecleaner/command"
)

var addrTests = []struct {
	text    string
	want    [6]byte
	wantErr bool
}{
	{text: "AA:BB:CC:DD:EE:FF", want: [6]byte{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa}},
	{text: "00:1a:7d:da:71:13", want: [6]byte{0x13, 0x71, 0xda, 0x7d, 0x1a, 0x00}},
	{text: "", wantErr: true},
	{text: "AA:BB:CC:DD:EE", wantErr: true},
	{text: "AA:BB:CC:DD:EE:FF:00", wantErr: true},
	{text: "AA:BB:CC:DD:EE:GG", wantErr: true},
	{text: "A:BB:CC:DD:EE:FF0", wantErr: true},
}

func TestParseAddr(t *testing.T) {
	for _, test := range addrTests {
		t.Run(test.text, func(t *testing.T) {
			got, err := ParseAddr(test.text)
			if (err != nil) != test.wantErr {
				t.Fatalf("unexpected error result: got:%v want error:%t", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if got != test.want {
				t.Errorf("unexpected address: got:%#x want:%#x", got, test.want)
			}
			if back := FormatAddr(got); !equalFold(back, test.text) {
				t.Errorf("unexpected formatted address: got:%s want:%s", back, test.text)
			}
		})
	}
}

func equalFold(a, b string) bool {
	return bytes.EqualFold([]byte(a), []byte(b))
}

type pipe struct {
	io.Reader
	bytes.Buffer
	closed bool
}

func (p *pipe) Read(b []byte) (int, error)  { return p.Reader.Read(b) }
func (p *pipe) Write(b []byte) (int, error) { return p.Buffer.Write(b) }
func (p *pipe) Close() error                { p.closed = true; return nil }

func TestConn(t *testing.T) {
	p := &pipe{Reader: bytes.NewReader([]byte{1, 3, 2})}
	c := NewConn(p, "AA:BB:CC:DD:EE:FF")

	err := c.Send(command.SwingUp.Vector())
	if err != nil {
		t.Fatalf("unexpected error sending: %v", err)
	}
	err = c.Notify(command.CleaningDone)
	if err != nil {
		t.Fatalf("unexpected error notifying: %v", err)
	}
	if got, want := p.Buffer.Bytes(), []byte{0, 0, 0, 1, 0, 3}; !bytes.Equal(got, want) {
		t.Errorf("unexpected written bytes: got:%v want:%v", got, want)
	}
	if err := c.Notify(0); err == nil {
		t.Error("expected error for invalid status")
	}

	var got [][]byte
	err = c.Listen(func(b []byte) { got = append(got, b) })
	if err != nil {
		t.Errorf("unexpected error listening: %v", err)
	}
	if want := [][]byte{{1}, {3}, {2}}; !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected notifications: got:%v want:%v", got, want)
	}

	if err := c.Close(); err != nil || !p.closed {
		t.Errorf("unexpected close result: err:%v closed:%t", err, p.closed)
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestListenError(t *testing.T) {
	want := errors.New("connection reset")
	c := NewConn(&pipe{Reader: errReader{want}}, "")
	err := c.Listen(func([]byte) {})
	if !errors.Is(err, want) {
		t.Errorf("unexpected error: got:%v want:%v", err, want)
	}
}
