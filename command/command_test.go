package command

import (
	"errors"
	"reflect"
	"testing"
)

var tableTests = []struct {
	label string
	cmd   Command
	want  Vector
}{
	{label: "POWER_OFF", cmd: PowerOff, want: Vector{1, 0, 0, 0, 0}},
	{label: "NORMAL_MODE", cmd: NormalMode, want: Vector{0, 1, 0, 0, 0}},
	{label: "QUICK_MODE", cmd: QuickMode, want: Vector{0, 0, 1, 0, 0}},
	{label: "SWING_UP", cmd: SwingUp, want: Vector{0, 0, 0, 1, 0}},
	{label: "SWING_DOWN", cmd: SwingDown, want: Vector{0, 0, 0, 0, 1}},
}

func TestTable(t *testing.T) {
	for _, test := range tableTests {
		t.Run(test.label, func(t *testing.T) {
			cmd, err := Parse(test.label)
			if err != nil {
				t.Fatalf("unexpected error parsing label: %v", err)
			}
			if cmd != test.cmd {
				t.Errorf("unexpected command: got:%v want:%v", cmd, test.cmd)
			}
			if got := cmd.String(); got != test.label {
				t.Errorf("unexpected label: got:%q want:%q", got, test.label)
			}
			if got := Lookup(test.label); got != test.want {
				t.Errorf("unexpected lookup vector: got:%v want:%v", got, test.want)
			}
			got, err := cmd.MarshalBinary()
			if err != nil {
				t.Fatalf("unexpected error marshaling command: %v", err)
			}
			if !reflect.DeepEqual(got, test.want[:]) {
				t.Errorf("unexpected wire form: got:%#x want:%#x", got, test.want[:])
			}
			dec, err := Decode(got)
			if err != nil {
				t.Fatalf("unexpected error decoding vector: %v", err)
			}
			if dec != test.cmd {
				t.Errorf("unexpected decoded command: got:%v want:%v", dec, test.cmd)
			}
		})
	}
}

func TestUnknownLabel(t *testing.T) {
	for _, label := range []string{"", "swing_up", "POWER_ON", "SWING_UP "} {
		_, err := Parse(label)
		if !errors.Is(err, ErrUnknownCommand) {
			t.Errorf("expected unknown command error for %q: got:%v", label, err)
		}
		if got := Lookup(label); got != (Vector{}) {
			t.Errorf("expected zero vector for %q: got:%v", label, got)
		}
	}
}

func TestInvalidCommand(t *testing.T) {
	c := Command(numCommands)
	if got := c.Vector(); got != (Vector{}) {
		t.Errorf("expected zero vector for invalid command: got:%v", got)
	}
	if _, err := c.MarshalBinary(); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected unknown command error: got:%v", err)
	}
	if got, want := c.String(), "Command(5)"; got != want {
		t.Errorf("unexpected string: got:%q want:%q", got, want)
	}
}

var decodeErrorTests = []struct {
	name string
	data []byte
}{
	{name: "empty", data: nil},
	{name: "short", data: []byte{0, 0, 0, 1}},
	{name: "long", data: []byte{0, 0, 0, 1, 0, 0}},
	{name: "zero", data: []byte{0, 0, 0, 0, 0}},
	{name: "multi_hot", data: []byte{0, 1, 1, 0, 0}},
	{name: "not_one", data: []byte{0, 2, 0, 0, 0}},
}

func TestDecodeErrors(t *testing.T) {
	for _, test := range decodeErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(test.data)
			if err == nil {
				t.Errorf("expected error decoding %#x", test.data)
			}
		})
	}
}

var statusTests = []struct {
	name    string
	data    []byte
	want    Status
	wantErr bool
}{
	{name: "arm_up", data: []byte{1}, want: ArmUp},
	{name: "arm_down", data: []byte{2}, want: ArmDown},
	{name: "cleaning_done", data: []byte{3}, want: CleaningDone},
	{name: "trailing_bytes", data: []byte{3, 0xff, 0xff}, want: CleaningDone},
	{name: "empty", data: nil, wantErr: true},
	{name: "zero", data: []byte{0}, wantErr: true},
	{name: "unknown", data: []byte{4}, wantErr: true},
}

func TestParseStatus(t *testing.T) {
	for _, test := range statusTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseStatus(test.data)
			if (err != nil) != test.wantErr {
				t.Fatalf("unexpected error result: got:%v want error:%t", err, test.wantErr)
			}
			if got != test.want {
				t.Errorf("unexpected status: got:%v want:%v", got, test.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	for _, test := range []struct {
		s    Status
		want string
	}{
		{s: ArmUp, want: "ArmUp"},
		{s: ArmDown, want: "ArmDown"},
		{s: CleaningDone, want: "CleaningDone"},
		{s: 0, want: "Status(0)"},
		{s: 9, want: "Status(9)"},
	} {
		if got := test.s.String(); got != test.want {
			t.Errorf("unexpected string: got:%q want:%q", got, test.want)
		}
	}
}
