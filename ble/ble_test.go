package ble

import "testing"

var profileTests = []struct {
	name     string
	service  string
	control  string
	complete string
}{
	{
		name:     "uart",
		service:  "6e400001-b5a3-f393-e0a9-e50e24dcca9e",
		control:  "6e400002-b5a3-f393-e0a9-e50e24dcca9e",
		complete: "6e400003-b5a3-f393-e0a9-e50e24dcca9e",
	},
	{
		name:     "serial",
		service:  "0000ffe0-0000-1000-8000-00805f9b34fb",
		control:  "0000ffe1-0000-1000-8000-00805f9b34fb",
		complete: "0000ffe1-0000-1000-8000-00805f9b34fb",
	},
}

func TestProfiles(t *testing.T) {
	for _, test := range profileTests {
		t.Run(test.name, func(t *testing.T) {
			p, err := ProfileByName(test.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != test.name {
				t.Errorf("unexpected profile name: got:%q want:%q", p.Name, test.name)
			}
			for _, id := range []struct {
				name      string
				got, want string
			}{
				{name: "service", got: p.Service.String(), want: test.service},
				{name: "control", got: p.Control.String(), want: test.control},
				{name: "complete", got: p.Complete.String(), want: test.complete},
			} {
				if id.got != id.want {
					t.Errorf("unexpected %s uuid: got:%s want:%s", id.name, id.got, id.want)
				}
			}
		})
	}
}

func TestUnknownProfile(t *testing.T) {
	_, err := ProfileByName("rfcomm")
	if err == nil {
		t.Error("expected error for unknown profile")
	}
}
