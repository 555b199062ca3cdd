package camwait

import (
	"testing"

	"github.com/pilebones/go-udev/netlink"
)

func TestCameraMatcherAcceptsVideo4LinuxAdd(t *testing.T) {
	matcher := cameraMatcher()
	if err := matcher.Compile(); err != nil {
		t.Fatalf("compile matcher: %v", err)
	}

	event := netlink.UEvent{
		Action: netlink.ADD,
		KObj:   "/devices/platform/soc/fe801000.csi/video4linux/video0",
		Env: map[string]string{
			"ACTION":    "add",
			"SUBSYSTEM": "video4linux",
			"DEVNAME":   "/dev/video0",
		},
	}
	if !matcher.Evaluate(event) {
		t.Fatal("expected video4linux add event to match")
	}
}

func TestCameraMatcherRejectsOtherEvents(t *testing.T) {
	matcher := cameraMatcher()
	if err := matcher.Compile(); err != nil {
		t.Fatalf("compile matcher: %v", err)
	}

	cases := []netlink.UEvent{
		{
			Action: netlink.ADD,
			KObj:   "/devices/pci0000:00/block/sda",
			Env:    map[string]string{"ACTION": "add", "SUBSYSTEM": "block"},
		},
		{
			Action: netlink.REMOVE,
			KObj:   "/devices/platform/soc/video4linux/video0",
			Env:    map[string]string{"ACTION": "remove", "SUBSYSTEM": "video4linux"},
		},
	}
	for _, event := range cases {
		if matcher.Evaluate(event) {
			t.Fatalf("expected event to be rejected: %+v", event)
		}
	}
}
