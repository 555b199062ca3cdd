package camwait

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"lapse/internal/logging"
)

// Wait blocks until a video4linux device add event arrives on the udev
// netlink socket, the timeout elapses, or ctx is cancelled. It is used when
// the hardware camera binary is present but no camera device has enumerated
// yet (for example right after boot).
func Wait(ctx context.Context, logger *slog.Logger, timeout time.Duration) error {
	logger = logging.NewComponentLogger(logger, "camwait")

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect netlink socket: %w", err)
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, cameraMatcher())
	defer close(monitorQuit)

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Info("waiting for camera device",
		logging.String(logging.FieldEventType, "camwait_started"),
		logging.Duration("timeout", timeout),
	)

	for {
		select {
		case <-waitCtx.Done():
			return fmt.Errorf("no camera device appeared: %w", waitCtx.Err())
		case uevent := <-queue:
			logger.Info("camera device detected",
				logging.String(logging.FieldEventType, "camwait_device_added"),
				logging.String("kobj", uevent.KObj),
				logging.String("devname", uevent.Env["DEVNAME"]),
			)
			return nil
		case err := <-errs:
			logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

// cameraMatcher matches SUBSYSTEM=video4linux ACTION=add events.
func cameraMatcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}
