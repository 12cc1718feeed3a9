package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bootnet.xyz/snet/internal/device"
	_ "bootnet.xyz/snet/internal/device/loopback"
	"bootnet.xyz/snet/internal/nic"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Bring the interface up and poll it until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			exitWithError("loading config", err)
		}

		dev, err := device.New(cfg.Interface.Driver, cfg.Interface.Options)
		if err != nil {
			exitWithError("creating device", err)
		}
		iface, err := nic.New(dev)
		if err != nil {
			exitWithError("registering interface", err)
		}
		if err := iface.Start(); err != nil {
			exitWithError("starting interface", err)
		}
		if err := iface.Initialize(0, 0); err != nil {
			exitWithError("initializing interface", err)
		}

		mode := iface.Mode()
		slog.Info("interface up",
			"driver", cfg.Interface.Driver,
			"hwaddr", mode.HardwareAddr.String(),
			"max_packet_size", mode.MaxPacketSize)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go iface.Run(ctx, time.Duration(cfg.Interface.PollIntervalMS)*time.Millisecond)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		drainFrames(iface, sigCh)

		cancel()
		if err := iface.Shutdown(); err != nil {
			slog.Warn("shutdown failed", "error", err)
		}
		if err := iface.Stop(); err != nil {
			slog.Warn("stop failed", "error", err)
		}
		slog.Info("interface down")
	},
}

// drainFrames reads and logs queued frames until a signal arrives. It is
// the caller-side polling loop the protocol surface is designed for.
func drainFrames(iface *nic.Interface, sigCh <-chan os.Signal) {
	buf := make([]byte, nic.MaxFrameSize)
	for {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(os.Stderr, "received %v, shutting down\n", sig)
			return
		default:
		}

		if !iface.PacketAvailable() {
			time.Sleep(time.Millisecond)
			continue
		}
		n, info, err := iface.Receive(buf)
		if err != nil {
			continue
		}
		slog.Info("frame received",
			"len", n,
			"src", info.Src.String(),
			"dest", info.Dest.String(),
			"protocol", fmt.Sprintf("%#04x", info.Protocol))
	}
}
