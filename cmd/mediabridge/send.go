package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/genricoloni/mediabridge/internal/config"
	"github.com/genricoloni/mediabridge/internal/ipc"
	"github.com/genricoloni/mediabridge/internal/logging"
	"github.com/spf13/cobra"
)

// newSendCmd plays the UI side of the channel, for scripting and debugging.
func newSendCmd(o *config.Overrides) *cobra.Command {
	send := &cobra.Command{
		Use:   "send",
		Short: "Send a message to a running bridge as the UI would",
	}

	send.AddCommand(&cobra.Command{
		Use:   "playback-info JSON|-",
		Short: "Send a playback-info payload; - reads it from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			client, err := dialBridge(cmd, o)
			if err != nil {
				return err
			}
			defer client.Close()
			return client.SendPlaybackInfo(payload)
		},
	})

	send.AddCommand(&cobra.Command{
		Use:   "position SECONDS",
		Short: "Send a position-update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid position %q: %w", args[0], err)
			}
			client, err := dialBridge(cmd, o)
			if err != nil {
				return err
			}
			defer client.Close()
			return client.SendPosition(seconds)
		},
	})

	send.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print media-control commands sent by the bridge until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialBridge(cmd, o)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			enc := json.NewEncoder(cmd.OutOrStdout())
			for {
				select {
				case <-ctx.Done():
					return nil
				case c, ok := <-client.Commands():
					if !ok {
						return errors.New("bridge closed the connection")
					}
					line := map[string]interface{}{"command": c.Name}
					if c.HasValue() {
						line["value"] = c.Value
					}
					if err := enc.Encode(line); err != nil {
						return err
					}
				}
			}
		},
	})

	return send
}

func dialBridge(cmd *cobra.Command, o *config.Overrides) (*ipc.Client, error) {
	cfg, err := config.Load(*o)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	return ipc.Dial(cmd.Context(), logger, cfg.GetListenAddr())
}

func readPayload(stdin io.Reader, arg string) (json.RawMessage, error) {
	data := []byte(arg)
	if arg == "-" {
		var err error
		if data, err = io.ReadAll(stdin); err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
	}
	if !json.Valid(data) {
		return nil, errors.New("payload is not valid JSON")
	}
	return json.RawMessage(data), nil
}
