package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/protocol/wire"
)

// send <to> <text...>: encrypt for <to> and deliver through the relay.
func sendCmd(st *state) *cobra.Command {
	var from string
	var keyx bool
	var action bool
	cmd := &cobra.Command{
		Use:   "send <to> <text...>",
		Short: "Encrypt a message and deliver it through the relay",
		Args: func(cmd *cobra.Command, args []string) error {
			if keyx {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			to := domain.Target(args[0])
			var line string
			if keyx {
				l, err := st.app.KeyX.Initiate(to, "")
				if err != nil {
					return err
				}
				line = l
			} else {
				kind := domain.KindMessage
				if action {
					kind = domain.KindAction
				}
				out, err := st.app.Messages.EncodeOutgoing(to, strings.Join(args[1:], " "), kind)
				if err != nil {
					return err
				}
				if !out.Encrypted {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: no key for %s, sending in the clear\n", to.Normalize())
				}
				line = out.Line
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), st.app.Config.GetRelayTimeout())
			defer cancel()
			env := domain.Envelope{From: domain.Target(from), To: to, Line: line, Timestamp: time.Now().Unix()}
			if err := st.app.Transport.Deliver(ctx, env); err != nil {
				return fmt.Errorf("deliver: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "your nick")
	cmd.Flags().BoolVar(&keyx, "keyx", false, "start a DH1080 exchange instead of sending text")
	cmd.Flags().BoolVar(&action, "action", false, "send as a /me action")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

// recv: fetch queued lines for --as, decrypt them and answer key exchanges.
func recvCmd(st *state) *cobra.Command {
	var me string
	var limit int
	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Fetch and decrypt queued messages; answer key exchanges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), st.app.Config.GetRelayTimeout())
			defer cancel()

			self := domain.Target(me)
			envs, err := st.app.Transport.Fetch(ctx, self, limit)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}

			w := cmd.OutOrStdout()
			handled := 0
			var loopErr error
			for _, env := range envs {
				if loopErr = handleEnvelope(ctx, st, w, self, env); loopErr != nil {
					break
				}
				handled++
			}

			// Ack the handled prefix; a failed line and those after it stay
			// queued for the next recv.
			if handled > 0 {
				if err := st.app.Transport.Ack(ctx, self, handled); err != nil {
					return errors.Join(loopErr, fmt.Errorf("ack: %w", err))
				}
			}
			if loopErr != nil {
				return loopErr
			}
			st.app.Log.Debug("received", zap.Int("count", handled))
			return nil
		},
	}
	cmd.Flags().StringVar(&me, "as", "", "your nick")
	cmd.Flags().IntVar(&limit, "limit", 0, "max messages to fetch (0 = all)")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

// handleEnvelope answers a key-exchange line or prints a decoded message. The
// error is non-nil only when the envelope should stay queued.
func handleEnvelope(ctx context.Context, st *state, w io.Writer, self domain.Target, env domain.Envelope) error {
	peer := env.From
	if wire.Classify(env.Line) == wire.FormatKeyExchange {
		out, err := st.app.KeyX.HandleLine(peer, env.Line)
		if err != nil {
			fmt.Fprintf(w, "[%s] key exchange rejected: %v\n", peer, err)
			return nil
		}
		if out.Reply != "" {
			reply := domain.Envelope{From: self, To: peer, Line: out.Reply, Timestamp: time.Now().Unix()}
			if err := st.app.Transport.Deliver(ctx, reply); err != nil {
				return fmt.Errorf("reply to %s: %w", peer, err)
			}
		}
		fmt.Fprintf(w, "[%s] key exchange complete (%s)\n", peer, out.Mode)
		return nil
	}

	in, err := st.app.Messages.DecodeIncoming(peer, env.Line)
	if errors.Is(err, domain.ErrDecryptionFailed) {
		fmt.Fprintf(w, "[%s] (undecryptable) %s\n", peer, env.Line)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "[%s] %s\n", peer, displayText(in))
	return nil
}

func displayText(in domain.Incoming) string {
	text := in.Text
	if in.Action {
		if body, ok := wire.UnwrapAction(text); ok {
			text = "* " + body
		}
	}
	if !in.Encrypted {
		return text + " (unencrypted)"
	}
	return text
}
