package commands

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fishcrypt/internal/crypto"
	"fishcrypt/internal/domain"
)

// encrypt <target> <text...>: print the line to send.
func encryptCmd(st *state) *cobra.Command {
	var action, notice bool
	cmd := &cobra.Command{
		Use:   "encrypt <target> <text...>",
		Short: "Encrypt text for a target and print the wire line",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.KindMessage
			switch {
			case action:
				kind = domain.KindAction
			case notice:
				kind = domain.KindNotice
			}
			out, err := st.app.Messages.EncodeOutgoing(domain.Target(args[0]), strings.Join(args[1:], " "), kind)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Line)
			return nil
		},
	}
	cmd.Flags().BoolVar(&action, "action", false, "encrypt as a /me action")
	cmd.Flags().BoolVar(&notice, "notice", false, "encrypt as a notice")
	cmd.MarkFlagsMutuallyExclusive("action", "notice")
	return cmd
}

// decrypt <target> <line>
func decryptCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt <target> <line>",
		Short: "Decrypt a wire line received from a target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := st.app.Messages.DecodeIncoming(domain.Target(args[0]), args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), in.Text)
			if in.Learned {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: %s now uses %s\n", domain.Target(args[0]).Normalize(), in.Mode)
			}
			return nil
		},
	}
}

// selftest: round-trip each mode with a throwaway or given key.
func selfTestCmd(st *state) *cobra.Command {
	var mode, secret, sample string
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Check that encryption round-trips in each cipher mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := []domain.CipherMode{domain.ModeECB, domain.ModeCBC}
			if mode != "" {
				m, err := domain.ParseCipherMode(mode)
				if err != nil {
					return err
				}
				modes = []domain.CipherMode{m}
			}

			var key domain.KeyMaterial
			if secret != "" {
				key = crypto.DeriveKey([]byte(secret))
			} else if _, err := rand.Read(key[:]); err != nil {
				return err
			}

			var failed int
			for _, m := range modes {
				if err := st.app.Messages.SelfTest(m, key, sample); err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: FAIL (%v)\n", m, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", m)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d modes", domain.ErrSelfTestFailed, failed, len(modes))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "test only this mode")
	cmd.Flags().StringVar(&secret, "key", "", "derive the test key from this passphrase")
	cmd.Flags().StringVar(&sample, "sample", "", "sample text")
	return cmd
}
