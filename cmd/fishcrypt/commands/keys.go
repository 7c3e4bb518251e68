package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fishcrypt/internal/domain"
)

// setkey <target> <key>: derive a key from a passphrase and store it.
func setKeyCmd(st *state) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "setkey <target> <key>",
		Short: "Set the key for a channel or nick",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m domain.CipherMode
			if mode != "" {
				var err error
				if m, err = domain.ParseCipherMode(mode); err != nil {
					return err
				}
			}
			info, err := st.app.KeyMgr.SetKey(domain.Target(args[0]), args[1], m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key set for %s\n", info.Target)
			printInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "cipher mode: ecb or cbc (default dispatch.default_mode)")
	return cmd
}

// delkey <target>
func delKeyCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "delkey <target>",
		Short: "Remove the key for a channel or nick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.app.KeyMgr.DeleteKey(domain.Target(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key removed for %s\n", domain.Target(args[0]).Normalize())
			return nil
		},
	}
}

// key <target>
func keyCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "key <target>",
		Short: "Show mode and fingerprint of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := st.app.KeyMgr.Describe(domain.Target(args[0]))
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

// keys
func keysCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := st.app.KeyMgr.List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no keys")
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s  %s%s\n",
					info.Target, info.Mode, info.Fingerprint, disabledSuffix(info))
			}
			return nil
		},
	}
}

// enable|disable <target>
func enableCmd(st *state, enabled bool) *cobra.Command {
	use, short := "enable", "Encrypt traffic for a target again"
	if !enabled {
		use, short = "disable", "Send and show traffic for a target unencrypted"
	}
	return &cobra.Command{
		Use:   use + " <target>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := domain.Target(args[0])
			if err := st.app.KeyMgr.SetEnabled(t, enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%sd %s\n", use, t.Normalize())
			return nil
		},
	}
}

func printInfo(w io.Writer, info domain.KeyInfo) {
	fmt.Fprintf(w, "  mode:        %s\n", info.Mode)
	fmt.Fprintf(w, "  fingerprint: %s\n", info.Fingerprint)
	if info.Disabled {
		fmt.Fprintln(w, "  encryption:  disabled")
	}
}

func disabledSuffix(info domain.KeyInfo) string {
	if info.Disabled {
		return "  (disabled)"
	}
	return ""
}
