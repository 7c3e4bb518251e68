package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fishcrypt/internal/domain"
)

// keyx init|handle|status: DH1080 by hand, for pasting tokens between
// clients.
func keyxCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyx",
		Short: "DH1080 key exchange",
	}

	var variant string
	initCmd := &cobra.Command{
		Use:   "init <target>",
		Short: "Start an exchange and print the INIT line to send",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v domain.ExchangeVariant
			if variant != "" {
				var err error
				if v, err = domain.ParseExchangeVariant(variant); err != nil {
					return fmt.Errorf("%w: %v", domain.ErrUnsupportedVariant, err)
				}
			}
			line, err := st.app.KeyX.Initiate(domain.Target(args[0]), v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
	initCmd.Flags().StringVar(&variant, "variant", "", "plain (ECB key) or cbc (default keyx.default_variant)")

	handleCmd := &cobra.Command{
		Use:   "handle <target> <line>",
		Short: "Process a received DH1080 line and print any reply",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := domain.Target(args[0])
			out, err := st.app.KeyX.HandleLine(t, args[1])
			if err != nil {
				return err
			}
			if out.Reply != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out.Reply)
			}
			if out.Completed {
				fmt.Fprintf(cmd.ErrOrStderr(), "key exchange with %s complete (%s)\n", t.Normalize(), out.Mode)
			}
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status <target>",
		Short: "Show the pending exchange for a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := domain.Target(args[0])
			sess, ok, err := st.app.KeyX.Pending(t)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "no pending exchange with %s\n", t.Normalize())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, variant %s, started %s (id %s)\n",
				sess.Target, sess.State, sess.Variant,
				time.Unix(sess.CreatedUTC, 0).Format(time.RFC3339), sess.ID)
			return nil
		},
	}

	cmd.AddCommand(initCmd, handleCmd, statusCmd)
	return cmd
}
