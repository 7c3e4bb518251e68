package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"fishcrypt/internal/app"
)

// state is shared by the command tree for one invocation.
type state struct {
	opts app.Options
	app  *app.App
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:           "fishcrypt",
		Short:         "FiSH-compatible chat line encryption",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(st.opts)
			if err != nil {
				return fmt.Errorf("startup: %w", err)
			}
			st.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if st.app == nil {
				return nil
			}
			err := st.app.Close()
			st.app = nil
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&st.opts.Home, "home", "", "data dir (default $FISHCRYPT_HOME or ~/.fishcrypt)")
	pf.StringVarP(&st.opts.Passphrase, "passphrase", "p", "", "passphrase sealing the key store")
	pf.StringVar(&st.opts.RelayURL, "relay", "", "relay base URL (overrides relay.url)")
	pf.StringVar(&st.opts.ConfigPath, "config", "", "config file (default <home>/config.yaml)")
	pf.BoolVarP(&st.opts.Verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		setKeyCmd(st),
		delKeyCmd(st),
		keyCmd(st),
		keysCmd(st),
		enableCmd(st, true),
		enableCmd(st, false),
		encryptCmd(st),
		decryptCmd(st),
		keyxCmd(st),
		selfTestCmd(st),
		sendCmd(st),
		recvCmd(st),
	)
	return root
}
