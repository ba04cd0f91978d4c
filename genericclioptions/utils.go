package genericclioptions

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RejectDisallowedFlags returns an error if cmd was invoked with any of
// the given flag names explicitly set. It is meant to be paired with
// [MarkFlagsHidden]: a flag hidden from --help is still settable unless
// this is also called, so hidden persistent flags that don't apply to a
// particular subcommand can be rejected rather than silently ignored.
func RejectDisallowedFlags(cmd *cobra.Command, names ...string) error {
	for _, n := range names {
		flag := cmd.Flags().Lookup(n)
		if flag != nil && flag.Changed {
			return fmt.Errorf("flag --%s is not supported by %q", n, cmd.Name())
		}
	}

	return nil
}

func MarkFlagsHidden(sub *cobra.Command, names ...string) {
	f := sub.HelpFunc()
	sub.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		for _, n := range names {
			flag := cmd.Flags().Lookup(n)
			if flag != nil {
				flag.Hidden = true
			}
		}

		f(cmd, args)
	})
}
