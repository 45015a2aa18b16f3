package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ntauth/fracdex/v2"
)

// betweenCommand creates the "between" command.
func (c *CLI) betweenCommand() *cobra.Command {
	var (
		after, before string
		count         uint
	)
	cmd := &cobra.Command{
		Use:   "between",
		Short: "Generate keys between two keys",
		Long: `Generate one or more keys that sort strictly between --after and --before.
Omitting --after means the start of the list, omitting --before the end.`,
		Example: `  fracdex between --after a0 --before a1
  fracdex between --after a4 -n 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := fracdex.NKeysBetweenJitter(after, before, count, c.jitter(), c.cfg.JitterRange)
			if err != nil {
				return err
			}
			c.Logger.Debug("generated keys", "after", after, "before", before, "count", len(keys))
			out := cmd.OutOrStdout()
			for _, k := range keys {
				fmt.Fprintln(out, k)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&after, "after", "", "key the new keys must follow")
	cmd.Flags().StringVar(&before, "before", "", "key the new keys must precede")
	cmd.Flags().UintVarP(&count, "count", "n", 1, "number of keys to generate")
	return cmd
}

// midpointCommand creates the "midpoint" command.
func (c *CLI) midpointCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "midpoint A [B]",
		Short: "Print the shortest fraction between two fractional parts",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := ""
			if len(args) == 2 {
				b = args[1]
			}
			m, err := fracdex.Midpoint(args[0], b)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

// incCommand creates the "inc" command.
func (c *CLI) incCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inc INT",
		Short: "Print the integer part following INT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := fracdex.IncrementInteger(args[0])
			if err != nil {
				return err
			}
			if next == "" {
				return fmt.Errorf("%s is the largest integer part", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}
}

// decCommand creates the "dec" command.
func (c *CLI) decCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dec INT",
		Short: "Print the integer part preceding INT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := fracdex.DecrementInteger(args[0])
			if err != nil {
				return err
			}
			if prev == "" {
				return fmt.Errorf("%s is the smallest integer part", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), prev)
			return nil
		},
	}
}

// validateCommand creates the "validate" command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate KEY...",
		Short: "Check that keys are well-formed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			invalid := 0
			for _, k := range args {
				if err := fracdex.Validate(k); err != nil {
					printError(out, "%v", err)
					invalid++
					continue
				}
				printSuccess(out, "%s", k)
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d keys invalid", invalid, len(args))
			}
			return nil
		},
	}
}

// approxCommand creates the "approx" command.
func (c *CLI) approxCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "approx KEY...",
		Short: "Print the approximate numeric value of keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, k := range args {
				f, err := fracdex.Float64Approx(k)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", k, strconv.FormatFloat(f, 'g', -1, 64))
			}
			return nil
		},
	}
}
