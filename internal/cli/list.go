package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ntauth/fracdex/v2/orderlist"
)

// positionFlags are the mutually exclusive placement flags of add and move.
type positionFlags struct {
	first  bool
	last   bool
	after  string
	before string
}

func (p *positionFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&p.first, "first", false, "place at the start of the list")
	cmd.Flags().BoolVar(&p.last, "last", false, "place at the end of the list (default)")
	cmd.Flags().StringVar(&p.after, "after", "", "place directly after the item with this ID")
	cmd.Flags().StringVar(&p.before, "before", "", "place directly before the item with this ID")
	cmd.MarkFlagsMutuallyExclusive("first", "last", "after", "before")
}

func (p *positionFlags) position() orderlist.Position {
	switch {
	case p.first:
		return orderlist.First()
	case p.after != "":
		return orderlist.After(p.after)
	case p.before != "":
		return orderlist.Before(p.before)
	default:
		return orderlist.Last()
	}
}

// listCommand creates the list management command.
func (c *CLI) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage ordered lists stored in Redis",
	}

	cmd.AddCommand(c.listShowCommand())
	cmd.AddCommand(c.listAddCommand())
	cmd.AddCommand(c.listMoveCommand())
	cmd.AddCommand(c.listRemoveCommand())
	cmd.AddCommand(c.listRebalanceCommand())

	return cmd
}

// listShowCommand creates the "list show" subcommand.
func (c *CLI) listShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show LIST",
		Short: "Print a list in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			items, err := svc.Items(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				printInfo(out, "List %s is empty", args[0])
				return nil
			}
			for _, it := range items {
				printItem(out, it.Key, it.ID, it.Value)
			}
			return nil
		},
	}
}

// listAddCommand creates the "list add" subcommand.
func (c *CLI) listAddCommand() *cobra.Command {
	var pos positionFlags
	cmd := &cobra.Command{
		Use:   "add LIST VALUE",
		Short: "Insert a value into a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			it, err := svc.Insert(cmd.Context(), args[0], args[1], pos.position())
			if err != nil {
				return err
			}
			printItem(cmd.OutOrStdout(), it.Key, it.ID, it.Value)
			return nil
		},
	}
	pos.register(cmd)
	return cmd
}

// listMoveCommand creates the "list move" subcommand.
func (c *CLI) listMoveCommand() *cobra.Command {
	var pos positionFlags
	cmd := &cobra.Command{
		Use:   "move LIST ID",
		Short: "Move an item within a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			it, err := svc.Move(cmd.Context(), args[0], args[1], pos.position())
			if err != nil {
				return err
			}
			printItem(cmd.OutOrStdout(), it.Key, it.ID, it.Value)
			return nil
		},
	}
	pos.register(cmd)
	return cmd
}

// listRemoveCommand creates the "list rm" subcommand.
func (c *CLI) listRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm LIST ID",
		Short: "Remove an item from a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			err = svc.Remove(cmd.Context(), args[0], args[1])
			if errors.Is(err, orderlist.ErrNotFound) {
				printInfo(cmd.OutOrStdout(), "No item %s in %s", args[1], args[0])
				return nil
			}
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Removed %s", args[1])
			return nil
		},
	}
}

// listRebalanceCommand creates the "list rebalance" subcommand.
func (c *CLI) listRebalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rebalance LIST",
		Short: "Rewrite all keys of a list to the shortest evenly spaced keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := svc.Rebalance(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Rebalanced %s", args[0])
			return nil
		},
	}
}
