// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"context"
	"flag"
	"fmt"

	"github.com/visvasity/cli"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/subcmds/cmdutil"
)

type Schedule struct {
	cmdutil.ClientFlags
}

func (c *Schedule) Purpose() string {
	return "Explains the evaluation schedule of a price watch"
}

func (c *Schedule) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("schedule", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "schedule", fset, cli.CmdFunc(c.run)
}

func (c *Schedule) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (game id or name) argument")
	}
	resp, err := cmdutil.Post[api.WatchScheduleResponse](ctx, &c.ClientFlags, api.WatchSchedulePath, &api.WatchScheduleRequest{IDOrName: args[0]})
	if err != nil {
		return err
	}
	fmt.Printf("expression: %s\n", resp.Expression)
	fmt.Printf("description: %s\n", resp.Description)
	fmt.Printf("next evaluation: %s\n", resp.Next.Format("2006-01-02 15:04:05 MST"))
	return nil
}
