// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/visvasity/cli"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/subcmds/cmdutil"
)

type List struct {
	cmdutil.ClientFlags
}

func (c *List) Purpose() string {
	return "Lists all registered price watches"
}

func (c *List) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "list", fset, cli.CmdFunc(c.run)
}

func (c *List) run(ctx context.Context, args []string) error {
	resp, err := cmdutil.Post[api.WatchListResponse](ctx, &c.ClientFlags, api.WatchListPath, &api.WatchListRequest{})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tName\tType\tTarget\tSchedule\n")
	for _, w := range resp.Watches {
		target := "-"
		if w.TargetValue != nil {
			target = w.TargetValue.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", w.ID, w.Name, w.Type, target, w.Schedule)
	}
	return tw.Flush()
}
