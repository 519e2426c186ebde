// Copyright (c) 2023 BVK Chaitanya

package subcmds

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

type Status struct {
	cmdutil.ClientFlags
}

func (c *Status) Purpose() string {
	return "Status prints a summary of all registered price watches"
}

func (c *Status) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("status", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "status", fset, cli.CmdFunc(c.run)
}

func (c *Status) run(ctx context.Context, args []string) error {
	resp, err := cmdutil.Post[api.WatchListResponse](ctx, &c.ClientFlags, api.WatchListPath, &api.WatchListRequest{})
	if err != nil {
		return err
	}
	if len(resp.Watches) == 0 {
		fmt.Println("no watches are registered")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tType\tTarget\tSchedule\tCountry\tPlatform\n")
	for _, w := range resp.Watches {
		target := "-"
		if w.TargetValue != nil {
			target = w.TargetValue.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", w.Name, w.Type, target, w.Schedule, w.Country, w.Platform)
	}
	return tw.Flush()
}
