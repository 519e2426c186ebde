// Copyright (c) 2025 BVK Chaitanya

package price

import (
	"context"
	"flag"
	"fmt"

	"github.com/visvasity/cli"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/subcmds/cmdutil"
)

type AllTimeLow struct {
	cmdutil.ClientFlags

	country string
}

func (c *AllTimeLow) Purpose() string {
	return "Prints the all time lowest price for a game"
}

func (c *AllTimeLow) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("all-time-low", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.country, "country", "", "two-letter country code")
	return "all-time-low", fset, cli.CmdFunc(c.run)
}

func (c *AllTimeLow) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (game name) argument")
	}
	req := &api.PriceAllTimeLowRequest{
		Name:    args[0],
		Country: c.country,
	}
	resp, err := cmdutil.Post[api.PriceAllTimeLowResponse](ctx, &c.ClientFlags, api.PriceAllTimeLowPath, req)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", resp.Price.StringFixed(2), resp.Currency)
	return nil
}
