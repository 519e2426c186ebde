// Copyright (c) 2025 BVK Chaitanya

// Package price implements subcommands to query game prices.
package price

import (
	"context"
	"flag"
	"fmt"

	"github.com/visvasity/cli"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/subcmds/cmdutil"
)

type Lowest struct {
	cmdutil.ClientFlags

	country  string
	platform string
}

func (c *Lowest) Purpose() string {
	return "Prints the lowest current price for a game"
}

func (c *Lowest) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("lowest", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.country, "country", "", "two-letter country code")
	fset.StringVar(&c.platform, "platform", "", "game platform")
	return "lowest", fset, cli.CmdFunc(c.run)
}

func (c *Lowest) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (game name) argument")
	}
	req := &api.PriceLowestRequest{
		Name:     args[0],
		Country:  c.country,
		Platform: c.platform,
	}
	resp, err := cmdutil.Post[api.PriceLowestResponse](ctx, &c.ClientFlags, api.PriceLowestPath, req)
	if err != nil {
		return err
	}
	d := resp.Deal
	fmt.Printf("%s %s at %s (regular %s)\n", d.Price.StringFixed(2), d.Currency, d.Shop, d.Regular.StringFixed(2))
	if len(d.URL) != 0 {
		fmt.Printf("%s\n", d.URL)
	}
	return nil
}
