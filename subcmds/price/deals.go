// Copyright (c) 2025 BVK Chaitanya

package price

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

type Deals struct {
	cmdutil.ClientFlags

	country  string
	platform string
}

func (c *Deals) Purpose() string {
	return "Lists current deals for a game across stores"
}

func (c *Deals) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("deals", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.country, "country", "", "two-letter country code")
	fset.StringVar(&c.platform, "platform", "", "game platform")
	return "deals", fset, cli.CmdFunc(c.run)
}

func (c *Deals) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (game name) argument")
	}
	req := &api.PriceDealsRequest{
		Name:     args[0],
		Country:  c.country,
		Platform: c.platform,
	}
	resp, err := cmdutil.Post[api.PriceDealsResponse](ctx, &c.ClientFlags, api.PriceDealsPath, req)
	if err != nil {
		return err
	}
	if len(resp.Deals) == 0 {
		fmt.Println("no deals found")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Shop\tPrice\tRegular\tCurrency\t\n")
	for _, d := range resp.Deals {
		sale := ""
		if d.Price.LessThan(d.Regular) {
			sale = "on sale"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Shop, d.Price.StringFixed(2), d.Regular.StringFixed(2), d.Currency, sale)
	}
	return tw.Flush()
}
