package dial

import (
	"fmt"
	"net/url"

	"github.com/micro/go-connect/cmd/connect/cmd"
	"github.com/micro/go-connect/transport"
	"github.com/urfave/cli/v2"
)

func init() {
	cmd.Register(&cli.Command{
		Name:  "dial",
		Usage: "Open connections to a url and report how they were made, e.g. " + cmd.App().Name + " dial https://example.com",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Value: 1,
				Usage: "Number of sequential checkouts, released in between",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Dial this host:port instead of resolving the url host",
			},
		},
		Action: RunDial,
	})
}

// RunDial checks out connections for a url and prints one line per
// checkout. Exits on error.
func RunDial(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return cli.ShowSubcommandHelp(ctx)
	}

	u, err := url.Parse(ctx.Args().First())
	if err != nil {
		return err
	}

	d, closer, err := cmd.Dispatcher(ctx)
	if err != nil {
		return err
	}
	defer closer()

	req := transport.NewRequest(u).WithAddr(ctx.String("addr"))

	for i := 0; i < ctx.Int("count"); i++ {
		conn, err := d.Call(ctx.Context, req)
		if err != nil {
			return err
		}

		fmt.Fprintf(ctx.App.Writer, "%s %s via %s to %s over %s\n",
			conn.Id(), conn.Key(), conn.Source, conn.RemoteAddr(), conn.Protocol())

		conn.Release()
	}

	return nil
}
