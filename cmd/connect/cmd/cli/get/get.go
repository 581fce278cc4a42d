package get

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/micro/go-connect/cmd/connect/cmd"
	"github.com/micro/go-connect/connector"
	"github.com/micro/go-connect/transport"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/net/http2"
)

func init() {
	cmd.Register(&cli.Command{
		Name:  "get",
		Usage: "GET a url over a pooled connection, e.g. " + cmd.App().Name + " get https://example.com",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "include",
				Aliases: []string{"i"},
				Usage:   "Print the response headers",
			},
		},
		Action: RunGet,
	})
}

// RunGet fetches a url with HTTP/1.1 or HTTP/2, whichever the connection
// negotiated, and prints the body. Exits on error.
func RunGet(ctx *cli.Context) error {
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

	conn, err := d.Call(ctx.Context, transport.NewRequest(u))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx.Context, http.MethodGet, u.String(), nil)
	if err != nil {
		conn.Close()
		return err
	}

	rsp, err := roundTrip(conn, req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	w := ctx.App.Writer
	fmt.Fprintf(w, "%s %s\n", rsp.Proto, rsp.Status)
	if ctx.Bool("include") {
		rsp.Header.Write(w)
		fmt.Fprintln(w)
	}

	_, err = io.Copy(w, rsp.Body)
	return err
}

// roundTrip sends req on conn. The connection is handed back to the pool
// once the body is closed.
func roundTrip(conn *connector.Connection, req *http.Request) (*http.Response, error) {
	if conn.Protocol() == transport.HTTP2 {
		cc, err := new(http2.Transport).NewClientConn(conn)
		if err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "http2 client")
		}

		rsp, err := cc.RoundTrip(req)
		if err != nil {
			cc.Close()
			return nil, err
		}

		// the client conn owns the socket now, it goes with the body
		rsp.Body = &body{ReadCloser: rsp.Body, done: func(bool) { cc.Close() }}
		return rsp, nil
	}

	if err := req.Write(conn); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "write request")
	}

	rsp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "read response")
	}

	rsp.Body = &body{ReadCloser: rsp.Body, done: func(eof bool) {
		if !eof || rsp.Close {
			conn.Close()
			return
		}
		conn.Release()
	}}

	return rsp, nil
}

// body runs done once, when closed, reporting whether it was read to the end.
type body struct {
	io.ReadCloser
	eof  bool
	done func(eof bool)
}

func (b *body) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err == io.EOF {
		b.eof = true
	}
	return n, err
}

func (b *body) Close() error {
	err := b.ReadCloser.Close()
	if b.done != nil {
		b.done(b.eof)
		b.done = nil
	}
	return err
}
