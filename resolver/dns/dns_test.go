package dns

import (
	"context"
	"net"
	"testing"

	"github.com/micro/go-connect/resolver"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, zone map[string][]dns.RR) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
			m := new(dns.Msg)
			m.SetReply(req)

			q := req.Question[0]
			for _, rr := range zone[q.Name] {
				if rr.Header().Rrtype == q.Qtype {
					m.Answer = append(m.Answer, rr)
				}
			}
			if _, ok := zone[q.Name]; !ok {
				m.Rcode = dns.RcodeNameError
			}

			_ = w.WriteMsg(m)
		}),
	}

	go func() {
		_ = srv.ActivateAndServe()
	}()
	<-started

	t.Cleanup(func() {
		_ = srv.Shutdown()
	})

	return pc.LocalAddr().String()
}

func mustRR(t *testing.T, s string) dns.RR {
	rr, err := dns.NewRR(s)
	require.NoError(t, err)
	return rr
}

func TestResolve(t *testing.T) {
	addr := serve(t, map[string][]dns.RR{
		"example.com.": {
			mustRR(t, "example.com. 60 IN AAAA 2001:db8::1"),
			mustRR(t, "example.com. 60 IN A 192.0.2.1"),
			mustRR(t, "example.com. 60 IN A 192.0.2.2"),
		},
	})

	r := &Resolver{Address: addr}

	records, err := r.Resolve(context.Background(), "example.com:443")
	require.NoError(t, err)

	var got []string
	for _, rec := range records {
		got = append(got, rec.Address)
	}
	assert.Equal(t, []string{"192.0.2.1:443", "192.0.2.2:443", "[2001:db8::1]:443"}, got)
}

func TestResolveMissing(t *testing.T) {
	addr := serve(t, map[string][]dns.RR{})

	r := &Resolver{Address: addr}
	_, err := r.Resolve(context.Background(), "missing.example:80")
	assert.ErrorIs(t, err, resolver.ErrNoRecords)
}

func TestResolveLiteral(t *testing.T) {
	// no server is needed for addresses
	r := &Resolver{Address: "127.0.0.1:1"}

	records, err := r.Resolve(context.Background(), "10.1.2.3:80")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "10.1.2.3:80", records[0].Address)
}
