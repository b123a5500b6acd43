// Package dnsserver answers every A query with the gateway address so that any hostname a
// visitor types lands on the portal.
package dnsserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"golang.org/x/net/dns/dnsmessage"

	"github.com/moyoez/portal-gateway/tool"
)

const (
	answerTTL  = 60
	maxPacket  = 512
	readBuffer = 1024 * 8
)

// Server is a wildcard DNS responder.
type Server struct {
	addr string
	ip   [4]byte
}

// New returns a responder for addr that resolves every name to gatewayIP.
func New(addr, gatewayIP string) (*Server, error) {
	ip, err := netip.ParseAddr(gatewayIP)
	if err != nil || !ip.Is4() {
		return nil, fmt.Errorf("gateway address %q is not IPv4", gatewayIP)
	}
	return &Server{addr: addr, ip: ip.As4()}, nil
}

// Run listens on udp4 and answers queries until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	c, err := net.ListenPacket("udp4", s.addr)
	if err != nil {
		return fmt.Errorf("dns listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, c)
}

// Serve answers queries arriving on c. c is closed when ctx is done.
func (s *Server) Serve(ctx context.Context, c net.PacketConn) error {
	if udp, ok := c.(*net.UDPConn); ok {
		if err := udp.SetReadBuffer(readBuffer); err != nil {
			tool.DefaultLogger.Errorf("[DNS] Failed to set read buffer: %v", err)
		}
	}

	stop := context.AfterFunc(ctx, func() {
		_ = c.Close()
	})
	defer stop()

	tool.DefaultLogger.Infof("[DNS] Answering all A queries with %s on %s", s.GatewayIP(), c.LocalAddr())
	buf := make([]byte, maxPacket)
	for {
		n, remote, err := c.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			tool.DefaultLogger.Errorf("[DNS] Error reading query: %v", err)
			continue
		}
		resp, err := s.Answer(buf[:n])
		if err != nil {
			tool.DefaultLogger.Debugf("[DNS] Dropped malformed query from %s: %v", remote, err)
			continue
		}
		if _, err := c.WriteTo(resp, remote); err != nil {
			tool.DefaultLogger.Errorf("[DNS] Failed to reply to %s: %v", remote, err)
		}
	}
}

// GatewayIP is the address every A query resolves to.
func (s *Server) GatewayIP() string {
	return netip.AddrFrom4(s.ip).String()
}

// Answer builds the reply for one query packet. A and ANY questions for IN get the
// gateway address; every other type gets an empty NOERROR answer.
func (s *Server) Answer(query []byte) ([]byte, error) {
	var p dnsmessage.Parser
	hdr, err := p.Start(query)
	if err != nil {
		return nil, err
	}
	if hdr.Response {
		return nil, errors.New("not a query")
	}
	questions, err := p.AllQuestions()
	if err != nil {
		return nil, err
	}

	rcode := dnsmessage.RCodeSuccess
	if hdr.OpCode != 0 {
		rcode = dnsmessage.RCodeNotImplemented
	}
	b := dnsmessage.NewBuilder(make([]byte, 0, maxPacket), dnsmessage.Header{
		ID:                 hdr.ID,
		Response:           true,
		OpCode:             hdr.OpCode,
		Authoritative:      true,
		RecursionDesired:   hdr.RecursionDesired,
		RecursionAvailable: true,
		RCode:              rcode,
	})
	b.EnableCompression()

	if err := b.StartQuestions(); err != nil {
		return nil, err
	}
	for _, q := range questions {
		if err := b.Question(q); err != nil {
			return nil, err
		}
	}
	if err := b.StartAnswers(); err != nil {
		return nil, err
	}
	if rcode == dnsmessage.RCodeSuccess {
		for _, q := range questions {
			if q.Class != dnsmessage.ClassINET {
				continue
			}
			if q.Type != dnsmessage.TypeA && q.Type != dnsmessage.TypeALL {
				continue
			}
			err := b.AResource(dnsmessage.ResourceHeader{
				Name:  q.Name,
				Class: dnsmessage.ClassINET,
				TTL:   answerTTL,
			}, dnsmessage.AResource{A: s.ip})
			if err != nil {
				return nil, err
			}
		}
	}
	return b.Finish()
}
