// Package server implements the resolver's UDP receive loop: bind one
// datagram socket, decode each inbound packet into a pipeline run, and
// write back whatever response (or silence) the pipeline produces.
package server

import (
	"net"
	"sync"
	"time"

	"github.com/semihalev/log"

	"github.com/dnsresolver/coreresolver/resolver"
)

// maxDatagramSize is the buffer every receive reads into. EDNS0 is not
// supported, so anything larger is the kernel's problem, not ours.
const maxDatagramSize = 512

// Server binds one UDP/IPv4 socket and feeds every datagram through a
// pipeline. Each request runs on its own goroutine; the receive loop
// itself never blocks on pipeline work.
type Server struct {
	addr     string
	pipeline *resolver.Pipeline

	bufPool sync.Pool
}

// New returns a Server bound to addr (e.g. "0.0.0.0:53") that runs every
// inbound query through pipeline.
func New(addr string, pipeline *resolver.Pipeline) *Server {
	if addr == "" {
		addr = "0.0.0.0:53"
	}

	s := &Server{addr: addr, pipeline: pipeline}
	s.bufPool.New = func() interface{} {
		b := make([]byte, maxDatagramSize)
		return &b
	}

	return s
}

// Run opens the UDP socket and serves until the socket errors or stop is
// closed. It blocks, so callers run it in its own goroutine.
func (s *Server) Run(stop <-chan struct{}) error {
	conn, err := net.ListenPacket("udp4", s.addr)
	if err != nil {
		log.Error("listen failed", "addr", s.addr, "error", err.Error())
		return err
	}
	defer conn.Close()

	log.Info("resolver listening", "net", "udp", "addr", s.addr)

	go func() {
		<-stop
		conn.Close()
	}()

	for {
		bufp := s.bufPool.Get().(*[]byte)
		buf := *bufp

		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			s.bufPool.Put(bufp)
			select {
			case <-stop:
				return nil
			default:
				log.Error("read failed", "error", err.Error())
				return err
			}
		}

		datagram := make([]byte, n)
		copy(datagram, buf[:n])
		s.bufPool.Put(bufp)

		go s.handle(conn, from, datagram)
	}
}

func (s *Server) handle(conn net.PacketConn, from net.Addr, datagram []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered in handle", "addr", from.String(), "recover", r)
		}
	}()

	resp := s.pipeline.Resolve(datagram, time.Now())
	if resp == nil {
		return
	}

	if _, err := conn.WriteTo(resp, from); err != nil {
		log.Error("write failed", "addr", from.String(), "error", err.Error())
	}
}
