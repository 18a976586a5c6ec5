// Command kcpecho is a small demo exercising the kcp Engine over real UDP
// sockets: an echo-server subcommand that bounces back whatever it
// receives, and an echo-client subcommand that sends timestamped messages
// and reports round-trip time.
package main

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/golang/snappy"
	"github.com/rs/xid"
	"github.com/urfave/cli"

	"github.com/arqnet/kcp"
	"github.com/arqnet/kcp/simnet"
)

func main() {
	app := cli.NewApp()
	app.Name = "kcpecho"
	app.Usage = "exercise the kcp Engine over UDP"
	app.Commands = []cli.Command{
		{
			Name:  "echo-server",
			Usage: "listen and bounce back received messages",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "listen", Value: "127.0.0.1:5201"},
				cli.BoolFlag{Name: "compress"},
				cli.IntFlag{Name: "mtu", Value: 1400},
			},
			Action: runServer,
		},
		{
			Name:  "echo-client",
			Usage: "send messages and report round-trip time",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "connect", Value: "127.0.0.1:5201"},
				cli.BoolFlag{Name: "compress"},
				cli.IntFlag{Name: "mtu", Value: 1400},
				cli.IntFlag{Name: "count", Value: 10},
			},
			Action: runClient,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEngine(conv uint32, mtu int, output kcp.Output) *kcp.Engine {
	e := kcp.New(conv, output)
	e.NoDelay(1, 10, 2, 1)
	_ = e.SetMTU(mtu)
	e.SetLogger(slog.Default())
	return e
}

func runServer(c *cli.Context) error {
	addr, err := net.ResolveUDPAddr("udp", c.String("listen"))
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	sessionID := xid.New()
	var peer *net.UDPAddr
	engine := newEngine(0, c.Int("mtu"), func(datagram []byte) error {
		if peer == nil {
			return nil
		}
		_, err := conn.WriteToUDP(datagram, peer)
		return err
	})
	compress := c.Bool("compress")
	slog.Info("echo-server listening", "addr", c.String("listen"), "session", sessionID.String())

	start := time.Now()
	buf := make([]byte, 65536)
	msg := make([]byte, 65536)
	for {
		now := uint32(time.Since(start).Milliseconds())
		engine.Update(now)
		wait := time.Duration(engine.Check(now)) * time.Millisecond
		if wait <= 0 {
			wait = time.Millisecond
		}
		n, addr, err := simnet.ReadPacket(conn, buf, wait)
		if err != nil {
			if simnet.IsTimeout(err) {
				continue
			}
			return err
		}
		peer = addr
		if err := engine.Input(buf[:n]); err != nil {
			slog.Warn("dropped datagram", "err", err)
			continue
		}
		for {
			sz, err := engine.Receive(msg)
			if err != nil {
				break
			}
			payload := msg[:sz]
			if compress {
				var derr error
				payload, derr = snappy.Decode(nil, payload)
				if derr != nil {
					slog.Warn("decompress failed", "err", derr)
					continue
				}
			}
			out := payload
			if compress {
				out = snappy.Encode(nil, payload)
			}
			if err := engine.Send(out); err != nil {
				slog.Warn("echo send failed", "err", err)
			}
		}
	}
}

func runClient(c *cli.Context) error {
	addr, err := net.ResolveUDPAddr("udp", c.String("connect"))
	if err != nil {
		return err
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	compress := c.Bool("compress")
	engine := newEngine(0, c.Int("mtu"), func(datagram []byte) error {
		_, err := conn.Write(datagram)
		return err
	})

	start := time.Now()
	count := c.Int("count")
	sent := make(map[uint32]time.Time, count)
	buf := make([]byte, 65536)
	msg := make([]byte, 65536)
	received := 0

	for i := 0; i < count; i++ {
		now := uint32(time.Since(start).Milliseconds())
		payload := make([]byte, 8)
		binary.LittleEndian.PutUint32(payload[0:4], uint32(i))
		binary.LittleEndian.PutUint32(payload[4:8], now)
		out := payload
		if compress {
			out = snappy.Encode(nil, out)
		}
		sent[uint32(i)] = time.Now()
		if err := engine.Send(out); err != nil {
			return err
		}
	}

	for received < count {
		now := uint32(time.Since(start).Milliseconds())
		engine.Update(now)
		wait := time.Duration(engine.Check(now)) * time.Millisecond
		if wait <= 0 {
			wait = time.Millisecond
		}
		n, _, err := simnet.ReadPacket(conn, buf, wait)
		if err != nil {
			if simnet.IsTimeout(err) {
				continue
			}
			return err
		}
		if err := engine.Input(buf[:n]); err != nil {
			slog.Warn("dropped datagram", "err", err)
			continue
		}
		for {
			sz, err := engine.Receive(msg)
			if err != nil {
				break
			}
			payload := msg[:sz]
			if compress {
				payload, err = snappy.Decode(nil, payload)
				if err != nil {
					slog.Warn("decompress failed", "err", err)
					continue
				}
			}
			idx := binary.LittleEndian.Uint32(payload[0:4])
			if t0, ok := sent[idx]; ok {
				fmt.Printf("message %d round-trip %s\n", idx, time.Since(t0))
			}
			received++
		}
	}
	return nil
}
