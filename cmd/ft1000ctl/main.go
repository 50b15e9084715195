package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dougsko/ft1000cat/pkg/client"
	"github.com/dougsko/ft1000cat/pkg/protocol"
	"github.com/dougsko/ft1000cat/pkg/trace"
)

var (
	server = flag.String("server", "http://127.0.0.1:8073", "ft1000catd address")
)

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		showHelp()
		return
	}

	c := client.NewClient(*server)
	result, err := run(c, args, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if result != nil {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
	}
}

// run executes one command. Results meant for JSON output are returned;
// streaming commands write to out directly.
func run(c *client.Client, args []string, out io.Writer) (interface{}, error) {
	cmd := strings.ToLower(args[0])
	rest := args[1:]

	need := func(n int) error {
		if len(rest) != n {
			return fmt.Errorf("%s takes %d argument(s), see -help", cmd, n)
		}
		return nil
	}

	switch cmd {
	case "info":
		return c.Info()
	case "status":
		return c.Status()
	case "both":
		return c.BothStatus()
	case "flags":
		return c.Flags()

	case "freq":
		if err := need(2); err != nil {
			return nil, err
		}
		hz, err := strconv.Atoi(rest[1])
		if err != nil {
			return nil, fmt.Errorf("bad frequency %q", rest[1])
		}
		return nil, c.SetFrequency(rest[0], hz)

	case "mode":
		if err := need(2); err != nil {
			return nil, err
		}
		return nil, c.SetMode(rest[0], rest[1])

	case "vfo":
		if err := need(1); err != nil {
			return nil, err
		}
		return nil, c.SelectVFO(rest[0])

	case "copy":
		return nil, c.CopyVFO()

	case "split", "clar", "ptt":
		if err := need(1); err != nil {
			return nil, err
		}
		on, err := parseOnOff(rest[0])
		if err != nil {
			return nil, err
		}
		switch cmd {
		case "split":
			return nil, c.SetSplit(on)
		case "clar":
			return nil, c.SetClarifier(on)
		default:
			return nil, c.SetPTT(on)
		}

	case "offset":
		if err := need(1); err != nil {
			return nil, err
		}
		hz, err := strconv.Atoi(rest[0])
		if err != nil {
			return nil, fmt.Errorf("bad offset %q", rest[0])
		}
		return nil, c.SetClarifierOffset(hz)

	case "recall", "store", "transfer":
		if err := need(1); err != nil {
			return nil, err
		}
		ch, err := strconv.Atoi(rest[0])
		if err != nil {
			return nil, fmt.Errorf("bad channel %q", rest[0])
		}
		return nil, c.Memory(cmd, ch)

	case "watch":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return nil, c.Watch(ctx, func(st client.BothStatus) bool {
			if st.Error != "" {
				fmt.Fprintf(out, "%s  error: %s\n", st.Time.Format("15:04:05"), st.Error)
				return true
			}
			fmt.Fprintf(out, "%s  %11d %-7s | %11d %-7s\n", st.Time.Format("15:04:05"),
				st.Active.Frequency, st.Active.ModeName,
				st.Inactive.Frequency, st.Inactive.ModeName)
			return true
		})

	case "trace":
		if err := need(1); err != nil {
			return nil, err
		}
		return nil, printTrace(out, rest[0])

	case "ping":
		if err := c.Ping(); err != nil {
			return nil, err
		}
		return map[string]bool{"ok": true}, nil
	}

	return nil, fmt.Errorf("unknown command %q, see -help", cmd)
}

// printTrace writes one line per event in a trace capture
func printTrace(out io.Writer, path string) error {
	events, err := trace.ReadFile(path)
	for _, ev := range events {
		session := ev.Session
		if len(session) > 8 {
			session = session[:8]
		}
		fmt.Fprintf(out, "%s %s %s %-14s #%d %-7s % X\n",
			ev.Timestamp.Format("15:04:05.000"), session, ev.Direction,
			protocol.Opcode(ev.Opcode), ev.Attempt, ev.Outcome, ev.Data)
	}
	return err
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func showHelp() {
	fmt.Println("ft1000ctl - FT-1000MP CAT Daemon Control Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options] <command> [args]\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -server <url>        Daemon address (default: http://127.0.0.1:8073)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  info                 Daemon and radio description")
	fmt.Println("  status               Active VFO")
	fmt.Println("  both                 Both VFOs, active first")
	fmt.Println("  flags                Status flags")
	fmt.Println("  freq <A|B> <hz>      Set VFO frequency")
	fmt.Println("  mode <A|B> <mode>    Set VFO mode (LSB USB CW AM FM RTTY PKT)")
	fmt.Println("  vfo <A|B>            Select active VFO")
	fmt.Println("  copy                 Copy VFO-A to VFO-B")
	fmt.Println("  split <on|off>       Split operation")
	fmt.Println("  clar <on|off>        Clarifier")
	fmt.Println("  offset <hz>          Clarifier offset (+/-9990)")
	fmt.Println("  ptt <on|off>         Transmit")
	fmt.Println("  recall <ch>          Recall memory channel (1-99)")
	fmt.Println("  store <ch>           Store active VFO to channel")
	fmt.Println("  transfer <ch>        Copy channel to active VFO")
	fmt.Println("  watch                Stream status until interrupted")
	fmt.Println("  trace <file>         Print a CAT trace capture")
	fmt.Println("  ping                 Test connection")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s freq A 14074000\n", os.Args[0])
	fmt.Printf("  %s mode B cw\n", os.Args[0])
	fmt.Printf("  %s -server http://shack:8073 watch\n", os.Args[0])
}
