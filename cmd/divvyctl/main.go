// Command divvyctl is a manual exercise tool for a running divvyd: it
// dials the TCP protocol, sends one HIT built from key=value operands, and
// prints the parsed reply.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
)

type options struct {
	Addr string `long:"addr" description:"divvyd address to connect to" default:"127.0.0.1:7000" value-name:"host:port"`
}

type positional struct {
	Args struct {
		Labels []string `positional-arg-name:"key=value" description:"HIT operation labels"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options
	var pos positional
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[options] key=value [key=value...]"
	if err := parser.AddGroup("Positional Arguments", "", &pos); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if _, err := parser.ParseArgs(args); err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		return 1
	}

	if len(pos.Args.Labels) == 0 {
		fmt.Fprintln(os.Stderr, "No key=value labels given.")
		parser.WriteHelp(os.Stderr)
		return 1
	}

	conn, err := net.Dial("tcp", opts.Addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", opts.Addr, err)
		return 1
	}
	defer conn.Close()

	line := "HIT " + strings.Join(pos.Args.Labels, " ") + "\n"
	if _, err := conn.Write([]byte(line)); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		return 1
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		return 1
	}

	fmt.Print(reply)
	if strings.HasPrefix(reply, "ERR") {
		return 1
	}
	return 0
}
