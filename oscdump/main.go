// oscdump listens on a UDP port and prints every OSC packet it receives.
// Point AbletonOSC's notification port at it to watch the raw traffic the
// mirror consumes.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hypebeast/go-osc/osc"
)

// dumper prints all messages and bundles as they are received.
type dumper struct{}

func (d *dumper) Dispatch(packet osc.Packet) {
	if packet == nil {
		return
	}
	printPacket(packet, 0)
}

func printPacket(packet osc.Packet, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	switch packet := packet.(type) {
	case *osc.Message:
		fmt.Printf("%s-- %s %v\n", indent, packet.Address, packet.Arguments)
	case *osc.Bundle:
		fmt.Printf("%s-- bundle (%s):\n", indent, packet.Timetag.Time())
		for _, message := range packet.Messages {
			printPacket(message, depth+1)
		}
		for _, bundle := range packet.Bundles {
			printPacket(bundle, depth+1)
		}
	default:
		fmt.Printf("%s-- unknown packet type\n", indent)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s PORT\n", os.Args[0])
}

func main() {
	if len(os.Args[1:]) != 1 {
		printUsage()
		os.Exit(1)
	}

	port, err := strconv.ParseInt(os.Args[1], 10, 32)
	if err != nil {
		fmt.Println(err)
		printUsage()
		os.Exit(1)
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	server := &osc.Server{Addr: addr, Dispatcher: &dumper{}}

	fmt.Println("### Starting oscdump")
	fmt.Printf("Listening via UDP on port %d...\n", port)

	if err := server.ListenAndServe(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
