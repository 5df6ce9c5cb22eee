// pktscope - KSvrComm Packet Log Latency Analyzer
//
// pktscope reconstructs request timelines from server packet logs and
// reports per-request, per-function and per-interval latency.
package main

import (
	"os"

	"github.com/ccollicutt/pktscope/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
