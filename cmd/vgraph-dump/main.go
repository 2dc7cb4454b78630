// Command vgraph-dump loads a GFA1 file and prints its exact, bit-for-bit
// serialized test fixture dump to stdout, for regression baselines.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/gaissmai/vgraph/gfa"
	"github.com/gaissmai/vgraph/testfixture"
	"github.com/gaissmai/vgraph/vgraph"
)

func main() {
	log.SetFlags(log.Lmicroseconds)
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		log.Fatal("usage: vgraph-dump <file.gfa>")
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("vgraph-dump: %v", err)
	}
	defer f.Close()

	g, err := gfa.Load(f)
	if err != nil {
		log.Fatalf("vgraph-dump: %v", err)
	}

	if report := vgraph.Validate(g); !report.OK() {
		log.Printf("vgraph-dump: validation found issues:\n%s", report)
	}

	os.Stdout.WriteString(testfixture.Dump(g).String())
}
