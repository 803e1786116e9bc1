package main

import (
	"flag"
	"log"
	"math/rand"
	"net"
	"time"

	"github.com/yangl1996/ibf/workload"
)

func saltFromSeed(seed int64) [workload.SaltSize]byte {
	var salt [workload.SaltSize]byte
	rand.New(rand.NewSource(seed)).Read(salt[:])
	return salt
}

// elementSet derives the common elements every node shares followed by the
// elements unique to this node.
func elementSet(keysize, common, unique int, commonSeed, id int64) [][]byte {
	set := make([][]byte, 0, common+unique)
	cg := workload.NewGenerator(keysize, saltFromSeed(commonSeed))
	for i := 0; i < common; i++ {
		set = append(set, cg.Next())
	}
	ug := workload.NewGenerator(keysize, saltFromSeed(id))
	for i := 0; i < unique; i++ {
		set = append(set, ug.Next())
	}
	return set
}

func main() {
	addr := flag.String("l", "", "address to listen, empty to not listen")
	conn := flag.String("p", "", "address of the peer to reconcile with")
	K := flag.Int("k", 32, "element size in bytes")
	common := flag.Int("s", 1000, "number of elements common to all nodes")
	unique := flag.Int("x", 10, "number of elements unique to this node")
	commonSeed := flag.Int64("salt", 1, "seed of the common element generator")
	id := flag.Int64("id", 2, "seed of this node's unique element generator, must differ between nodes")
	cells := flag.Int("cells", 32, "initial filter size in cells")
	maxCells := flag.Int("max", 1<<20, "largest filter size to send or accept, in cells")
	compress := flag.Bool("zstd", false, "compress filters sent to the peer")
	flag.Parse()

	if *commonSeed == *id {
		log.Fatalln("common and unique seeds must differ")
	}
	set := elementSet(*K, *common, *unique, *commonSeed, *id)
	log.Printf("holding %d elements of %d bytes\n", len(set), *K)

	if *addr != "" {
		l, err := net.Listen("tcp", *addr)
		if err != nil {
			log.Fatalln("failed to listen:", err)
		}
		go func() {
			for {
				cn, err := l.Accept()
				if err != nil {
					log.Println("error accepting incoming connection:", err)
					continue
				}
				go func(cn net.Conn) {
					defer cn.Close()
					r := newResponder(cn.RemoteAddr().String(), cn, set, *K, *maxCells)
					if err := r.serve(); err != nil {
						log.Println("error serving peer:", err)
					}
				}(cn)
			}
		}()
		log.Println("listening on", *addr)
	}

	if *conn == "" {
		if *addr == "" {
			log.Fatalln("nothing to do: set -l, -p, or both")
		}
		select {}
	}

	var cn net.Conn
	var err error
	for {
		cn, err = net.Dial("tcp", *conn)
		if err != nil {
			log.Println("error connecting:", err)
			time.Sleep(time.Duration(1 * time.Second))
		} else {
			break
		}
	}
	defer cn.Close()

	r := newRequester(cn, set, *K, *cells, *maxCells, *compress)
	out, err := r.reconcile()
	if err != nil {
		log.Fatalln("reconciliation failed:", err)
	}
	qts, err := r.rtt.GetValuesAtQuantiles([]float64{0.50, 0.95})
	if err != nil {
		qts = []float64{-1, -1}
	}
	log.Printf("decoded with %d cells after %d rounds: missing %d, peer wants %d, rtt us median %.1f p95 %.1f\n",
		out.Cells, out.Rounds, len(out.Missing), out.Wanted, qts[0], qts[1])
	if *addr != "" {
		select {}
	}
}
