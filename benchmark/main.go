package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/yangl1996/ibf/ibf"
)

const testSymbolSize = 32

func testSymbols(n int) [][]byte {
	fmt.Println("allocating memory")
	data := make([][]byte, n)
	for i := 0; i < n; i++ {
		data[i] = make([]byte, testSymbolSize)
		binary.LittleEndian.PutUint64(data[i][0:8], uint64(i))
		if i%100000 == 0 {
			fmt.Println(i, "symbols created")
		}
	}
	return data
}

func main() {
	nlocal := flag.Int("local", 0, "number of elements only the local side holds")
	nremote := flag.Int("remote", 384010, "number of elements only the remote side holds")
	ncommon := flag.Int("common", 0, "number of elements both sides hold")
	ratio := flag.Float64("r", 1.5, "cells per differing element")
	flag.Parse()

	fmt.Println("preparing data")
	data := testSymbols(*nlocal + *nremote + *ncommon)
	cells := int(*ratio * float64(*nlocal+*nremote))
	local := ibf.New(cells, testSymbolSize)
	remote := ibf.New(cells, testSymbolSize)

	start := time.Now()
	nextId := 0
	insert := func(f *ibf.Filter) {
		if err := f.Insert(data[nextId]); err != nil {
			log.Fatalln(err)
		}
	}
	for i := 0; i < *nlocal; i++ {
		insert(local)
		nextId += 1
	}
	for i := 0; i < *nremote; i++ {
		insert(remote)
		nextId += 1
	}
	for i := 0; i < *ncommon; i++ {
		insert(local)
		insert(remote)
		nextId += 1
	}
	insertDur := time.Since(start)

	start = time.Now()
	if err := local.Subtract(remote); err != nil {
		log.Fatalln(err)
	}
	res := local.Decode()
	decodeDur := time.Since(start)

	ndiff := *nremote + *nlocal
	recovered := len(res.Local) + len(res.Remote)
	fmt.Printf("%d cells, %d of %d recovered, complete %v\n", cells, recovered, ndiff, res.Complete)
	fmt.Printf("insert %.2f seconds, decode %.2f seconds, %.2f diff/s\n", insertDur.Seconds(), decodeDur.Seconds(), float64(recovered)/decodeDur.Seconds())
}
