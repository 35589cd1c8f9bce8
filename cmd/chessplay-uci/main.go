package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"chessplaycore/internal/board"
	"chessplaycore/internal/config"
	"chessplaycore/internal/uci"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()
	board.Init()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	store, err := config.Open()
	if err != nil {
		log.Printf("warning: option store unavailable: %v (Hash/Threads will not persist)", err)
		store = nil
	} else {
		defer store.Close()
	}

	protocol := uci.New(os.Stdout, os.Stderr, store)
	protocol.Run(os.Stdin)
}
