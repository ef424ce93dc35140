package main

import (
	"flag"
	"log"
	"runtime"
	"sync"
	"time"

	contagion "github.com/kentwait/gillespiesir"
)

func main() {
	numCPUPtr := flag.Int("threads", runtime.NumCPU(), "number of CPU threads")
	durationPtr := flag.Float64("duration", 100, "time units to evolve each replicate")
	flag.Parse()

	runtime.GOMAXPROCS(*numCPUPtr)

	configPath := flag.Arg(0)
	conf, err := contagion.LoadRunConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := conf.Validate(); err != nil {
		log.Fatal(err)
	}

	firstStart := time.Now()
	var wg sync.WaitGroup
	for i := 1; i <= conf.SimParams.NumReplicates; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := time.Now()
			logger, err := contagion.BuildLogger(conf, i)
			if err != nil {
				log.Fatal(err)
			}
			if err := logger.Init(); err != nil {
				log.Fatal(err)
			}
			p, err := contagion.BuildProcess(conf)
			if err != nil {
				log.Fatal(err)
			}
			p.Evolve(*durationPtr)

			seriesCh := make(chan contagion.SeriesLogEntry, len(p.TimeSeries()))
			for _, pt := range p.TimeSeries() {
				seriesCh <- contagion.SeriesLogEntry{RunID: p.RunID(), Time: pt.Time, Infected: pt.Infected, Recovered: pt.Recovered}
			}
			close(seriesCh)
			logger.WriteSeries(seriesCh)

			log.Printf("finished replicate %03d in %s\n", i, time.Since(start))
		}(i)
	}
	wg.Wait()
	log.Printf("completed all replicates in %s.", time.Since(firstStart))
}
