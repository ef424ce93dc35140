package main

import (
	"flag"
	"fmt"
	"log"

	contagion "github.com/kentwait/gillespiesir"
)

func main() {
	samplePtr := flag.Int("sample", 1000, "number of R0 estimation trials")
	seedPtr := flag.Int64("seed", 42, "random seed for trial sampling")
	tracePtr := flag.Bool("trace", false, "log the last trial's traced (source, target) transmissions")
	flag.Parse()

	configPath := flag.Arg(0)
	conf, err := contagion.LoadRunConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := conf.Validate(); err != nil {
		log.Fatal(err)
	}

	p, err := contagion.BuildProcess(conf)
	if err != nil {
		log.Fatal(err)
	}

	mean, std, err := p.EstimateR0(*samplePtr, *seedPtr, conf.SimParams.InitialRecovered)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("R0 mean=%f std=%f (n=%d)\n", mean, std, *samplePtr)

	if *tracePtr {
		logger, err := contagion.BuildLogger(conf, 1)
		if err != nil {
			log.Fatal(err)
		}
		if err := logger.Init(); err != nil {
			log.Fatal(err)
		}
		transmissions := p.Transmissions()
		ch := make(chan contagion.TransmissionLogEntry, len(transmissions))
		for _, ev := range transmissions {
			ch <- contagion.TransmissionLogEntry{RunID: p.RunID(), Source: ev.Source, Target: ev.Target}
		}
		close(ch)
		logger.WriteTransmissions(ch)
	}
}
