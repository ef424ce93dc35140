package main

import (
	"flag"
	"log"

	contagion "github.com/kentwait/gillespiesir"
)

func main() {
	samplePtr := flag.Int("sample", 1000, "number of final-size sampling trials")
	seedPtr := flag.Int64("seed", 42, "random seed for trial sampling")
	thresholdPtr := flag.Float64("threshold", 1e-4, "minimum final-size fraction to record")
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

	sizes, err := p.FinalSizeSample(*samplePtr, *seedPtr, *thresholdPtr)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := contagion.BuildLogger(conf, 1)
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	ch := make(chan contagion.FinalSizeLogEntry, len(sizes))
	for _, s := range sizes {
		ch <- contagion.FinalSizeLogEntry{RunID: p.RunID(), FinalSize: s}
	}
	close(ch)
	logger.WriteFinalSizes(ch)
}
