package flyingedges

import "github.com/soypat/flyingedges/internal/parallel"

// Config tunes how an Extractor runs. The zero value is ready to use.
type Config struct {
	// Workers is the number of goroutines used by each pass.
	// 0 or negative uses GOMAXPROCS.
	Workers int
	// Classifier runs pass 1. If nil a CPUClassifier is used.
	Classifier EdgeClassifier

	// shuffleSeed, when non-zero, hands out units of work in a permuted
	// order. Tests use it to check scheduling independence.
	shuffleSeed int64
}

func (cfg *Config) dispatcher() parallel.Dispatcher {
	if cfg.shuffleSeed != 0 {
		return parallel.Shuffled(cfg.Workers, cfg.shuffleSeed)
	}
	return parallel.New(cfg.Workers)
}

func (cfg *Config) classifier(sched parallel.Dispatcher) EdgeClassifier {
	if cfg.Classifier != nil {
		return cfg.Classifier
	}
	return &CPUClassifier{Workers: cfg.Workers, sched: &sched}
}
