package contagiongo

import "math/rand"

// QSProcess wraps a Process with a fixed-size reservoir of past live
// configurations and reflects the process off absorbing states by
// replacing the current configuration with one drawn uniformly from the
// reservoir, approximating quasi-stationary dynamics.
type QSProcess struct {
	process *Process

	history       []*Configuration
	historySize   int
	updateRate    float64
	reservoirRand *rand.Rand
}

// NewQSProcess wraps process with a reservoir of historySize configurations,
// refreshed at rate updateRate (expected inter-save time 1/updateRate).
func NewQSProcess(process *Process, historySize int, updateRate float64) *QSProcess {
	if historySize < 1 {
		historySize = 1
	}
	return &QSProcess{
		process:       process,
		historySize:   historySize,
		updateRate:    updateRate,
		reservoirRand: rand.New(rand.NewSource(1)),
	}
}

// SetUpdateHistoryRate changes the reservoir refresh rate.
func (q *QSProcess) SetUpdateHistoryRate(rate float64) {
	q.updateRate = rate
}

func (q *QSProcess) initializeHistory() {
	snapshot := q.process.Engine().Configuration()
	q.history = make([]*Configuration, q.historySize)
	for i := range q.history {
		q.history[i] = snapshot
	}
}

// InitializeRandom delegates to the wrapped Process then fills the
// reservoir with copies of the resulting configuration.
func (q *QSProcess) InitializeRandom(fraction float64, seed int64) error {
	if err := q.process.InitializeRandom(fraction, seed); err != nil {
		return err
	}
	q.initializeHistory()
	return nil
}

// Initialize delegates to the wrapped Process then fills the reservoir with
// copies of the resulting configuration.
func (q *QSProcess) Initialize(infectedSet, recoveredSet []int, seed *int64) error {
	if err := q.process.Initialize(infectedSet, recoveredSet, seed); err != nil {
		return err
	}
	q.initializeHistory()
	return nil
}

// Reset clears the wrapped process and the reservoir.
func (q *QSProcess) Reset() {
	q.process.Reset()
	q.history = nil
}

// Evolve advances the process for duration time units. Independently of the
// normal event stream, it periodically snapshots the current configuration
// into a uniformly chosen reservoir slot (overwriting whatever was there,
// equivalent to the reference implementation's swap-pop-push), and whenever
// the engine would otherwise become absorbed, replaces the current
// configuration with one drawn uniformly from the reservoir instead.
func (q *QSProcess) Evolve(duration float64) {
	p := q.process
	e := p.engine
	start := p.elapsed
	nextSave := p.elapsed + p.sampler.Lifetime(q.updateRate)

	for p.elapsed-start < duration {
		total := e.Tree().Total()
		dt := p.sampler.Lifetime(total)

		if p.elapsed+dt >= nextSave && !e.IsAbsorbed() {
			p.elapsed = nextSave
			q.saveToReservoir()
			nextSave = p.elapsed + p.sampler.Lifetime(q.updateRate)
			continue
		}

		p.elapsed += dt
		p.sampler.Step(e, nil)
		p.series = append(p.series, SeriesPoint{
			Time:      p.elapsed,
			Infected:  e.InfectedCount(),
			Recovered: e.RecoveredCount(),
		})

		if e.IsAbsorbed() {
			q.reflectFromReservoir()
		}
	}
}

func (q *QSProcess) saveToReservoir() {
	slot := int(q.reservoirRand.Float64() * float64(len(q.history)))
	if slot >= len(q.history) {
		slot = len(q.history) - 1
	}
	q.history[slot] = q.process.Engine().Configuration()
}

func (q *QSProcess) reflectFromReservoir() {
	slot := int(q.reservoirRand.Float64() * float64(len(q.history)))
	if slot >= len(q.history) {
		slot = len(q.history) - 1
	}
	q.process.Engine().Restore(q.history[slot])
}

// The following operations are explicitly not meaningful for a QSProcess:
// the quasi-stationary reflection makes a single time series, R0 estimate,
// or final-size sample ill-defined.

func (q *QSProcess) SetTracing(bool) error {
	return NewUnsupportedError("SetTracing is not supported on QSProcess")
}

func (q *QSProcess) NextState() error {
	return NewUnsupportedError("NextState is not supported on QSProcess")
}

func (q *QSProcess) TimeSeries() ([]SeriesPoint, error) {
	return nil, NewUnsupportedError("TimeSeries is not supported on QSProcess")
}

func (q *QSProcess) EstimateR0(int, int64, []int) (float64, float64, error) {
	return 0, 0, NewUnsupportedError("EstimateR0 is not supported on QSProcess")
}

func (q *QSProcess) FinalSizeSample(int, int64, float64) ([]float64, error) {
	return nil, NewUnsupportedError("FinalSizeSample is not supported on QSProcess")
}
