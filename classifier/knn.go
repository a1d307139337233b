package classifier

import (
	"math"
)

// spacingFactor drops every spacingFactor-th window index from neighbor
// admission so the set is not dominated by temporally adjacent, highly
// correlated bars.
const spacingFactor = 4

// Distance returns the Lorentzian distance Σ log(1+|aᵢ-bᵢ|) between two
// feature vectors. The log tail makes single outlier bars count far less
// than they would under a Euclidean metric.
func Distance(a, b FeatureVector) float64 {
	d := 0.0
	for i := range a {
		d += math.Log(1 + math.Abs(a[i]-b[i]))
	}
	return d
}

// NeighborSet holds the selected neighbor distances and their predicted
// labels as two parallel FIFO sequences capped at the configured neighbor
// count. It persists across bars: it is never wholesale-cleared, only
// incrementally trimmed. That persistence is a correctness invariant of the
// model, not an optimization.
type NeighborSet struct {
	distances   []float64
	predictions []float64
}

func (n *NeighborSet) Len() int {
	return len(n.predictions)
}

func (n *NeighborSet) push(d, label float64) {
	n.distances = append(n.distances, d)
	n.predictions = append(n.predictions, label)
}

func (n *NeighborSet) trimOldest() {
	n.distances = n.distances[1:]
	n.predictions = n.predictions[1:]
}

// Sum returns the sum of the held predicted labels; its sign is the
// directional bias, its magnitude the neighbor agreement strength.
func (n *NeighborSet) Sum() float64 {
	s := 0.0
	for _, p := range n.predictions {
		s += p
	}
	return s
}

// Classifier runs the per-bar admission scan over a FeatureWindow and owns
// the persistent NeighborSet.
type Classifier struct {
	window    *FeatureWindow
	neighbors NeighborSet
	count     int
}

// New constructs a classifier over a window of maxBarsBack entries with
// training labels resolved horizon bars after insertion. Parameter sanity is
// the caller's responsibility (validated at settings construction).
func New(neighborsCount, maxBarsBack, horizon int) *Classifier {
	return &Classifier{
		window: NewFeatureWindow(maxBarsBack, horizon),
		count:  neighborsCount,
	}
}

func (c *Classifier) Window() *FeatureWindow {
	return c.window
}

func (c *Classifier) Neighbors() *NeighborSet {
	return &c.neighbors
}

// Step processes one bar: resolve the training label now due, fold the new
// observation into the window, and, once warm-up is complete, run the
// admission scan and return the prediction. ok is false until the window is
// full; a zero prediction with ok=true is a real (balanced) prediction and
// must not be conflated with warm-up.
func (c *Classifier) Step(vec FeatureVector, close float64) (prediction float64, ok bool) {
	c.window.ResolveLabel(close)
	c.window.Append(vec, close)
	if !c.window.Full() {
		return 0, false
	}
	return c.scan(vec), true
}

// scan iterates the window oldest to newest and admits neighbor candidates
// under the monotonic-distance rule: a candidate is admitted only when its
// distance is at least the last admitted distance, its window index is not a
// multiple of the spacing factor, and its label is already resolved. Once
// the set exceeds capacity the admission threshold is raised to the distance
// near the upper quartile of the held set and the oldest neighbor is
// evicted, so admission gets progressively more selective within one scan.
func (c *Classifier) scan(current FeatureVector) float64 {
	lastDistance := -1.0
	upperQuartile := int(math.Round(float64(c.count) * 3 / 4))

	for i := 0; i < c.window.Len(); i++ {
		if i%spacingFactor == 0 {
			continue
		}
		e := c.window.At(i)
		if !e.Labeled {
			continue
		}
		d := Distance(current, e.Vec)
		if d < lastDistance {
			continue
		}
		lastDistance = d
		c.neighbors.push(d, float64(e.Label))
		if c.neighbors.Len() > c.count {
			lastDistance = c.neighbors.distances[upperQuartile]
			c.neighbors.trimOldest()
		}
	}
	return c.neighbors.Sum()
}

// State is the serializable state of a Classifier.
type State struct {
	Window      WindowState `json:"window"`
	Distances   []float64   `json:"distances"`
	Predictions []float64   `json:"predictions"`
}

func (c *Classifier) State() State {
	return State{
		Window:      c.window.State(),
		Distances:   append([]float64(nil), c.neighbors.distances...),
		Predictions: append([]float64(nil), c.neighbors.predictions...),
	}
}

func (c *Classifier) Restore(s State) {
	c.window.Restore(s.Window)
	c.neighbors.distances = append([]float64(nil), s.Distances...)
	c.neighbors.predictions = append([]float64(nil), s.Predictions...)
}
