package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stylegraph/domain/graph"
	"stylegraph/interfaces/render"
	"stylegraph/pkg/observability"
)

type captureSink struct {
	mu     sync.Mutex
	frames int
}

func (s *captureSink) SendFrame(_ []byte) {
	s.mu.Lock()
	s.frames++
	s.mu.Unlock()
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func layoutSnapshot(t *testing.T) *graph.Snapshot {
	t.Helper()
	nodes := []*graph.Node{
		{ID: "a", Value: 0.5, Hint: graph.HintPagerank},
		{ID: "b", Value: 0.2},
		{ID: "c", Value: 0.1},
	}
	links := []graph.Link{
		{SourceID: "a", TargetID: "b", SimilarityScore: 3},
	}
	s, dropped := graph.NewSnapshot(nodes, links)
	require.Zero(t, dropped)
	return s
}

func newVisualizer(sink FrameSink) *Visualizer {
	return NewVisualizer(
		render.NewSurface(800, 600),
		sink,
		time.Millisecond,
		observability.NewCollector("test"),
		zap.NewNop(),
	)
}

func waitSettled(t *testing.T, v *Visualizer) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for v.Running() {
		if time.Now().After(deadline) {
			t.Fatal("layout session did not settle in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestVisualizer_RunsToSettled(t *testing.T) {
	sink := &captureSink{}
	v := newVisualizer(sink)
	snapshot := layoutSnapshot(t)

	v.Start(snapshot, nil)
	waitSettled(t, v)

	assert.Greater(t, sink.count(), 0, "frames were pushed during the session")

	// Classification ran as part of session start.
	assert.Equal(t, graph.RolePagerank, snapshot.Nodes[0].Role)
	assert.Equal(t, graph.RoleConnected, snapshot.Nodes[1].Role)
	assert.Equal(t, graph.RoleOther, snapshot.Nodes[2].Role)
}

func TestVisualizer_StartReplacesSession(t *testing.T) {
	sink := &captureSink{}
	v := newVisualizer(sink)

	v.Start(layoutSnapshot(t), nil)
	v.Start(layoutSnapshot(t), []string{"b"})
	waitSettled(t, v)

	// The second Start returned only after the first loop exited, so no
	// frames race here.
	assert.Greater(t, sink.count(), 0)
}

func TestVisualizer_Stop(t *testing.T) {
	v := newVisualizer(&captureSink{})

	v.Start(layoutSnapshot(t), nil)
	v.Stop()
	assert.False(t, v.Running())

	// Stop on an idle visualizer is a no-op.
	v.Stop()
}

func TestVisualizer_FrameAndHover(t *testing.T) {
	v := newVisualizer(&captureSink{})
	snapshot := layoutSnapshot(t)

	v.Start(snapshot, nil)
	waitSettled(t, v)

	frame := v.Frame()
	assert.Contains(t, frame, "<svg")
	assert.Contains(t, frame, `data-id="a"`)

	// Hover directly over node a's settled position.
	n := snapshot.Nodes[0]
	vp := v.Surface().Viewport()
	hit := v.Hover(n.X*vp.Scale+vp.TranslateX, n.Y*vp.Scale+vp.TranslateY)
	require.NotNil(t, hit)
	assert.Equal(t, "a", hit.ID)
}

func TestVisualizer_FrameWithoutSession(t *testing.T) {
	v := newVisualizer(&captureSink{})
	assert.Contains(t, v.Frame(), "no data")
}

// Readers may pull frames, hit-test and poll settledness while the run
// loop is stepping. Run under the race detector this exercises the
// stepper against every concurrent reader.
func TestVisualizer_ConcurrentReadsDuringRun(t *testing.T) {
	sink := &captureSink{}
	v := newVisualizer(sink)

	v.Start(layoutSnapshot(t), nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v.Running() {
				frame := v.Frame()
				assert.Contains(t, frame, "<svg")
				v.Hover(1, 1)
			}
		}()
	}

	waitSettled(t, v)
	wg.Wait()

	assert.Greater(t, sink.count(), 0)
}
