package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/zeu5/mdp-dp/dp"
	"github.com/zeu5/mdp-dp/mdp"
)

func testStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := New(DefaultConfig(), WithAddress(mr.Addr()), WithKeyPrefix("test:"), WithTTL(ttl))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func sampleResult(alg dp.Algorithm, iterations int) *dp.Result {
	return &dp.Result{
		Algorithm:  alg,
		Values:     mdp.ValueFunction{"A": 10, "B": 0},
		Policy:     mdp.Policy{"A": "Stay", "B": "Stay"},
		Iterations: iterations,
		Sweeps:     iterations,
		Deltas:     []float64{1, 0.5},
		Duration:   3 * time.Millisecond,
	}
}

func TestSaveLoad(t *testing.T) {
	s, mr := testStore(t, 0)
	ctx := context.Background()

	id, err := s.Save(ctx, "geometric", sampleResult(dp.AlgorithmValueIteration, 12))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !mr.Exists("test:run:" + id) {
		t.Errorf("key test:run:%s missing", id)
	}

	run, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if run.ID != id || run.Model != "geometric" {
		t.Errorf("run = %+v", run)
	}
	res := run.Result
	if res.Algorithm != dp.AlgorithmValueIteration || res.Values["A"] != 10 || res.Policy["B"] != "Stay" || res.Duration != 3*time.Millisecond {
		t.Errorf("result = %+v", res)
	}

	if _, err := s.Load(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(nope) error = %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s, _ := testStore(t, 0)
	ctx := context.Background()

	first, err := s.Save(ctx, "one", sampleResult(dp.AlgorithmPolicyIteration, 2))
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	second, err := s.Save(ctx, "two", sampleResult(dp.AlgorithmValueIteration, 40))
	if err != nil {
		t.Fatal(err)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != second || all[1].ID != first {
		t.Fatalf("List() = %+v", all)
	}
	if all[0].Algorithm != dp.AlgorithmValueIteration || all[0].Iterations != 40 {
		t.Errorf("summary = %+v", all[0])
	}

	one, err := s.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].ID != second {
		t.Errorf("List(1) = %+v", one)
	}

	if err := s.Delete(ctx, second); err != nil {
		t.Fatal(err)
	}
	if left, _ := s.List(ctx, 0); len(left) != 1 || left[0].ID != first {
		t.Errorf("after Delete: %+v", left)
	}
}

func TestExpiredRunsLeaveIndex(t *testing.T) {
	s, mr := testStore(t, time.Minute)
	ctx := context.Background()

	id, err := s.Save(ctx, "short", sampleResult(dp.AlgorithmPolicyIteration, 1))
	if err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := s.Load(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after expiry error = %v", err)
	}
	runs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("List() = %+v", runs)
	}
	if members, _ := mr.ZMembers("test:runs"); len(members) != 0 {
		t.Errorf("index still has %v", members)
	}
}

func TestConnectionFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(DefaultConfig(), WithAddress(addr), func(c *Config) { c.DialTimeout = 200 * time.Millisecond })
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("New() error = %v", err)
	}
}

func TestKeys(t *testing.T) {
	s := NewFromClient(redis.NewClient(&redis.Options{}), "p:", 0)
	if got := s.runKey("x"); got != "p:run:x" {
		t.Errorf("runKey = %s", got)
	}
	if got := s.indexKey(); got != "p:runs" {
		t.Errorf("indexKey = %s", got)
	}
}

func TestListSkipsRunsWithoutResult(t *testing.T) {
	s, mr := testStore(t, 0)
	ctx := context.Background()

	id, err := s.Save(ctx, "good", sampleResult(dp.AlgorithmValueIteration, 4))
	if err != nil {
		t.Fatal(err)
	}
	if err := mr.Set("test:run:empty", `{"id":"empty","model":"bad","result":null}`); err != nil {
		t.Fatal(err)
	}
	if _, err := mr.ZAdd("test:runs", float64(time.Now().UnixNano()), "empty"); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 1 || runs[0].ID != id {
		t.Errorf("List() = %+v", runs)
	}
}
