package dsgp4

import (
	"sync"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	cfg := dsgp4Config()
	if cfg.keplerTol != 1e-12 || cfg.keplerMaxIter != 10 {
		t.Fatalf("Kepler defaults: %+v", cfg)
	}
	if cfg.newtonTol != 1e-12 || cfg.newtonMaxIter != 50 {
		t.Fatalf("Newton defaults: %+v", cfg)
	}
	if cfg.batchWorkers < 1 {
		t.Fatalf("worker default: %+v", cfg)
	}
}

func TestConfigConcurrentLoad(t *testing.T) {
	out := make([]_dsgp4config, 16)
	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = dsgp4Config()
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(out); i++ {
		if out[i] != out[0] {
			t.Fatalf("concurrent loads disagree: %+v vs %+v", out[i], out[0])
		}
	}
}
