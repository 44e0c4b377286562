package chunk

import "testing"

func TestComputeChunkSize_Tiers(t *testing.T) {
	cfg := SizerConfig{}

	tests := []struct {
		name        string
		fileSizeMB  int64
		bitrateKbps int
		wantSizeMB  int64
		wantCount   int
	}{
		{"small file", 30, 192, 15, 2},
		{"mid tier", 100, 192, 20, 5},
		{"large file", 150, 192, 25, 6},
		{"tier boundary 50MB", 50, 192, 20, 3},
		{"tiny file single chunk", 1, 192, 15, 1},
		{"high bitrate bumps size", 30, 400, 20, 2},
		{"low bitrate shrinks size", 30, 96, 10, 3},
		{"high bitrate capped at api limit", 150, 400, 25, 6},
		{"zero bitrate leaves base", 30, 0, 15, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, count := cfg.ComputeChunkSize(tt.fileSizeMB*megabyte, tt.bitrateKbps)
			if size != tt.wantSizeMB*megabyte {
				t.Errorf("size = %dMB, want %dMB", size/megabyte, tt.wantSizeMB)
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestSizerConfig_Validate(t *testing.T) {
	cfg := SizerConfig{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero config must be valid, got %v", err)
	}

	cfg = SizerConfig{MinChunkMB: 30, MaxChunkMB: 20}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for min above max")
	}

	cfg = SizerConfig{MinChunkMB: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative bound")
	}
}

func TestComputeChunkSize_APILimitWins(t *testing.T) {
	cfg := SizerConfig{APILimitMB: 12}
	size, _ := cfg.ComputeChunkSize(150*megabyte, 400)
	if size != 12*megabyte {
		t.Errorf("expected api limit 12MB to win, got %dMB", size/megabyte)
	}
}

func TestComputeChunkSize_FloorAtMin(t *testing.T) {
	cfg := SizerConfig{MinChunkMB: 12}
	size, _ := cfg.ComputeChunkSize(30*megabyte, 96)
	if size != 12*megabyte {
		t.Errorf("expected floor at 12MB, got %dMB", size/megabyte)
	}
}

func TestComputeChunkSize_Deterministic(t *testing.T) {
	cfg := SizerConfig{}
	s1, c1 := cfg.ComputeChunkSize(100*megabyte, 192)
	for i := 0; i < 10; i++ {
		s2, c2 := cfg.ComputeChunkSize(100*megabyte, 192)
		if s1 != s2 || c1 != c2 {
			t.Fatalf("non-deterministic result: (%d,%d) vs (%d,%d)", s1, c1, s2, c2)
		}
	}
}

func TestComputeChunkSize_ZeroSizeFile(t *testing.T) {
	cfg := SizerConfig{}
	size, count := cfg.ComputeChunkSize(0, 192)
	if size <= 0 {
		t.Errorf("expected positive chunk size, got %d", size)
	}
	if count != 1 {
		t.Errorf("expected count 1 for empty file, got %d", count)
	}
}

// The spec's worked example: a 100MB file at 192kbps splits into five
// 20MB chunks.
func TestComputeChunkSize_ExampleScenario(t *testing.T) {
	cfg := SizerConfig{}
	size, count := cfg.ComputeChunkSize(100*megabyte, 192)
	if size != 20*megabyte {
		t.Errorf("expected 20MB chunks, got %dMB", size/megabyte)
	}
	if count != 5 {
		t.Errorf("expected 5 chunks, got %d", count)
	}
}
