package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/worldkit/worldgen/internal/core/model"
)

// Load reads the locked corpus file. The corpus cap is sacred: a file with
// more than model.CorpusCap universes is rejected outright rather than
// silently truncated, since every generation is audited against it.
func Load(path string) (*model.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file '%s': %w", path, err)
	}

	var c model.Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus JSON: %w", err)
	}

	if len(c.Universes) == 0 {
		return nil, fmt.Errorf("corpus '%s' contains no universes", path)
	}
	if len(c.Universes) > model.CorpusCap {
		return nil, fmt.Errorf("corpus '%s' has %d universes, cap is %d", path, len(c.Universes), model.CorpusCap)
	}

	return &c, nil
}
