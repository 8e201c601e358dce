package bankroll

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"AviatorAdvisor/internal/model"
)

// Checkpoint is the persisted form of a session.
type Checkpoint struct {
	State        model.BankrollState `json:"state"`
	Transactions []model.Transaction `json:"transactions"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// LoadState reads a checkpoint from a JSON file. Returns an empty checkpoint if the file doesn't exist.
func LoadState(filePath string) (*Checkpoint, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Checkpoint{}, nil
		}
		return nil, err
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

// SaveState writes a checkpoint to a JSON file.
func SaveState(filePath string, cp *Checkpoint) error {
	cp.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
