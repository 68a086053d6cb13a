package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"wallet-credit-lab/internal/calibration/gbt"
)

// Artifact file names within an output directory.
const (
	ModelArtifactFile  = "credit_model.json"
	ScalerArtifactFile = "scaler.json"
)

// SaveArtifacts persists the fitted model and scaler for reuse without
// refitting.
func SaveArtifacts(dir string, model *gbt.Model, scaler *RobustScaler) error {
	if err := writeJSON(filepath.Join(dir, ModelArtifactFile), model); err != nil {
		return fmt.Errorf("save model artifact: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, ScalerArtifactFile), scaler); err != nil {
		return fmt.Errorf("save scaler artifact: %w", err)
	}
	return nil
}

// LoadArtifacts reloads a previously persisted model and scaler.
func LoadArtifacts(dir string) (*gbt.Model, *RobustScaler, error) {
	var model gbt.Model
	if err := readJSON(filepath.Join(dir, ModelArtifactFile), &model); err != nil {
		return nil, nil, fmt.Errorf("load model artifact: %w", err)
	}
	var scaler RobustScaler
	if err := readJSON(filepath.Join(dir, ScalerArtifactFile), &scaler); err != nil {
		return nil, nil, fmt.Errorf("load scaler artifact: %w", err)
	}
	return &model, &scaler, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
