package dubbing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	utterancesFile = "utterances.json"
	artifactsFile  = "artifacts.json"
)

// ArtifactsDoc is the sibling document persisted next to the utterance list:
// run identity plus the preprocessing and postprocessing artifact paths a
// re-dub needs.
type ArtifactsDoc struct {
	Name           string                   `json:"name"`
	TargetLanguage string                   `json:"target_language"`
	RunDir         string                   `json:"run_dir"`
	Preprocessing  PreprocessingArtifacts   `json:"preprocessing"`
	Postprocessing *PostprocessingArtifacts `json:"postprocessing,omitempty"`
}

// SaveState writes the utterance list and artifacts document into dir with
// write-temp-then-rename semantics, so a crash never leaves a half-written
// state behind.
func SaveState(dir string, list UtteranceList, doc ArtifactsDoc) error {
	if err := writeJSONAtomic(filepath.Join(dir, utterancesFile), list); err != nil {
		return fmt.Errorf("save utterances: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(dir, artifactsFile), doc); err != nil {
		return fmt.Errorf("save artifacts: %w", err)
	}
	return nil
}

// LoadState reloads a persisted run for inspection or re-dubbing.
func LoadState(dir string) (UtteranceList, *ArtifactsDoc, error) {
	var list UtteranceList
	if err := readJSON(filepath.Join(dir, utterancesFile), &list); err != nil {
		return nil, nil, err
	}

	var doc ArtifactsDoc
	if err := readJSON(filepath.Join(dir, artifactsFile), &doc); err != nil {
		return nil, nil, err
	}

	if err := list.Validate(); err != nil {
		return nil, nil, err
	}

	return list, &doc, nil
}

func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AssetMissingError{Path: path}
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
