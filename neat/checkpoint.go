package neat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
)

// Checkpoint is a set of genotypes captured after a given mutation round.
type Checkpoint struct {
	Round     int
	Genotypes []*Genotype
}

// checkpointSaveData holds only the exported, persistent parts of a checkpoint.
// The topology graph and random source are rebuilt on load.
type checkpointSaveData struct {
	Round     int
	Genotypes []genotypeSaveData
}

type genotypeSaveData struct {
	ID          string
	Fitness     float64
	Nodes       []NodeGene
	Connections []ConnectionGene
}

// SaveCheckpoint writes the checkpoint to filePath as gzip-compressed gob.
func (cp *Checkpoint) SaveCheckpoint(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}

	gzWriter := gzip.NewWriter(file)

	saveData := checkpointSaveData{Round: cp.Round}
	for _, g := range cp.Genotypes {
		saveData.Genotypes = append(saveData.Genotypes, genotypeSaveData{
			ID:          g.ID,
			Fitness:     g.Fitness,
			Nodes:       g.Nodes(),
			Connections: g.Connections(),
		})
	}

	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		gzWriter.Close()
		file.Close()
		return fmt.Errorf("failed to encode checkpoint data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush checkpoint '%s': %w", filePath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close checkpoint file '%s': %w", filePath, err)
	}

	slog.Info("checkpoint saved", "path", filePath, "round", cp.Round, "genotypes", len(cp.Genotypes))
	return nil
}

// LoadCheckpoint reads a checkpoint written by SaveCheckpoint. Every genotype
// is rebuilt through FromGenes, so its graph is re-derived and validated.
// opts apply to each genotype; the stored ID replaces any WithID option.
func LoadCheckpoint(filePath string, opts ...Option) (*Checkpoint, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	var saveData checkpointSaveData
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint data: %w", err)
	}

	cp := &Checkpoint{Round: saveData.Round}
	for _, sd := range saveData.Genotypes {
		g, err := FromGenes(sd.Nodes, sd.Connections, opts...)
		if err != nil {
			return nil, fmt.Errorf("checkpoint genotype %s: %w", sd.ID, err)
		}
		g.ID = sd.ID
		g.Fitness = sd.Fitness
		cp.Genotypes = append(cp.Genotypes, g)
	}

	slog.Info("checkpoint loaded", "path", filePath, "round", cp.Round, "genotypes", len(cp.Genotypes))
	return cp, nil
}
