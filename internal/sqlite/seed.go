package sqlite

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/IanBaswana/jira-ai-assistant-demo/internal/ticket"
)

// Dataset is the YAML seed file layout
type Dataset struct {
	Vocabulary ticket.Vocabulary `yaml:"vocabulary"`
	Tickets    []*ticket.Ticket  `yaml:"tickets"`
}

// LoadDataset reads a seed dataset from a YAML file
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	if len(ds.Vocabulary.Statuses) == 0 {
		ds.Vocabulary = ticket.DefaultVocabulary()
	}
	return &ds, nil
}

// ImportDataset writes a dataset into the database. Existing tickets
// cause a duplicate key error; callers should only import into an
// empty store.
func ImportDataset(ctx context.Context, repo *TicketRepository, ds *Dataset) error {
	if err := repo.SaveVocabulary(ctx, ds.Vocabulary); err != nil {
		return err
	}
	for _, t := range ds.Tickets {
		if err := repo.Insert(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
