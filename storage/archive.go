package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Dosada05/swiss-tournament/models"
)

const roundContentType = "application/json"

// RoundArchiver writes published rounds to an object store as JSON documents.
type RoundArchiver struct {
	store  ObjectStore
	prefix string
	newID  func() string
}

func NewRoundArchiver(store ObjectStore, prefix string) *RoundArchiver {
	return &RoundArchiver{
		store:  store,
		prefix: prefix,
		newID:  func() string { return uuid.NewString() },
	}
}

func (a *RoundArchiver) key(round *models.Round) string {
	return fmt.Sprintf("%sround-%03d-%s.json", a.prefix, round.Number, a.newID())
}

// Archive uploads round and returns its public location.
func (a *RoundArchiver) Archive(ctx context.Context, round *models.Round) (string, error) {
	body, err := json.MarshalIndent(round, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode round %d: %w", round.Number, err)
	}
	res, err := a.store.Put(ctx, a.key(round), roundContentType, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return res.Location, nil
}
