package sync

import (
	"context"
	"errors"
	"time"

	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/store"
)

// mockStore is a minimal in-memory store.Store for export tests.
type mockStore struct {
	emissions []*model.Emission
	listErr   error
}

func newMockStore() *mockStore {
	return &mockStore{}
}

// add appends an emission with the next id.
func (m *mockStore) add(repo string, co2 float64, badge model.Badge) *model.Emission {
	e := &model.Emission{
		ID: int64(len(m.emissions) + 1), Repo: repo, Owner: "acme", RunID: repo + "-run",
		CO2: co2, Duration: 60, MachineType: "ubuntu-latest", Badge: badge,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	m.emissions = append(m.emissions, e)
	return e
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) AppendEmission(_ context.Context, e *model.Emission) error {
	e.ID = int64(len(m.emissions) + 1)
	m.emissions = append(m.emissions, e)
	return nil
}

func (m *mockStore) ListEmissions(_ context.Context) ([]*model.Emission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.emissions, nil
}

func (m *mockStore) LatestEmission(_ context.Context) (*model.Emission, error) {
	return nil, errors.New("not used")
}

func (m *mockStore) CountByBadge(_ context.Context, _ model.Badge) (int, error) {
	return 0, errors.New("not used")
}

func (m *mockStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
