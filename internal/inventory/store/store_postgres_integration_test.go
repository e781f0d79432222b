//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"wardstock/internal/inventory/models"
	"wardstock/pkg/platform/sentinel"
	"wardstock/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(s.ctx, "inventory"))
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	s.Require().NoError(s.store.Create(s.ctx, &models.Item{ID: "A1", Name: "Gauze", Quantity: 0}))

	it, err := s.store.FindByID(s.ctx, "A1")
	s.Require().NoError(err)
	s.Equal(&models.Item{ID: "A1", Name: "Gauze", Quantity: 0}, it)

	err = s.store.Create(s.ctx, &models.Item{ID: "A1", Name: "Again"})
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestUpdatesAndDelete() {
	s.Require().NoError(s.store.Create(s.ctx, &models.Item{ID: "A1", Name: "Gauze", Quantity: 3}))

	it, err := s.store.UpdateQuantity(s.ctx, "A1", 8)
	s.Require().NoError(err)
	s.Equal("Gauze", it.Name)
	s.Equal(8, it.Quantity)

	it, err = s.store.Update(s.ctx, "A1", "Bandage", 2)
	s.Require().NoError(err)
	s.Equal("Bandage", it.Name)

	deleted, err := s.store.Delete(s.ctx, "A1")
	s.Require().NoError(err)
	s.Equal("Bandage", deleted.Name)

	_, err = s.store.Delete(s.ctx, "A1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListOrderedByName() {
	s.Require().NoError(s.store.Create(s.ctx, &models.Item{ID: "Z1", Name: "Alcohol swab"}))
	s.Require().NoError(s.store.Create(s.ctx, &models.Item{ID: "A1", Name: "Thermometer"}))

	items, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("Alcohol swab", items[0].Name)
}
