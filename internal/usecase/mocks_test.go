package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/illancapan/uno-test-full-stack/internal/entity"
)

type mockDeckService struct {
	mock.Mock
}

func (that *mockDeckService) BuildDeck(ctx context.Context, pairs int) ([]entity.Card, error) {
	args := that.Called(ctx, pairs)

	deck, _ := args.Get(0).([]entity.Card)

	return deck, args.Error(1)
}

type mockResultRepo struct {
	mock.Mock
}

func (that *mockResultRepo) Save(ctx context.Context, result *entity.GameResult) error {
	return that.Called(ctx, result).Error(0)
}

func (that *mockResultRepo) FindByRun(ctx context.Context, run string) ([]*entity.GameResult, error) {
	args := that.Called(ctx, run)

	results, _ := args.Get(0).([]*entity.GameResult)

	return results, args.Error(1)
}

func (that *mockResultRepo) FindAll(ctx context.Context) ([]*entity.GameResult, error) {
	args := that.Called(ctx)

	results, _ := args.Get(0).([]*entity.GameResult)

	return results, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (that *mockPublisher) ResultSaved(ctx context.Context, result *entity.GameResult) error {
	return that.Called(ctx, result).Error(0)
}
