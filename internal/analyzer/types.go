package analyzer

import (
	"context"

	"github.com/goodnatureofminers/hashinsight7000-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// BlockStream yields consecutive blocks in ascending height order
	// starting at the genesis block.
	BlockStream interface {
		Next(ctx context.Context) (model.Block, error)
	}
)
