package commands

import (
	"go.uber.org/zap"

	"github.com/temirov/llmpack/internal/gitignore"
)

// TreeBuilder renders the directory tree of a project using the discovered ignore scopes.
type TreeBuilder struct {
	Store  *gitignore.Store
	Logger *zap.Logger
}

// NewTreeBuilder constructs a TreeBuilder. A nil logger discards log output.
func NewTreeBuilder(store *gitignore.Store, logger *zap.Logger) *TreeBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeBuilder{Store: store, Logger: logger}
}
