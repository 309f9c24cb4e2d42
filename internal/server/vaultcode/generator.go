// Package vaultcode produces short, human-shareable vault codes: a
// fixed-width random byte sequence rendered as uppercase hex.
package vaultcode

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/server/repositories/vaults"
)

// MaxAttempts bounds the collision-retry loop. When the code space is this
// saturated the caller gets ErrorResourceExhausted instead of spinning.
const MaxAttempts = 100

// Generator draws candidate codes and checks them against the vault store.
// Generation itself has no side effects; the service persists the winner.
type Generator struct {
	repo      vaults.Repository
	codeBytes int
	now       func() time.Time
}

// NewGenerator constructs a Generator producing codes of codeBytes random
// bytes (2*codeBytes hex characters).
func NewGenerator(repo vaults.Repository, codeBytes int) *Generator {
	return &Generator{repo: repo, codeBytes: codeBytes, now: time.Now}
}

// Generate returns a code not currently held by any non-expired vault.
// Codes released by expired vaults are eligible for reuse.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		s, err := common.MakeRandHexString(g.codeBytes)
		if err != nil {
			return "", fmt.Errorf("code generation: %w", err)
		}
		code := strings.ToUpper(s)

		inUse, err := g.repo.CodeInUse(ctx, code, g.now())
		if err != nil {
			return "", fmt.Errorf("%w: code lookup: %v", common.ErrorUpstream, err)
		}
		if !inUse {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: no free vault code after %d attempts", common.ErrorResourceExhausted, MaxAttempts)
}
