package registry

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/worldkit/worldgen/internal/config"
	"github.com/worldkit/worldgen/internal/core/chainlog"
	"github.com/worldkit/worldgen/internal/core/model"
)

// generationsSignature is the registry call whose tuple layout the decoder's
// positional mapping depends on. Changing the contract signature without
// updating chainlog invalidates every decoded field.
const generationsSignature = "getGenerations(uint256)((uint256,address,bytes32,bytes32,string,string[],uint8,string[],uint256,uint256)[])"

// Client reads generation history from the Worldkit registry by shelling out
// to the external chain-query binary and decoding its printed output.
type Client struct {
	cfg config.ChainConfig
}

func NewClient(cfg config.ChainConfig) *Client {
	return &Client{cfg: cfg}
}

// FetchRaw invokes the chain-query binary and returns its stdout verbatim.
// A non-zero exit is reported here, separately from decoding: an empty decode
// result means "zero known generations", not failure.
func (c *Client) FetchRaw(ctx context.Context, tokenID string) (string, error) {
	cmd := exec.CommandContext(ctx, c.cfg.CastBin,
		"call", c.cfg.RegistryAddress, generationsSignature, tokenID,
		"--rpc-url", c.cfg.RPCURL)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("chain query failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Generations returns the decoded generation records for a token.
func (c *Client) Generations(ctx context.Context, tokenID string) ([]model.GenerationRecord, error) {
	raw, err := c.FetchRaw(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	return chainlog.Decode(raw), nil
}
