package deployments

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

// WaitForRPC dials url until the node answers eth_blockNumber and returns the
// connected client.
func WaitForRPC(ctx context.Context, url string, attempts int, interval time.Duration) (*ethclient.Client, error) {
	attempts = max(attempts, 1)

	var lastErr error
	for range attempts {
		client, err := ethclient.DialContext(ctx, url)
		if err == nil {
			if _, err = client.BlockNumber(ctx); err == nil {
				return client, nil
			}
			client.Close()
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}

	return nil, fmt.Errorf("timed out waiting for RPC at %s: %w", url, lastErr)
}
