package node

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/compose-network/fundme-deployer/configs"
	"github.com/compose-network/fundme-deployer/internal/deployments"
	"github.com/compose-network/fundme-deployer/internal/infra/docker"
	"github.com/compose-network/fundme-deployer/internal/logger"
)

const anvilPort = 8545

type (
	containerRuntime interface {
		ImageExists(ctx context.Context, imageName string) (bool, error)
		PullImage(ctx context.Context, imageName string) error
		RunDetached(ctx context.Context, spec docker.ContainerSpec) (string, error)
		RemoveContainer(ctx context.Context, name string) error
	}

	// Service runs a local anvil chain in docker for development deployments.
	Service struct {
		runtime   containerRuntime
		cfg       configs.Node
		waitReady func(ctx context.Context, url string) error
		logger    *slog.Logger
	}
)

func NewService(runtime containerRuntime, cfg configs.Node) *Service {
	return &Service{
		runtime: runtime,
		cfg:     cfg,
		waitReady: func(ctx context.Context, url string) error {
			client, err := deployments.WaitForRPC(ctx, url, 60, time.Second)
			if err != nil {
				return err
			}
			client.Close()
			return nil
		},
		logger: logger.Named("dev_node"),
	}
}

func (s *Service) RPCURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", s.cfg.Port)
}

// Start replaces any previous node container with a fresh chain and waits for its RPC.
func (s *Service) Start(ctx context.Context) error {
	exists, err := s.runtime.ImageExists(ctx, s.cfg.Image)
	if err != nil {
		return fmt.Errorf("failed to inspect image %s: %w", s.cfg.Image, err)
	}
	if !exists {
		if err := s.runtime.PullImage(ctx, s.cfg.Image); err != nil {
			return err
		}
	}

	if err := s.runtime.RemoveContainer(ctx, s.cfg.ContainerName); err != nil {
		return err
	}

	if _, err := s.runtime.RunDetached(ctx, s.containerSpec()); err != nil {
		return err
	}

	s.logger.With("url", s.RPCURL()).Info("waiting for dev node RPC")
	if err := s.waitReady(ctx, s.RPCURL()); err != nil {
		return err
	}

	s.logger.With("url", s.RPCURL()).With("chain_id", s.cfg.ChainID).Info("dev node is ready")

	return nil
}

func (s *Service) Stop(ctx context.Context) error {
	return s.runtime.RemoveContainer(ctx, s.cfg.ContainerName)
}

func (s *Service) containerSpec() docker.ContainerSpec {
	return docker.ContainerSpec{
		Name:  s.cfg.ContainerName,
		Image: s.cfg.Image,
		// the foundry image runs its command through /bin/sh -c
		Cmd:   []string{fmt.Sprintf("anvil --host 0.0.0.0 --port %d --chain-id %d", anvilPort, s.cfg.ChainID)},
		Ports: map[int]int{s.cfg.Port: anvilPort},
	}
}
