package docker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
)

type ContainerSpec struct {
	Name  string
	Image string
	Cmd   []string
	// Ports maps host ports to container TCP ports.
	Ports map[int]int
}

// RunDetached creates and starts a named container and returns its ID.
func (c *Client) RunDetached(ctx context.Context, spec ContainerSpec) (string, error) {
	exposed, bindings, err := portConfig(spec.Ports)
	if err != nil {
		return "", err
	}

	config := &container.Config{
		Image:        spec.Image,
		Cmd:          spec.Cmd,
		ExposedPorts: exposed,
	}
	hostConfig := &container.HostConfig{
		PortBindings: bindings,
	}

	resp, err := c.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create container %s: %w", spec.Name, err)
	}

	if err := c.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = c.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("failed to start container %s: %w", spec.Name, err)
	}

	c.logger.With("name", spec.Name).With("id", resp.ID).Info("container started")

	return resp.ID, nil
}

// RemoveContainer force-removes a container. A missing container is not an error.
func (c *Client) RemoveContainer(ctx context.Context, name string) error {
	err := c.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true})
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to remove container %s: %w", name, err)
	}

	c.logger.With("name", name).Info("container removed")
	return nil
}

func portConfig(ports map[int]int) (nat.PortSet, nat.PortMap, error) {
	exposed := nat.PortSet{}
	bindings := nat.PortMap{}

	for hostPort, containerPort := range ports {
		port, err := nat.NewPort("tcp", strconv.Itoa(containerPort))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid container port %d: %w", containerPort, err)
		}
		exposed[port] = struct{}{}
		bindings[port] = append(bindings[port], nat.PortBinding{
			HostIP:   "127.0.0.1",
			HostPort: strconv.Itoa(hostPort),
		})
	}

	return exposed, bindings, nil
}
