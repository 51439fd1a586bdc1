package dockerclient

import (
	"context"
	"fmt"
)

type DockerImageTagger interface {
	TagImage(ctx context.Context, source string, target string) error
}

func (dc *dockerClient) TagImage(ctx context.Context, source string, target string) error {
	if err := dc.client.ImageTag(ctx, source, target); err != nil {
		return fmt.Errorf("image tag %s -> %s: %w", source, target, err)
	}
	return nil
}
