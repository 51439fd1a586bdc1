package dockerclient

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/build"
	sdkimage "github.com/docker/go-sdk/image"

	"github.com/paulscherrerinstitute/camship/internal/buildctx"
)

type DockerImageBuilder interface {
	BuildImage(ctx context.Context, contextDir string, ref string, useCache bool) (string, error)
}

// BuildImage builds the image from the given context directory and labels
// it with ref. The release default disables the layer cache so every
// release rebuilds from scratch.
func (dc *dockerClient) BuildImage(ctx context.Context, contextDir string, ref string, useCache bool) (string, error) {
	contextTar, err := buildctx.Tar(contextDir)
	if err != nil {
		return "", fmt.Errorf("archive build context: %w", err)
	}

	builtRef, err := sdkimage.Build(
		ctx,
		contextTar,
		ref,
		sdkimage.WithBuildClient(dc.client),
		sdkimage.WithBuildOptions(build.ImageBuildOptions{
			Dockerfile: "Dockerfile",
			NoCache:    !useCache,
			Remove:     true, // remove intermediate containers
		}),
	)
	if err != nil {
		return "", fmt.Errorf("image build: %w", err)
	}

	return builtRef, nil
}
