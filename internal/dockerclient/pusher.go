package dockerclient

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/moby/term"
)

type DockerImagePusher interface {
	PushImage(ctx context.Context, ref string) error
}

// PushImage pushes ref and streams the daemon's progress to stdout when
// attached to a terminal. Credentials are left to the daemon's own
// credential store; we only send an empty auth blob.
func (dc *dockerClient) PushImage(ctx context.Context, ref string) error {
	auth, err := emptyRegistryAuth()
	if err != nil {
		return err
	}

	body, err := dc.client.ImagePush(ctx, ref, image.PushOptions{
		RegistryAuth: auth,
	})
	if err != nil {
		return fmt.Errorf("image push %s: %w", ref, err)
	}
	defer body.Close()

	outFd, isTerm := term.GetFdInfo(os.Stdout)
	var out io.Writer = os.Stdout
	if !isTerm {
		out = io.Discard
	}

	// The daemon reports push failures inside the stream, not via the
	// request error.
	if err := jsonmessage.DisplayJSONMessagesStream(body, out, outFd, isTerm, nil); err != nil {
		return fmt.Errorf("image push %s: %w", ref, err)
	}

	return nil
}

func emptyRegistryAuth() (string, error) {
	encoded, err := registry.EncodeAuthConfig(registry.AuthConfig{})
	if err != nil {
		return "", fmt.Errorf("encode registry auth: %w", err)
	}
	return encoded, nil
}
