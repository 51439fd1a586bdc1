// Package buildctx turns a build-context directory into the tar stream the
// Docker engine build API expects.
package buildctx

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// skipDirs are never shipped to the daemon.
var skipDirs = map[string]bool{
	".git": true,
}

// Tar archives the directory at root into an in-memory tar stream.
// Paths inside the archive are slash-separated and relative to root, so a
// Dockerfile at the top of root ends up as "Dockerfile".
func Tar(root string) (io.Reader, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat context: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("context %s is not a directory", root)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() && skipDirs[d.Name()] {
			return filepath.SkipDir
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		link := ""
		if fi.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(fi, link)
		if err != nil {
			return err
		}
		hdr.Name = name
		if d.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write tar header %s: %w", name, err)
		}

		if !fi.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close tar: %w", err)
	}

	return &buf, nil
}

// HasDockerfile reports whether the context directory carries a Dockerfile
// at its top level. Only used for an early warning; the daemon is the
// authority.
func HasDockerfile(root string) bool {
	fi, err := os.Stat(filepath.Join(root, "Dockerfile"))
	return err == nil && !fi.IsDir()
}
