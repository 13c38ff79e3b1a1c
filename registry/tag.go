package registry

import (
	"context"
	"fmt"

	"oras.land/oras-go/v2"

	"github.com/meigma/classdata/dump"
)

// Tag points each of tags at the manifest currently tagged src in target.
func Tag(ctx context.Context, target oras.Target, src string, tags ...string) error {
	desc, err := target.Resolve(ctx, src)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", src, mapError(err))
	}
	for _, t := range tags {
		if t == "" {
			return fmt.Errorf("%w: empty tag", ErrInvalidReference)
		}
		if err := target.Tag(ctx, desc, t); err != nil {
			return fmt.Errorf("tag %q: %w", t, mapError(err))
		}
	}
	return nil
}

// Tag adds tags to the flavor's package in the repository named by ref.
// Each tag gets the flavor appended the same way Publish names it.
func (c *Client) Tag(ctx context.Context, ref string, flavor dump.Flavor, tags ...string) error {
	repo, base, err := c.repository(ref)
	if err != nil {
		return err
	}
	flavored := make([]string, len(tags))
	for i, t := range tags {
		if t == "" {
			return fmt.Errorf("%w: empty tag", ErrInvalidReference)
		}
		flavored[i] = FlavorTag(t, flavor)
	}
	return Tag(ctx, repo, FlavorTag(base, flavor), flavored...)
}
