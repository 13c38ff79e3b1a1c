package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	orasregistry "oras.land/oras-go/v2/registry"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
	"oras.land/oras-go/v2/registry/remote/retry"

	"github.com/meigma/classdata/dump"
	"github.com/meigma/classdata/tpk"
)

// Client publishes packages to remote OCI repositories.
type Client struct {
	plainHTTP  bool
	userAgent  string
	credential auth.CredentialFunc
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithPlainHTTP enables plain HTTP (no TLS) for registries.
// This is useful for local development registries.
func WithPlainHTTP(enabled bool) Option {
	return func(c *Client) {
		c.plainHTTP = enabled
	}
}

// WithStaticCredentials sets username/password credentials for one registry host.
func WithStaticCredentials(host, username, password string) Option {
	return func(c *Client) {
		c.credential = auth.StaticCredential(host, auth.Credential{
			Username: username,
			Password: password,
		})
	}
}

// WithDockerConfig reads credentials from the docker config file. If it
// cannot be loaded the client stays anonymous.
func WithDockerConfig() Option {
	return func(c *Client) {
		store, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
		if err != nil {
			return
		}
		c.credential = credentials.Credential(store)
	}
}

// WithUserAgent sets the User-Agent header for requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger for publish operations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{userAgent: "ttdtotpk/1.0"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// FlavorTag returns the tag a flavor's package is published under: the base
// tag with the flavor appended, or the flavor alone when base is empty.
func FlavorTag(base string, flavor dump.Flavor) string {
	if base == "" {
		return flavor.String()
	}
	return base + "-" + flavor.String()
}

// repository parses ref and returns the repository and the base tag.
func (c *Client) repository(ref string) (*remote.Repository, string, error) {
	parsed, err := orasregistry.ParseReference(ref)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	if parsed.Reference != "" {
		if _, err := parsed.Digest(); err == nil {
			return nil, "", fmt.Errorf("%w: %q must use a tag, not a digest", ErrInvalidReference, ref)
		}
	}

	repo, err := remote.NewRepository(parsed.Registry + "/" + parsed.Repository)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	repo.PlainHTTP = c.plainHTTP
	credential := c.credential
	if credential == nil {
		credential = func(context.Context, string) (auth.Credential, error) {
			return auth.EmptyCredential, nil
		}
	}
	repo.Client = &auth.Client{
		Client:     retry.DefaultClient,
		Cache:      auth.NewCache(),
		Credential: credential,
		Header:     http.Header{"User-Agent": []string{c.userAgent}},
	}
	return repo, parsed.Reference, nil
}

// Publish pushes data, an encoded package for flavor, to the repository in
// ref under the flavor tag derived from ref's tag.
func (c *Client) Publish(ctx context.Context, ref string, flavor dump.Flavor, data []byte, opts ...PushOption) (ocispec.Descriptor, error) {
	repo, base, err := c.repository(ref)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	tag := FlavorTag(base, flavor)
	desc, err := Push(ctx, repo, tag, flavor, data, opts...)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	c.log().Info("published package",
		"repository", repo.Reference.String(),
		"tag", tag,
		"digest", desc.Digest.String(),
	)
	return desc, nil
}

// Fetch pulls the flavor's package from the repository in ref.
func (c *Client) Fetch(ctx context.Context, ref string, flavor dump.Flavor) (*tpk.Package, error) {
	repo, base, err := c.repository(ref)
	if err != nil {
		return nil, err
	}
	return Pull(ctx, repo, FlavorTag(base, flavor))
}

// Inspect returns the manifest of the flavor's package in ref without
// downloading the package itself.
func (c *Client) Inspect(ctx context.Context, ref string, flavor dump.Flavor) (*PackageManifest, error) {
	repo, base, err := c.repository(ref)
	if err != nil {
		return nil, err
	}
	return Inspect(ctx, repo, FlavorTag(base, flavor))
}
