package storage

import (
	"context"
	"io"
	"strings"

	"github.com/ncw/swift/v2"
	"github.com/pkg/errors"
)

type swiftbackend struct {
	connection *swift.Connection
	container  string
	baseurl    string
}

// SwiftOptions holds the settings of an OpenStack Swift backend.
type SwiftOptions struct {
	AuthURL   string
	Username  string
	APIKey    string
	Tenant    string
	Domain    string
	Region    string
	Container string
	BaseURL   string
}

// NewSwift returns a new OpenStack Swift backend and ensures the container exists.
func NewSwift(opts SwiftOptions) (Backend, error) {
	connection := &swift.Connection{
		AuthUrl:  opts.AuthURL,
		UserName: opts.Username,
		ApiKey:   opts.APIKey,
		Tenant:   opts.Tenant,
		Domain:   opts.Domain,
		Region:   opts.Region,
	}

	ctx := context.Background()

	if err := connection.Authenticate(ctx); err != nil {
		return nil, errors.Wrap(err, "could not authenticate to swift")
	}

	if err := connection.ContainerCreate(ctx, opts.Container, nil); err != nil {
		return nil, errors.Wrap(err, "could not create container")
	}

	return &swiftbackend{
		connection: connection,
		container:  opts.Container,
		baseurl:    strings.TrimRight(opts.BaseURL, "/"),
	}, nil
}

func (b *swiftbackend) Name() string {
	return "swift"
}

func (b *swiftbackend) Writer(key, contentType string) (io.WriteCloser, error) {
	wc, err := b.connection.ObjectCreate(context.Background(), b.container, key, false, "", contentType, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not create object")
	}
	return wc, nil
}

func (b *swiftbackend) Reader(key string) (io.ReadCloser, error) {
	rc, _, err := b.connection.ObjectOpen(context.Background(), b.container, key, false, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not open object")
	}
	return rc, nil
}

func (b *swiftbackend) Remove(key string) error {
	err := b.connection.ObjectDelete(context.Background(), b.container, key)
	if err == swift.ObjectNotFound {
		return nil
	}
	return errors.Wrap(err, "could not delete object")
}

func (b *swiftbackend) Keys(prefix string) ([]string, error) {
	keys, err := b.connection.ObjectNames(context.Background(), b.container, &swift.ObjectsOpts{
		Prefix: prefix,
	})
	return keys, errors.Wrap(err, "could not list keys")
}

func (b *swiftbackend) URL(key string) string {
	return b.baseurl + "/" + b.container + "/" + key
}

func (b *swiftbackend) Ping() error {
	ctx := context.Background()

	if !b.connection.Authenticated() {
		if err := b.connection.Authenticate(ctx); err != nil {
			return errors.Wrap(err, "could not authenticate to swift")
		}
	}

	_, _, err := b.connection.Container(ctx, b.container)
	return errors.Wrap(err, "could not reach container")
}

func (b *swiftbackend) Cleanup() error {
	// Keys are flat, there is no directory artifact to collect.
	return nil
}
