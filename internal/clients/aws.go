package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
)

// AWSFactory builds aws-sdk-go-v2 clients scoped to a region and shared-config
// profile.
//
// SDK-level retries are limited to a single attempt: transport failures must
// reach the runner, which owns recovery through handle invalidation.
type AWSFactory struct {
	endpointURL string
}

// NewAWSFactory returns a factory. A non-empty endpointURL overrides the
// service endpoint (local emulators, VPC endpoints).
func NewAWSFactory(endpointURL string) *AWSFactory {
	return &AWSFactory{endpointURL: endpointURL}
}

// NewClient loads the SDK configuration for key, checks that credentials
// resolve, and builds the service client.
func (f *AWSFactory) NewClient(ctx context.Context, key Key) (any, func(), error) {
	if key.Service != ServiceAthena {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownService, key.Service)
	}

	// Each handle owns its connection pool; release closes it.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	httpClient := &http.Client{Transport: transport}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(key.Region),
		awsconfig.WithHTTPClient(httpClient),
		awsconfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), 1)
		}),
	}
	if key.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(key.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("load aws config: %w", err)
	}

	if _, err = cfg.Credentials.Retrieve(ctx); err != nil {
		return nil, nil, fmt.Errorf("resolve credentials: %w", err)
	}

	client := athena.NewFromConfig(cfg, func(o *athena.Options) {
		if f.endpointURL != "" {
			o.BaseEndpoint = aws.String(f.endpointURL)
		}
	})

	return client, transport.CloseIdleConnections, nil
}
