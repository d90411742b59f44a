// Package kms provides the managed key service used to decrypt bootstrap
// secrets. Ciphertext values arrive base64-encoded in the provisioning
// configuration, the way a launch template embeds them.
package kms

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// Decrypter decrypts a base64-encoded ciphertext into its plaintext value.
// Implementations must never log either side of the operation.
type Decrypter interface {
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

// Client is an AWS KMS backed Decrypter. The zero key id is allowed for
// symmetric ciphertexts, which carry the key reference inline.
type Client struct {
	kms   *kms.Client
	keyID string
}

// NewClient creates a KMS client using the default credential chain
// (instance profile on a freshly launched VM).
func NewClient(ctx context.Context, region, keyID string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Client{kms: kms.NewFromConfig(cfg), keyID: keyID}, nil
}

// Decrypt implements Decrypter.
func (c *Client) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("ciphertext is not valid base64: %w", err)
	}

	in := &kms.DecryptInput{CiphertextBlob: blob}
	if c.keyID != "" {
		in.KeyId = aws.String(c.keyID)
	}

	out, err := c.kms.Decrypt(ctx, in)
	if err != nil {
		return "", fmt.Errorf("kms decrypt failed: %w", err)
	}
	return string(out.Plaintext), nil
}
