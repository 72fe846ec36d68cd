package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretPayload is the JSON shape of a stored storage key pair.
type secretPayload struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
}

// resolveCredentials picks a credentials provider for the uploader: static
// keys from config first, then a Secrets Manager secret, otherwise nil so
// the SDK's default chain applies.
func resolveCredentials(ctx context.Context, cfg Config) (aws.CredentialsProvider, error) {
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		return credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""), nil
	}

	if cfg.CredentialsSecret != "" {
		payload, err := fetchSecret(ctx, cfg.Region, cfg.CredentialsSecret)
		if err != nil {
			return nil, err
		}
		return credentials.NewStaticCredentialsProvider(payload.AccessKeyID, payload.SecretAccessKey, ""), nil
	}

	return nil, nil
}

func fetchSecret(ctx context.Context, region, name string) (*secretPayload, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config for secrets: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch secret %s: %w", name, err)
	}

	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string payload", name)
	}

	return parseSecretPayload([]byte(*out.SecretString))
}

func parseSecretPayload(data []byte) (*secretPayload, error) {
	var payload secretPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse storage credentials secret: %w", err)
	}
	if payload.AccessKeyID == "" || payload.SecretAccessKey == "" {
		return nil, fmt.Errorf("storage credentials secret is missing accessKeyId or secretAccessKey")
	}
	return &payload, nil
}
