package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/vanzari-imobiliare/api/internal/config"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func retrieveCredentials(ctx context.Context, cfg config.DBConfig) (string, string, error) {
	if cfg.Username != "" && cfg.Password != "" {
		return cfg.Username, cfg.Password, nil
	}
	if cfg.SecretID == "" {
		return "", "", errors.New("no credentials and no secret id configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", "", err
	}
	secrets := secretsmanager.NewFromConfig(awsCfg)

	result, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(cfg.SecretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", err
	}
	if result.SecretString == nil {
		return "", "", errors.New("secret has no string value")
	}
	return decodeCredentials([]byte(*result.SecretString))
}

func decodeCredentials(raw []byte) (string, string, error) {
	var secret Credentials
	if err := json.Unmarshal(raw, &secret); err != nil {
		return "", "", err
	}
	if secret.Username == "" || secret.Password == "" {
		return "", "", errors.New("secret is missing username or password")
	}
	return secret.Username, secret.Password, nil
}
