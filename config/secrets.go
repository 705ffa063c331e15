package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

var ErrMissingSigningSecret = errors.New("JWT_SECRET (or JWT_SECRET_SSM_PARAM) must be set")

// ParameterGetter is the subset of the SSM client used to resolve secrets
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ResolveSecrets fills in secrets that are kept in SSM Parameter Store rather
// than in the environment. Values already present in the environment win.
func ResolveSecrets(ctx context.Context, s *Settings, params ParameterGetter) error {
	if s.JWTSecret == "" && s.JWTSecretSSMParam != "" && params != nil {
		out, err := params.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(s.JWTSecretSSMParam),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("read parameter %s: %w", s.JWTSecretSSMParam, err)
		}
		if out.Parameter != nil {
			s.JWTSecret = aws.ToString(out.Parameter.Value)
		}
	}

	if s.JWTSecret == "" {
		return ErrMissingSigningSecret
	}
	return nil
}
