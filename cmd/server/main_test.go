package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/config"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/auth"
)

func TestTokenCommand_MintsVerifiableToken(t *testing.T) {
	const secret = "cli-test-secret-0123456789abcdefgh"
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("LOG_OUTPUT", "stderr")

	var out, errOut bytes.Buffer
	app := &cli.App{
		Writer:    &out,
		ErrWriter: &errOut,
		Commands: []*cli.Command{{
			Name: "token",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "subject", Required: true},
				&cli.DurationFlag{Name: "ttl"},
			},
			Action: token,
		}},
	}
	require.NoError(t, app.Run([]string{"storefront", "token", "--subject", "ops-bot", "--ttl", "5m"}))

	signed := strings.TrimSpace(out.String())
	require.NotEmpty(t, signed)
	assert.Contains(t, errOut.String(), "expires at")

	authn := auth.NewAuthenticator(config.JWTConfig{Secret: secret}, zap.NewNop())
	outcome := authn.Authenticate([]string{"Bearer " + signed})
	require.True(t, outcome.Authenticated(), outcome.Reason.String())
	assert.Equal(t, "ops-bot", outcome.Subject)
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_DRIVER", config.StorageMemory)
	t.Setenv("LOG_OUTPUT", "stderr")

	err := migrate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER=postgres")
}
